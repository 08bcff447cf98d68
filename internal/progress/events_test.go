// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		expected  string
	}{
		{name: "EventScheduled", eventType: EventScheduled, expected: "scheduled"},
		{name: "EventStarted", eventType: EventStarted, expected: "started"},
		{name: "EventSuspended", eventType: EventSuspended, expected: "suspended"},
		{name: "EventResumed", eventType: EventResumed, expected: "resumed"},
		{name: "EventCompleted", eventType: EventCompleted, expected: "completed"},
		{name: "EventFailed", eventType: EventFailed, expected: "failed"},
		{name: "EventCancelled", eventType: EventCancelled, expected: "cancelled"},
		{name: "Unknown event type", eventType: EventType(999), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.String())
		})
	}
}

func TestEventType_Terminal(t *testing.T) {
	assert.False(t, EventScheduled.Terminal())
	assert.False(t, EventSuspended.Terminal())
	assert.True(t, EventCompleted.Terminal())
	assert.True(t, EventFailed.Terminal())
	assert.True(t, EventCancelled.Terminal())
}

func TestNullReporter(t *testing.T) {
	reporter := NewNullReporter()
	require.NotNil(t, reporter)

	// These should not panic
	reporter.Report(Event{TaskName: "test", Type: EventStarted, Timestamp: time.Now()})
	reporter.Close()
}

func TestChannelReporter_Listen(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewChannelReporter(10)

	var (
		mu       sync.Mutex
		received []Event
	)

	reporter.Listen(ListenerFunc(func(e Event) {
		mu.Lock()
		defer mu.Unlock()

		received = append(received, e)
	}))

	reporter.Report(Event{TaskID: 1, TaskName: "a", Type: EventScheduled})
	reporter.Report(Event{TaskID: 1, TaskName: "a", Type: EventCompleted})
	reporter.Close()

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, received, 2)
	assert.Equal(t, EventScheduled, received[0].Type)
	assert.Equal(t, EventCompleted, received[1].Type)
}

func TestChannelReporter_DropsWhenFull(t *testing.T) {
	reporter := NewChannelReporter(1)

	reporter.Report(Event{Type: EventStarted})
	reporter.Report(Event{Type: EventCompleted})

	assert.Equal(t, int64(1), reporter.Dropped())

	reporter.Close()

	e, ok := <-reporter.Events()
	assert.True(t, ok)
	assert.Equal(t, EventStarted, e.Type)
}

func TestChannelReporter_ReportAfterClose(t *testing.T) {
	reporter := NewChannelReporter(1)
	reporter.Close()
	reporter.Close()

	// Must not panic on a closed channel
	reporter.Report(Event{Type: EventStarted})
	assert.Equal(t, int64(0), reporter.Dropped())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Report(Event{TaskName: "a", Type: EventScheduled})
	r.Report(Event{TaskName: "b", Type: EventScheduled})
	r.Report(Event{TaskName: "a", Type: EventCompleted})

	assert.Len(t, r.Events(), 3)
	assert.Equal(t, []EventType{EventScheduled, EventCompleted}, r.Types("a"))
	assert.Empty(t, r.Types("missing"))
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi(a, nil, b)

	m.Report(Event{TaskName: "A", Type: EventStarted})
	m.Report(Event{TaskName: "A", Type: EventCompleted})
	m.Close()

	want := []EventType{EventStarted, EventCompleted}
	assert.Equal(t, want, a.Types("A"))
	assert.Equal(t, want, b.Types("A"))
}

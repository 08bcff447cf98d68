// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"sync"
	"sync/atomic"
)

// ChannelReporter implements Reporter using a buffered channel.
// Events are dropped rather than blocking the sender when the buffer is full.
type ChannelReporter struct {
	ch      chan Event
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewChannelReporter creates a new ChannelReporter with the specified buffer size.
func NewChannelReporter(bufferSize int) *ChannelReporter {
	return &ChannelReporter{
		ch: make(chan Event, bufferSize),
	}
}

// Report implements Reporter.Report.
func (cr *ChannelReporter) Report(event Event) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.closed {
		return
	}

	select {
	case cr.ch <- event:
	default:
		cr.dropped.Add(1)
	}
}

// Close implements Reporter.Close.
// It closes the channel and waits for any listener started with Listen to drain it.
func (cr *ChannelReporter) Close() {
	cr.mu.Lock()
	if cr.closed {
		cr.mu.Unlock()
		return
	}

	cr.closed = true
	close(cr.ch)
	cr.mu.Unlock()

	cr.wg.Wait()
}

// Listen forwards every event to the listener on a separate goroutine until Close is called.
func (cr *ChannelReporter) Listen(listener Listener) {
	cr.wg.Add(1)

	go func() {
		defer cr.wg.Done()

		for event := range cr.ch {
			listener.OnEvent(event)
		}
	}()
}

// Events returns a read-only channel of events.
// Useful when you want to handle events manually instead of using a listener.
func (cr *ChannelReporter) Events() <-chan Event {
	return cr.ch
}

// Dropped returns the number of events discarded because the buffer was full.
func (cr *ChannelReporter) Dropped() int64 {
	return cr.dropped.Load()
}

// Recorder is a Reporter that keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Report implements Reporter.Report.
func (r *Recorder) Report(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

// Close implements Reporter.Close.
func (r *Recorder) Close() {}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)

	return out
}

// Types returns the recorded event types for the named unit, in order.
func (r *Recorder) Types(name string) []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []EventType

	for _, e := range r.events {
		if e.TaskName == name {
			out = append(out, e.Type)
		}
	}

	return out
}

// multiReporter sends every event to each of its reporters in order.
type multiReporter []Reporter

// Multi returns a Reporter that forwards events to all of rs. Nil reporters are skipped.
func Multi(rs ...Reporter) Reporter {
	out := make(multiReporter, 0, len(rs))

	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}

	return out
}

// Report implements Reporter.Report.
func (m multiReporter) Report(event Event) {
	for _, r := range m {
		r.Report(event)
	}
}

// Close implements Reporter.Close.
func (m multiReporter) Close() {
	for _, r := range m {
		r.Close()
	}
}

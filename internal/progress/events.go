// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event represents a change in the lifecycle of a unit of work.
type Event struct {
	TaskID    uint64    // Identifier of the unit, unique within one loop
	TaskName  string    // Display name of the unit
	Type      EventType // What happened
	Timestamp time.Time // When it happened
	Err       error     // The failure, for EventFailed and EventCancelled
}

// EventType represents the type of lifecycle event.
type EventType int

const (
	// EventScheduled indicates a unit has been handed to the loop.
	EventScheduled EventType = iota
	// EventStarted indicates a unit has begun execution.
	EventStarted
	// EventSuspended indicates a unit has yielded control at a suspension point.
	EventSuspended
	// EventResumed indicates a suspended unit has been given control again.
	EventResumed
	// EventCompleted indicates a unit finished with a value.
	EventCompleted
	// EventFailed indicates a unit finished with a failure.
	EventFailed
	// EventCancelled indicates a unit finished after being cancelled.
	EventCancelled
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventScheduled:
		return "scheduled"
	case EventStarted:
		return "started"
	case EventSuspended:
		return "suspended"
	case EventResumed:
		return "resumed"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the event type marks the end of a unit's life.
func (et EventType) Terminal() bool {
	return et == EventCompleted || et == EventFailed || et == EventCancelled
}

// Reporter is the interface for sending lifecycle events.
type Reporter interface {
	// Report sends an event. Implementations must be non-blocking.
	Report(event Event)
	// Close signals that no more events will be sent and cleans up resources.
	Close()
}

// Listener receives events from a ChannelReporter.
type Listener interface {
	// OnEvent is called for every event received.
	OnEvent(event Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(event Event) {
	f(event)
}

// NullReporter is a no-op implementation of Reporter.
type NullReporter struct{}

// Report implements Reporter.Report by doing nothing.
func (nr *NullReporter) Report(_ Event) {}

// Close implements Reporter.Close by doing nothing.
func (nr *NullReporter) Close() {}

// NewNullReporter creates a new NullReporter.
func NewNullReporter() Reporter {
	return &NullReporter{}
}

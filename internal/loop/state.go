// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

// State is the completion state of a unit of work.
// It moves from StatePending to exactly one of the terminal states, once.
type State int

const (
	// StatePending is the state of a unit that has not finished.
	StatePending State = iota
	// StateDone is the state of a unit that finished with a value.
	StateDone
	// StateFailed is the state of a unit that finished with a failure.
	StateFailed
	// StateCancelled is the state of a unit that finished because it was cancelled.
	StateCancelled
)

// String implements the Stringer interface for State.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is one of the finished states.
func (s State) Terminal() bool {
	return s != StatePending
}

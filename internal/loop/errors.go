// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCancelled is returned from a suspension point after the unit has been cancelled,
	// and by Await on a unit that ended cancelled.
	ErrCancelled = errors.New("unit of work cancelled")
	// ErrTimeout is matched by every error returned by WithTimeout when the deadline wins.
	ErrTimeout = errors.New("unit of work timed out")
	// ErrAwaitSelf is returned when a unit awaits its own handle.
	ErrAwaitSelf = errors.New("unit of work cannot await itself")
	// ErrForeignHandle is returned when a handle from a different loop is awaited.
	ErrForeignHandle = errors.New("handle belongs to a different loop")
	// ErrNestedRun is returned when Run is called from inside a running unit.
	ErrNestedRun = errors.New("run cannot be called from a running loop")
	// ErrDeadlock is returned when units are parked and nothing can ever wake them.
	ErrDeadlock = errors.New("all units of work are blocked")
	// ErrPending is returned by Handle.Result before the unit has finished.
	ErrPending = errors.New("unit of work has not finished")
	// ErrAbandoned is the failure of a unit whose goroutine exited without returning,
	// for example through runtime.Goexit.
	ErrAbandoned = errors.New("unit of work exited without returning")
)

// TimeoutError is returned by WithTimeout when the deadline elapses before the work finishes.
// It matches ErrTimeout and context.DeadlineExceeded with errors.Is.
type TimeoutError struct {
	Name  string
	Limit time.Duration
}

// Error implements the error interface for TimeoutError.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: %s did not finish within %s", ErrTimeout.Error(), e.Name, e.Limit)
}

// Is reports whether target is ErrTimeout or context.DeadlineExceeded.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == context.DeadlineExceeded
}

// Timeout reports true, matching the net.Error convention.
func (e *TimeoutError) Timeout() bool {
	return true
}

// PanicError is the failure of a unit of work that panicked.
// It is constructed with the value that caused the panic.
type PanicError struct {
	Value any
}

// NewPanicError creates a new PanicError with the given value.
func NewPanicError(v any) error {
	return &PanicError{Value: v}
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	prefix := "unit of work panic:"

	switch x := e.Value.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// Unwrap returns the panic value if it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"errors"
	"slices"
	"time"
)

// ErrResultChildrenHasError is the plan failure when it failed because a task failed.
var ErrResultChildrenHasError = errors.New("result has children with errors")

// Status is the outcome class of a result.
type Status int

const (
	// StatusSuccess means the task returned a value.
	StatusSuccess Status = iota
	// StatusError means the task failed.
	StatusError
	// StatusTimeout means the task's deadline elapsed.
	StatusTimeout
	// StatusCancelled means the task was cancelled before it finished.
	StatusCancelled
	// StatusSkipped means the task never started.
	StatusSkipped
	// StatusUnknown means the task had not finished when the plan stopped.
	StatusUnknown
)

// Statuses lists every status in declaration order.
var Statuses = []Status{StatusSuccess, StatusError, StatusTimeout, StatusCancelled, StatusSkipped, StatusUnknown}

// String returns the lower case name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusTimeout:
		return "timeout"
	case StatusCancelled:
		return "cancelled"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Failed reports whether the status counts as a failure.
func (s Status) Failed() bool {
	return s == StatusError || s == StatusTimeout || s == StatusUnknown
}

// Result represents the outcome of a task or a plan.
type Result struct {
	RunID    string        // Unique identifier of a plan execution, empty for tasks
	Label    string        // Label of the task or plan
	Type     string        // Task type, or "plan"
	Status   Status        // Outcome class
	Value    any           // Value returned by a successful task
	Error    error         // Error, if any
	Duration time.Duration // Wall-clock time the task ran for
	Children Results       // Task results of a plan
}

// Results is a slice of Result pointers, used to represent multiple results.
type Results []*Result

// HasError reports whether any result, or any of their children, failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Error != nil && v.Status.Failed() {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Count returns the number of leaf results with status s.
func (r Results) Count(s Status) int {
	n := 0

	for _, v := range r {
		if len(v.Children) > 0 {
			n += v.Children.Count(s)
			continue
		}

		if v.Status == s {
			n++
		}
	}

	return n
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrYamlUnmarshal is returned when a YAML task definition cannot be decoded.
	ErrYamlUnmarshal = errors.New(
		"failed to decode YAML task definition, please check the syntax and structure of your plan",
	)
	// ErrInvalidTimeout is returned when a timeout is not a valid duration.
	ErrInvalidTimeout = errors.New("invalid timeout, use a duration such as 500ms or 30s")
	// ErrMissingField is returned when a required field is not set.
	ErrMissingField = errors.New("required field not set")
)

// BaseDefinition contains fields common to all task types.
type BaseDefinition struct {
	// Type is the type of task, e.g. "value", "fail", "service" or "venv".
	Type string `yaml:"type" json:"type" docdesc:"The type of task, e.g. value, fail, service or venv"`
	// Name is the descriptive name of the task.
	Name string `yaml:"name" json:"name" docdesc:"Descriptive name for the task"`
	// Timeout bounds the task's run time, e.g. "5s". Empty means no deadline.
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty" docdesc:"Deadline for the task, e.g. 5s"`
}

// TimeoutDuration parses Timeout. It returns zero when no timeout is set.
func (d *BaseDefinition) TimeoutDuration() (time.Duration, error) {
	return ParseDuration(d.Timeout)
}

// ParseDuration parses an optional duration string. Empty means zero.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}

	if v < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidTimeout, s)
	}

	return v, nil
}

// ErrTaskCreate is returned when a task cannot be built. It names the task.
type ErrTaskCreate struct {
	taskName string
	err      error
}

// NewErrTaskCreate creates a new ErrTaskCreate error wrapping err.
func NewErrTaskCreate(taskName string, err error) error {
	return &ErrTaskCreate{taskName: taskName, err: err}
}

// Error implements the error interface for ErrTaskCreate.
func (e *ErrTaskCreate) Error() string {
	if e.err == nil {
		return fmt.Sprintf("failed to create task %q", e.taskName)
	}

	return fmt.Sprintf("failed to create task %q: %s", e.taskName, e.err.Error())
}

// Unwrap returns the underlying error.
func (e *ErrTaskCreate) Unwrap() error {
	return e.err
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package svcstatus

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the named service does not exist.
	ErrNotFound = errors.New("service not found")
	// ErrInvalidName is returned when the service name is empty.
	ErrInvalidName = errors.New("invalid service name")
	// ErrUnsupported is returned on platforms with no service manager backend.
	ErrUnsupported = errors.New("service status queries are not supported on this platform")
	// ErrQueryFailed is returned when the service manager could not be asked.
	ErrQueryFailed = errors.New("service status query failed")
)

// State is the run state of a service, using the Windows SERVICE_* numeric values.
type State uint32

// Service states.
const (
	Stopped         State = 1
	StartPending    State = 2
	StopPending     State = 3
	Running         State = 4
	ContinuePending State = 5
	PausePending    State = 6
	Paused          State = 7
)

// String returns the lower case name of the state.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case StartPending:
		return "start_pending"
	case StopPending:
		return "stop_pending"
	case Running:
		return "running"
	case ContinuePending:
		return "continue_pending"
	case PausePending:
		return "pause_pending"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(s))
	}
}

// IsKnown reports whether s is one of the defined states.
func (s State) IsKnown() bool {
	return s >= Stopped && s <= Paused
}

// Service types and accepted controls used by the non-Windows backends.
const (
	ServiceWin32OwnProcess uint32 = 0x10

	AcceptStop          uint32 = 0x1
	AcceptPauseContinue uint32 = 0x2

	// errorServiceSpecific is ERROR_SERVICE_SPECIFIC_ERROR.
	errorServiceSpecific uint32 = 1066
)

// Status is the status record of one service.
type Status struct {
	ServiceType             uint32 `json:"service_type" yaml:"service_type"`
	CurrentState            State  `json:"current_state" yaml:"current_state"`
	ControlsAccepted        uint32 `json:"controls_accepted" yaml:"controls_accepted"`
	Win32ExitCode           uint32 `json:"win32_exit_code" yaml:"win32_exit_code"`
	ServiceSpecificExitCode uint32 `json:"service_specific_exit_code" yaml:"service_specific_exit_code"`
	CheckPoint              uint32 `json:"check_point" yaml:"check_point"`
	WaitHint                uint32 `json:"wait_hint" yaml:"wait_hint"`
}

// Fields returns the record in SERVICE_STATUS order. The second element is the run state.
func (s Status) Fields() []uint32 {
	return []uint32{
		s.ServiceType,
		uint32(s.CurrentState),
		s.ControlsAccepted,
		s.Win32ExitCode,
		s.ServiceSpecificExitCode,
		s.CheckPoint,
		s.WaitHint,
	}
}

// Querier returns the status of a named service.
type Querier interface {
	Query(ctx context.Context, name string) (Status, error)
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(ctx context.Context, name string) (Status, error)

// Query implements Querier.
func (f QuerierFunc) Query(ctx context.Context, name string) (Status, error) {
	return f(ctx, name)
}

// Default is the querier for the current platform.
var Default Querier = newDefault()

// Query asks the default querier for the status of name.
func Query(ctx context.Context, name string) (Status, error) {
	return Default.Query(ctx, name)
}

func validateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}

	return nil
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package svcstatus

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc/mgr"
)

func newDefault() Querier {
	return &SCM{}
}

var _ Querier = (*SCM)(nil)

// SCM queries the Windows service control manager.
type SCM struct{}

// Query implements Querier.
func (q *SCM) Query(ctx context.Context, name string) (Status, error) {
	if err := validateName(name); err != nil {
		return Status{}, err
	}

	if err := ctx.Err(); err != nil {
		return Status{}, err
	}

	m, err := mgr.Connect()
	if err != nil {
		return Status{}, fmt.Errorf("%w: connecting to service manager: %w", ErrQueryFailed, err)
	}

	defer m.Disconnect() //nolint:errcheck

	s, err := m.OpenService(name)
	if err != nil {
		if errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST) {
			return Status{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}

		return Status{}, fmt.Errorf("%w: opening %s: %w", ErrQueryFailed, name, err)
	}

	defer s.Close() //nolint:errcheck

	ss, err := s.Query()
	if err != nil {
		return Status{}, fmt.Errorf("%w: %s: %w", ErrQueryFailed, name, err)
	}

	st := Status{
		ServiceType:             windows.SERVICE_WIN32_OWN_PROCESS,
		CurrentState:            State(ss.State),
		ControlsAccepted:        uint32(ss.Accepts),
		Win32ExitCode:           ss.Win32ExitCode,
		ServiceSpecificExitCode: ss.ServiceSpecificExitCode,
		CheckPoint:              ss.CheckPoint,
		WaitHint:                ss.WaitHint,
	}

	if cfg, err := s.Config(); err == nil {
		st.ServiceType = cfg.ServiceType
	} else {
		ctxlog.Debug(ctx, "could not read service config", "service", name, "error", err)
	}

	return st, nil
}

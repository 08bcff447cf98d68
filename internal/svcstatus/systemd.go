// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package svcstatus

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matt-FFFFFF/coop/internal/ctxlog"
)

var _ Querier = (*Systemd)(nil)

// systemdProperties are the unit properties read by Systemd.Query.
var systemdProperties = []string{
	"LoadState",
	"ActiveState",
	"SubState",
	"FreezerState",
	"Type",
	"ExecMainStatus",
}

// CommandRunner runs a command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// RunCommand is the CommandRunner used when Systemd.Run is nil.
var RunCommand CommandRunner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Systemd queries units through systemctl and maps them onto Status.
type Systemd struct {
	// Systemctl is the systemctl executable. Defaults to "systemctl".
	Systemctl string

	// Run runs systemctl. Defaults to RunCommand.
	Run CommandRunner
}

// Query implements Querier.
func (q *Systemd) Query(ctx context.Context, name string) (Status, error) {
	if err := validateName(name); err != nil {
		return Status{}, err
	}

	bin := q.Systemctl
	if bin == "" {
		bin = "systemctl"
	}

	run := q.Run
	if run == nil {
		run = RunCommand
	}

	args := []string{"show", "--no-pager", "--property=" + strings.Join(systemdProperties, ","), "--", name}
	ctxlog.Debug(ctx, "querying systemd unit", "unit", name, "systemctl", bin)

	out, err := run(ctx, bin, args...)
	if err != nil {
		return Status{}, fmt.Errorf("%w: %s: %w", ErrQueryFailed, name, err)
	}

	props := parseProperties(out)

	if props["LoadState"] == "not-found" || props["LoadState"] == "" {
		return Status{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return statusFromSystemd(props), nil
}

func parseProperties(out []byte) map[string]string {
	props := make(map[string]string)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		k, v, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}

		props[k] = v
	}

	return props
}

func statusFromSystemd(props map[string]string) Status {
	st := Status{
		ServiceType:  ServiceWin32OwnProcess,
		CurrentState: Stopped,
	}

	switch props["ActiveState"] {
	case "active", "reloading", "refreshing":
		st.CurrentState = Running
		st.ControlsAccepted = AcceptStop
	case "activating":
		st.CurrentState = StartPending
	case "deactivating":
		st.CurrentState = StopPending
	case "failed":
		st.CurrentState = Stopped
		st.Win32ExitCode = errorServiceSpecific

		if code, err := strconv.ParseUint(props["ExecMainStatus"], 10, 32); err == nil {
			st.ServiceSpecificExitCode = uint32(code)
		}
	}

	switch props["FreezerState"] {
	case "frozen":
		st.CurrentState = Paused
		st.ControlsAccepted = AcceptStop | AcceptPauseContinue
	case "freezing":
		st.CurrentState = PausePending
	case "thawing":
		st.CurrentState = ContinuePending
	default:
		if st.CurrentState == Running {
			st.ControlsAccepted |= AcceptPauseContinue
		}
	}

	return st
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/coop/internal/ctxlog"
)

// ForcedExitCode is the process exit code used when a second signal forces termination.
const ForcedExitCode = 130

// ErrSignalReceived matches the cancellation cause recorded when a signal cancels the context.
var ErrSignalReceived = errors.New("interrupted by signal")

// Exit is called on the second signal. It is a variable so tests can replace it.
var Exit = os.Exit

// Watch monitors the signal channel until it is closed.
// The first signal cancels the context with a *SignalError cause so running
// work can wind down; the second signal calls Exit with ForcedExitCode.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelCauseFunc) {
	logger := ctxlog.Logger(ctx)
	received := 0

	for sig := range sigCh {
		received++

		if received == 1 {
			logger.Warn("watchdog", "detail", "received signal, cancelling running work; signal again to force exit", "signal", sig.String())
			cancel(&SignalError{Signal: sig})

			continue
		}

		logger.Error("watchdog", "detail", "received second signal, forcefully terminating", "signal", sig.String())
		Exit(ForcedExitCode)

		return
	}
}

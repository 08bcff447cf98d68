// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker turns OS termination signals into cancellation of the running plan.
//
// Notify returns a context that the first signal cancels with a *SignalError cause. The loop
// package delivers that cancellation to every running unit of work so their cleanup runs.
// A second signal forces the process to exit.
package signalbroker

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/matt-FFFFFF/coop/internal/ctxlog"
)

// termSignals are relayed when Listen is given no signals.
var termSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// SignalError is the cancellation cause recorded when a signal cancels the plan.
// It matches ErrSignalReceived with errors.Is.
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return ErrSignalReceived.Error() + " " + e.Signal.String()
}

// Is reports whether target is ErrSignalReceived.
func (e *SignalError) Is(target error) bool {
	return target == ErrSignalReceived
}

// Received returns the signal that cancelled ctx, if a signal did.
func Received(ctx context.Context) (os.Signal, bool) {
	var se *SignalError
	if errors.As(context.Cause(ctx), &se) {
		return se.Signal, true
	}

	return nil, false
}

// Broker relays a set of OS signals to a channel until it is closed.
type Broker struct {
	ch   chan os.Signal
	sigs []os.Signal
	once sync.Once
}

// Listen starts relaying sigs, or the termination signals if none are given.
func Listen(ctx context.Context, sigs ...os.Signal) *Broker {
	if len(sigs) == 0 {
		sigs = termSignals
	}

	b := &Broker{
		ch:   make(chan os.Signal, 1),
		sigs: sigs,
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "relaying signals", "signals", sigs)
	signal.Notify(b.ch, sigs...)

	return b
}

// C returns the channel signals are delivered on. It is closed by Close.
func (b *Broker) C() <-chan os.Signal {
	return b.ch
}

// Signals returns the signals being relayed.
func (b *Broker) Signals() []os.Signal {
	return b.sigs
}

// Close stops relaying and closes the channel, which ends a running Watch.
// It is safe to call more than once.
func (b *Broker) Close() {
	b.once.Do(func() {
		signal.Stop(b.ch)
		close(b.ch)
	})
}

// Notify returns a copy of ctx that is cancelled by the first termination signal.
// Calling stop closes the broker, waits for the watchdog to return and then cancels
// the context with context.Canceled if no signal got there first.
func Notify(ctx context.Context, sigs ...os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	b := Listen(ctx, sigs...)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, b.C(), cancel)
	}()

	return ctx, func() {
		b.Close()
		wg.Wait()
		cancel(context.Canceled)
	}
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestWatch_FirstSignalCancels(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	exited := false
	stubs := gostub.Stub(&Exit, func(int) { exited = true })
	defer stubs.Reset()

	sigCh := make(chan os.Signal, 1)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel)
	}()

	sigCh <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should be cancelled after first signal")
	}

	close(sigCh)
	wg.Wait()
	assert.False(t, exited, "first signal must not force exit")
	assert.ErrorIs(t, context.Cause(ctx), ErrSignalReceived)
}

func TestWatch_SecondSignalExits(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	code := -1
	stubs := gostub.Stub(&Exit, func(c int) { code = c })
	defer stubs.Reset()

	sigCh := make(chan os.Signal, 2)
	sigCh <- os.Interrupt
	sigCh <- syscall.SIGTERM

	Watch(ctx, sigCh, cancel)

	assert.Equal(t, ForcedExitCode, code)
	assert.Error(t, ctx.Err())
}

func TestWatch_ClosedChannelReturns(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	sigCh := make(chan os.Signal)
	close(sigCh)

	Watch(ctx, sigCh, cancel)
	assert.NoError(t, ctx.Err())
}

func TestBroker_Close(t *testing.T) {
	b := Listen(context.Background(), os.Interrupt)
	assert.Equal(t, []os.Signal{os.Interrupt}, b.Signals())

	b.Close()
	b.Close()

	_, ok := <-b.C()
	assert.False(t, ok)
}

func TestBroker_DefaultSignals(t *testing.T) {
	b := Listen(context.Background())
	defer b.Close()

	assert.Equal(t, termSignals, b.Signals())
}

func TestReceived(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())

	_, ok := Received(ctx)
	assert.False(t, ok)

	cancel(&SignalError{Signal: syscall.SIGTERM})

	sig, ok := Received(ctx)
	assert.True(t, ok)
	assert.Equal(t, syscall.SIGTERM, sig)
	assert.ErrorIs(t, context.Cause(ctx), ErrSignalReceived)
	assert.EqualError(t, context.Cause(ctx), "interrupted by signal "+syscall.SIGTERM.String())
}

func TestReceived_OtherCause(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(context.Canceled)

	_, ok := Received(ctx)
	assert.False(t, ok)
}

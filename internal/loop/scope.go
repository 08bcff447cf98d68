// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"context"
	"log/slog"
	"time"
)

// Scope is a running unit of work's view of its loop.
// A Scope is only valid inside the function it was passed to.
type Scope struct {
	t *task
}

// Name returns the unit's name.
func (s *Scope) Name() string {
	return s.t.name
}

// ID returns the unit's identifier, unique within the loop.
func (s *Scope) ID() uint64 {
	return s.t.id
}

// Context returns a context that is cancelled when the unit is cancelled or finishes.
// Pass it to blocking calls made through Offload.
func (s *Scope) Context() context.Context {
	return s.t.ctx
}

// Logger returns the loop's logger annotated with the unit's name.
func (s *Scope) Logger() *slog.Logger {
	return s.t.l.logger.With("task", s.t.name)
}

// Cancelled reports whether cancellation of this unit has been requested.
func (s *Scope) Cancelled() bool {
	return s.t.cancelRequested
}

// Sleep suspends the unit for at least d. Other units run in the meantime.
// It returns ErrCancelled if the unit is cancelled before or during the sleep.
func (s *Scope) Sleep(d time.Duration) error {
	if d <= 0 {
		return s.Yield()
	}

	t := s.t
	if t.consumeCancel() {
		return ErrCancelled
	}

	gen := t.beginPark()
	t.l.addTimer(time.Now().Add(d), t, gen)
	t.park()

	if t.consumeCancel() {
		return ErrCancelled
	}

	return nil
}

// Yield lets every other ready unit run once before this unit continues.
func (s *Scope) Yield() error {
	t := s.t
	if t.consumeCancel() {
		return ErrCancelled
	}

	gen := t.beginPark()
	t.l.wake(t, gen)
	t.park()

	if t.consumeCancel() {
		return ErrCancelled
	}

	return nil
}

// waitFor parks the unit until target has finished.
func (s *Scope) waitFor(target *task) error {
	t := s.t

	if err := t.checkTarget(target); err != nil {
		return err
	}

	if target.done() {
		return nil
	}

	if t.consumeCancel() {
		return ErrCancelled
	}

	for !target.done() {
		gen := t.beginPark()
		target.addWaiter(t, gen)
		t.park()

		if t.consumeCancel() {
			return ErrCancelled
		}
	}

	return nil
}

// drain parks the unit until target has finished, regardless of cancellation.
// It reports whether a cancellation of this unit arrived while waiting.
func (s *Scope) drain(target *task) bool {
	t := s.t
	cancelled := false

	for !target.done() {
		gen := t.beginPark()
		target.addWaiter(t, gen)
		t.park()

		if t.consumeCancel() {
			cancelled = true
		}
	}

	return cancelled
}

func (t *task) checkTarget(target *task) error {
	if target.l != t.l {
		return ErrForeignHandle
	}

	if target == t {
		return ErrAwaitSelf
	}

	return nil
}

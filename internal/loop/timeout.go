// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"time"
)

// WithTimeout runs fn as a new unit and waits at most d for it.
//
// If fn finishes first, its value or failure is returned unchanged. If the deadline
// passes first, the unit is cancelled, WithTimeout waits for it to wind down and then
// returns a *TimeoutError. The unit's own result is discarded in that case.
//
// If the caller is cancelled while waiting, the unit is cancelled too and, once it has
// wound down, ErrCancelled is returned.
func WithTimeout[T any](s *Scope, d time.Duration, fn Func[T], opts ...SpawnOption) (T, error) {
	var zero T

	h := Spawn(s, fn, opts...)
	t := s.t
	child := h.t

	if t.consumeCancel() {
		child.requestCancel()
		s.drain(child)

		return zero, ErrCancelled
	}

	gen := t.beginPark()
	child.addWaiter(t, gen)
	t.l.addTimer(time.Now().Add(d), t, gen)
	t.park()

	if child.done() {
		return h.outcome()
	}

	if t.consumeCancel() {
		child.requestCancel()
		s.drain(child)

		return zero, ErrCancelled
	}

	t.l.logger.Debug("deadline elapsed, cancelling unit", "task", child.name, "timeout", d)
	child.requestCancel()
	cancelled := s.drain(child)
	child.retrieved = true

	if cancelled {
		return zero, ErrCancelled
	}

	return zero, &TimeoutError{Name: child.name, Limit: d}
}

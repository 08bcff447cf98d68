// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"context"
)

// Offload runs a blocking call on its own goroutine while the calling unit is suspended,
// so other units keep running. fn receives the unit's context, which is cancelled if the
// unit is cancelled.
//
// If the unit is cancelled before fn returns, Offload returns ErrCancelled straight away;
// fn's eventual result is discarded, and Run does not return until fn has returned.
func Offload[T any](s *Scope, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	t := s.t
	l := t.l

	if t.consumeCancel() {
		return zero, ErrCancelled
	}

	var (
		value    T
		err      error
		finished bool
	)

	gen := t.beginPark()
	l.offloads++
	ctx := t.ctx

	go func() {
		v, e := callBlocking(ctx, fn)

		l.external <- func() {
			value, err, finished = v, e, true
			l.offloads--
			l.wake(t, gen)
		}
	}()

	t.park()

	if !finished {
		t.consumeCancel()
		return zero, ErrCancelled
	}

	return value, err
}

func callBlocking[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r)
		}
	}()

	return fn(ctx)
}

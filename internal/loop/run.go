// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/coop/internal/progress"
)

// Option configures a call to Run.
type Option func(*runConfig)

type runConfig struct {
	reporter progress.Reporter
	mainName string
}

// WithReporter sends lifecycle events for every unit to r.
func WithReporter(r progress.Reporter) Option {
	return func(c *runConfig) {
		c.reporter = r
	}
}

// WithMainName sets the display name of the top-level unit. The default is "main".
func WithMainName(name string) Option {
	return func(c *runConfig) {
		c.mainName = name
	}
}

// Run creates a loop, runs fn as its top-level unit and drives the loop until fn has
// finished. Units still running at that point are cancelled and run until they wind down,
// so no unit outlives the call. Run returns fn's value or failure.
//
// Cancelling ctx cancels the top-level unit. Run must not be called from inside a unit.
func Run[T any](ctx context.Context, fn Func[T], opts ...Option) (T, error) {
	var zero T

	if _, nested := ctx.Value(loopKey{}).(*loop); nested {
		return zero, ErrNestedRun
	}

	if err := ctx.Err(); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	cfg := runConfig{mainName: "main"}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := newLoop(ctx, cfg.reporter)
	h := spawn(l, fn, WithName(cfg.mainName))
	l.main = h.t

	if err := l.drive(); err != nil {
		return zero, err
	}

	l.reportUnretrieved()

	v, err := h.outcome()

	switch {
	case err == nil:
		return v, nil
	case l.mainBlocked:
		return zero, fmt.Errorf("%w: %w", ErrDeadlock, err)
	case errors.Is(err, ErrCancelled) && ctx.Err() != nil:
		return zero, fmt.Errorf("%w: %w", err, context.Cause(ctx))
	default:
		return zero, err
	}
}

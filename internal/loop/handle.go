// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

// Func is a unit of work. It runs on the loop and may suspend through s.
type Func[T any] func(s *Scope) (T, error)

// Handle refers to a scheduled unit of work. It observes the unit but does not own it.
type Handle[T any] struct {
	t     *task
	value T
}

// SpawnOption configures a unit passed to Spawn.
type SpawnOption func(*spawnConfig)

type spawnConfig struct {
	name string
}

// WithName sets the unit's display name, used in logs and progress events.
func WithName(name string) SpawnOption {
	return func(c *spawnConfig) {
		c.name = name
	}
}

// Spawn schedules fn as a new unit of work on the caller's loop and returns immediately.
// The unit starts the next time the caller suspends and runs whether or not the
// handle is ever awaited.
func Spawn[T any](s *Scope, fn Func[T], opts ...SpawnOption) *Handle[T] {
	return spawn(s.t.l, fn, opts...)
}

func spawn[T any](l *loop, fn Func[T], opts ...SpawnOption) *Handle[T] {
	cfg := spawnConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Handle[T]{}
	h.t = l.newTask(cfg.name, func(s *Scope) error {
		if fn == nil {
			return nil
		}

		v, err := fn(s)
		h.value = v

		return err
	})

	return h
}

// ID returns the unit's identifier, unique within its loop.
func (h *Handle[T]) ID() uint64 {
	return h.t.id
}

// Name returns the unit's display name.
func (h *Handle[T]) Name() string {
	return h.t.name
}

// State returns the unit's completion state.
func (h *Handle[T]) State() State {
	return h.t.state
}

// Done reports whether the unit has reached a terminal state.
func (h *Handle[T]) Done() bool {
	return h.t.done()
}

// Cancel requests cancellation of the unit. It has no effect once the unit has finished.
func (h *Handle[T]) Cancel() {
	h.t.requestCancel()
}

// Result returns the unit's outcome without suspending.
// It returns ErrPending if the unit has not finished.
func (h *Handle[T]) Result() (T, error) {
	if !h.t.done() {
		var zero T
		return zero, ErrPending
	}

	return h.outcome()
}

// Err returns the unit's failure, or nil if it succeeded or has not finished.
func (h *Handle[T]) Err() error {
	if !h.t.done() {
		return nil
	}

	h.t.retrieved = true

	return h.t.err
}

func (h *Handle[T]) outcome() (T, error) {
	h.t.retrieved = true

	if h.t.err != nil {
		var zero T
		return zero, h.t.err
	}

	return h.value, nil
}

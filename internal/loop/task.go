// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"context"
	"errors"
	"time"

	"github.com/matt-FFFFFF/coop/internal/progress"
)

// waiter is a unit parked until another unit finishes.
type waiter struct {
	t   *task
	gen uint64
}

// task is the loop's record of one unit of work.
//
// Every field is owned by whoever holds the baton: the unit's own goroutine while it runs,
// the loop goroutine otherwise. Handing the baton over a channel orders all accesses.
type task struct {
	l      *loop
	id     uint64
	name   string
	resume chan struct{}

	state   State
	err     error
	doneSeq uint64
	waiters []waiter

	// parked is true while the unit is suspended and not yet queued to run.
	// gen identifies the current suspension; wake-ups carrying an older gen are ignored.
	parked bool
	gen    uint64

	cancelRequested bool
	cancelPending   bool
	ctx             context.Context
	cancelCtx       context.CancelFunc

	retrieved bool
}

func (t *task) done() bool {
	return t.state.Terminal()
}

// main is the body of the unit's goroutine. It waits for the baton, runs body,
// records the outcome and hands the baton back for the last time.
func (t *task) main(body func(*Scope) error) {
	<-t.resume

	err := ErrAbandoned

	defer func() {
		t.finish(err)
		t.l.yield <- struct{}{}
	}()

	if t.consumeCancel() {
		err = ErrCancelled
		return
	}

	t.report(progress.EventStarted, nil)
	t.l.logger.Debug("unit started", "task", t.name, "id", t.id)

	err = t.call(body)
}

func (t *task) call(body func(*Scope) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			t.l.logger.Error("unit of work panicked", "task", t.name, "panic", r)
			err = NewPanicError(r)
		}
	}()

	return body(&Scope{t: t})
}

// finish moves the unit to its terminal state and wakes its waiters.
func (t *task) finish(err error) {
	if t.done() {
		panic("loop: unit of work finished twice")
	}

	l := t.l

	switch {
	case err == nil:
		t.state = StateDone
	case t.cancelRequested && errors.Is(err, ErrCancelled):
		t.state = StateCancelled
	default:
		t.state = StateFailed
		l.failed = append(l.failed, t)
	}

	t.err = err
	l.doneSeq++
	t.doneSeq = l.doneSeq
	t.cancelCtx()
	delete(l.tasks, t.id)

	for _, w := range t.waiters {
		l.wake(w.t, w.gen)
	}

	t.waiters = nil

	switch t.state {
	case StateDone:
		t.report(progress.EventCompleted, nil)
	case StateCancelled:
		t.report(progress.EventCancelled, err)
	default:
		t.report(progress.EventFailed, err)
	}

	l.logger.Debug("unit finished", "task", t.name, "id", t.id, "state", t.state.String(), "error", err)
}

// beginPark starts a new suspension and returns its generation.
// The caller registers wake-ups with the generation and then calls park.
func (t *task) beginPark() uint64 {
	t.gen++
	t.parked = true

	return t.gen
}

// park hands the baton back to the loop and blocks until the unit is resumed.
func (t *task) park() {
	t.report(progress.EventSuspended, nil)
	t.l.yield <- struct{}{}
	<-t.resume
	t.report(progress.EventResumed, nil)
}

// consumeCancel reports whether a cancellation is waiting to be delivered, and clears it.
func (t *task) consumeCancel() bool {
	if !t.cancelPending {
		return false
	}

	t.cancelPending = false

	return true
}

// requestCancel asks the unit to stop at its current or next suspension point.
func (t *task) requestCancel() {
	if t.done() {
		return
	}

	t.cancelRequested = true
	t.cancelPending = true
	t.cancelCtx()

	if t.parked {
		t.l.wake(t, t.gen)
	}
}

func (t *task) addWaiter(w *task, gen uint64) {
	t.waiters = append(t.waiters, waiter{t: w, gen: gen})
}

func (t *task) report(et progress.EventType, err error) {
	if t.l.reporter == nil {
		return
	}

	t.l.reporter.Report(progress.Event{
		TaskID:    t.id,
		TaskName:  t.name,
		Type:      et,
		Timestamp: time.Now(),
		Err:       err,
	})
}

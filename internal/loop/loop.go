// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"github.com/matt-FFFFFF/coop/internal/progress"
)

type loopKey struct{}

// loop is the run loop behind one call to Run.
type loop struct {
	ctx      context.Context
	logger   *slog.Logger
	reporter progress.Reporter

	// yield receives the baton back from the running unit.
	yield chan struct{}

	// external receives completions of offloaded calls, run on the loop goroutine.
	external chan func()
	offloads int

	ready    []*task
	timers   timerHeap
	timerSeq uint64
	tasks    map[uint64]*task
	nextID   uint64
	doneSeq  uint64
	failed   []*task

	main         *task
	shuttingDown bool
	deadlocked   bool
	mainBlocked  bool
}

func newLoop(ctx context.Context, reporter progress.Reporter) *loop {
	l := &loop{
		logger:   ctxlog.Logger(ctx).With("component", "loop"),
		reporter: reporter,
		yield:    make(chan struct{}),
		external: make(chan func()),
		tasks:    make(map[uint64]*task),
	}
	l.ctx = context.WithValue(ctx, loopKey{}, l)

	return l
}

// newTask registers a unit and queues it to run.
func (l *loop) newTask(name string, body func(*Scope) error) *task {
	l.nextID++
	t := &task{
		l:      l,
		id:     l.nextID,
		name:   name,
		resume: make(chan struct{}),
	}

	if t.name == "" {
		t.name = fmt.Sprintf("task-%d", t.id)
	}

	t.ctx, t.cancelCtx = context.WithCancel(l.ctx)
	l.tasks[t.id] = t
	l.ready = append(l.ready, t)

	go t.main(body)

	t.report(progress.EventScheduled, nil)
	l.logger.Debug("unit scheduled", "task", t.name, "id", t.id)

	return t
}

// wake queues t to run if it is still parked in suspension gen.
func (l *loop) wake(t *task, gen uint64) {
	if !t.parked || t.gen != gen {
		return
	}

	t.parked = false
	l.ready = append(l.ready, t)
}

// step gives the baton to t and waits for it to come back.
func (l *loop) step(t *task) {
	t.resume <- struct{}{}
	<-l.yield
}

func (l *loop) runReady() {
	for len(l.ready) > 0 {
		t := l.ready[0]
		l.ready[0] = nil
		l.ready = l.ready[1:]
		l.step(t)
	}
}

func (l *loop) cancelAll() {
	for _, t := range l.tasks {
		t.requestCancel()
	}
}

// drive runs the loop until the top-level unit and every unit it left behind have finished.
func (l *loop) drive() error {
	ctxDone := l.ctx.Done()

	for {
		l.runReady()

		if l.main.done() && !l.shuttingDown {
			l.shuttingDown = true

			if len(l.tasks) > 0 {
				l.logger.Debug("top-level unit finished, cancelling remaining units", "remaining", len(l.tasks))
				l.cancelAll()
			}

			continue
		}

		if l.shuttingDown && len(l.tasks) == 0 && l.offloads == 0 {
			return nil
		}

		if l.fireTimers(time.Now()) {
			continue
		}

		deadline, hasTimer := l.nextDeadline()

		if !hasTimer && l.offloads == 0 {
			if l.deadlocked {
				return fmt.Errorf("%w: %d unit(s) still parked after cancellation", ErrDeadlock, len(l.tasks))
			}

			l.logger.Debug("no unit can make progress, cancelling parked units", "parked", len(l.tasks))
			l.deadlocked = true
			l.mainBlocked = !l.main.done()
			l.cancelAll()

			continue
		}

		var (
			timerC <-chan time.Time
			tm     *time.Timer
		)

		if hasTimer {
			tm = time.NewTimer(time.Until(deadline))
			timerC = tm.C
		}

		select {
		case <-timerC:
		case fn := <-l.external:
			fn()
		case <-ctxDone:
			ctxDone = nil

			l.logger.Debug("context done, cancelling top-level unit", "error", l.ctx.Err())
			l.main.requestCancel()
		}

		if tm != nil {
			tm.Stop()
		}
	}
}

// reportUnretrieved logs failures that no unit ever observed.
func (l *loop) reportUnretrieved() {
	for _, t := range l.failed {
		if t.retrieved || t == l.main {
			continue
		}

		l.logger.Debug("task failure never retrieved", "task", t.name, "id", t.id, "error", t.err)
	}
}

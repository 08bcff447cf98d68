// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
)

// taskRun tracks one task of an executing plan.
type taskRun struct {
	task   *taskregistry.Task
	handle *loop.Handle[any]
	start  time.Time
	end    time.Time
}

// Execute runs the plan on a new loop and returns its result tree.
// The returned result is never nil; its Children hold one result per task, in plan order.
func Execute(ctx context.Context, p *Plan, opts ...loop.Option) *Result {
	runID := uuid.NewString()
	logger := ctxlog.Logger(ctx).With("plan", p.Name, "mode", string(p.Mode), "run_id", runID)
	logger.Debug("executing plan", "tasks", len(p.Tasks), "timeout", p.Timeout)

	runs := make([]*taskRun, len(p.Tasks))
	for i, t := range p.Tasks {
		runs[i] = &taskRun{task: t}
	}

	body := func(s *loop.Scope) (struct{}, error) {
		return struct{}{}, p.run(s, runs)
	}

	start := time.Now()

	_, err := loop.Run(ctx, func(s *loop.Scope) (struct{}, error) {
		if p.Timeout > 0 {
			return loop.WithTimeout(s, p.Timeout, body, loop.WithName(p.Name+" (tasks)"))
		}

		return body(s)
	}, append([]loop.Option{loop.WithMainName(p.Name)}, opts...)...)

	root := &Result{
		RunID:    runID,
		Label:    p.Name,
		Type:     "plan",
		Duration: time.Since(start),
		Children: make(Results, len(runs)),
	}

	for i, r := range runs {
		root.Children[i] = r.result()
	}

	root.Status = statusOf(err)

	switch {
	case err == nil:
	case root.Children.HasError() && root.Status == StatusError:
		root.Error = fmt.Errorf("%w: %w", ErrResultChildrenHasError, err)
	default:
		root.Error = err
	}

	logger.Debug("plan finished", "status", root.Status.String(), "duration", root.Duration, "error", err)

	return root
}

// run schedules the tasks according to the plan mode and waits for them.
func (p *Plan) run(s *loop.Scope, runs []*taskRun) error {
	switch p.Mode {
	case ModeSequential:
		for _, r := range runs {
			if _, err := loop.Await(s, r.spawn(s)); err != nil {
				return err
			}
		}

		return nil
	case ModeSettled:
		outs, err := loop.GatherSettled(s, spawnAll(s, runs)...)
		if err != nil {
			return err
		}

		return outs.Err()
	default:
		_, err := loop.Gather(s, spawnAll(s, runs)...)
		return err
	}
}

func spawnAll(s *loop.Scope, runs []*taskRun) []*loop.Handle[any] {
	hs := make([]*loop.Handle[any], len(runs))
	for i, r := range runs {
		hs[i] = r.spawn(s)
	}

	return hs
}

// spawn schedules the task, bounded by its own timeout if it has one.
func (r *taskRun) spawn(s *loop.Scope) *loop.Handle[any] {
	t := r.task

	r.handle = loop.Spawn(s, func(s *loop.Scope) (any, error) {
		r.start = time.Now()
		defer func() { r.end = time.Now() }()

		if t.Timeout > 0 {
			return loop.WithTimeout(s, t.Timeout, t.Func, loop.WithName(t.Name+" (deadline)"))
		}

		return t.Func(s)
	}, loop.WithName(t.Name))

	return r.handle
}

// result reads the task's outcome. It must only be called once the loop has returned.
func (r *taskRun) result() *Result {
	res := &Result{Label: r.task.Name, Type: r.task.Type}

	if r.handle == nil {
		res.Status = StatusSkipped
		return res
	}

	if !r.start.IsZero() {
		res.Duration = r.end.Sub(r.start)
	}

	v, err := r.handle.Result()
	res.Value = v
	res.Error = err

	switch r.handle.State() {
	case loop.StateDone:
		res.Status = StatusSuccess
	case loop.StateCancelled:
		res.Status = StatusCancelled
	case loop.StatePending:
		res.Status = StatusUnknown
	default:
		res.Status = statusOf(err)
	}

	return res
}

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, loop.ErrTimeout):
		return StatusTimeout
	case errors.Is(err, loop.ErrCancelled):
		return StatusCancelled
	default:
		return StatusError
	}
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/coop/internal/plan"
	"github.com/matt-FFFFFF/coop/internal/progress"
)

// eventBuffer is the number of loop events buffered between the loop and the program.
const eventBuffer = 1024

// RunFunc executes a plan, reporting its events to reporter.
type RunFunc func(ctx context.Context, reporter progress.Reporter) *plan.Result

// Runner manages the TUI application and progress event integration.
type Runner struct {
	model   *Model
	program *tea.Program
	mutex   sync.Mutex
}

// NewRunner creates a new TUI runner titled after the plan.
func NewRunner(title string, opts ...tea.ProgramOption) *Runner {
	model := NewModel(title)

	return &Runner{
		model:   model,
		program: tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...),
	}
}

// Run starts the TUI and executes run with a reporter that feeds it.
// Quitting the TUI before the plan finishes cancels the plan.
func (r *Runner) Run(ctx context.Context, run RunFunc) (*plan.Result, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The loop must never block on the terminal, so events go through a dropping buffer.
	events := progress.NewChannelReporter(eventBuffer)
	events.Listen(progress.ListenerFunc(func(e progress.Event) {
		r.program.Send(ProgressEventMsg{Event: e})
	}))

	resultChan := make(chan *plan.Result, 1)

	go func() {
		res := run(ctx, events)
		events.Close()
		resultChan <- res
	}()

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	select {
	case res := <-resultChan:
		// Leave the final state on screen until the user quits.
		r.program.Send(PlanCompletedMsg{Result: res})

		return res, <-tuiDone

	case err := <-tuiDone:
		cancel()

		return <-resultChan, err

	case <-ctx.Done():
		r.program.Quit()

		res := <-resultChan
		err := <-tuiDone

		return res, err
	}
}

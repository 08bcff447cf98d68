// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/progress"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks/failtask"
	"github.com/matt-FFFFFF/coop/internal/tasks/valuetask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errBoom = errors.New("boom")

func valueTask(name string, v any, delay time.Duration) *taskregistry.Task {
	return &taskregistry.Task{Type: "value", Name: name, Func: valuetask.New(v, delay)}
}

func failTask(name string, delay time.Duration) *taskregistry.Task {
	return &taskregistry.Task{Type: "fail", Name: name, Func: failtask.New(errBoom, delay)}
}

func TestExecute_Gather(t *testing.T) {
	p := &Plan{
		Name: "gather",
		Mode: ModeGather,
		Tasks: []*taskregistry.Task{
			valueTask("A", "A", 100*time.Millisecond),
			valueTask("B", "B", 200*time.Millisecond),
			valueTask("C", "C", 300*time.Millisecond),
		},
	}

	start := time.Now()
	res := Execute(context.Background(), p)
	elapsed := time.Since(start)

	require.NoError(t, res.Error)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Less(t, elapsed, 550*time.Millisecond)
	require.Len(t, res.Children, 3)

	_, err := uuid.Parse(res.RunID)
	require.NoError(t, err)

	for i, want := range []string{"A", "B", "C"} {
		assert.Equal(t, want, res.Children[i].Value)
		assert.Equal(t, StatusSuccess, res.Children[i].Status)
		assert.Positive(t, res.Children[i].Duration)
		assert.Empty(t, res.Children[i].RunID)
	}

	assert.False(t, res.Children.HasError())
	assert.Equal(t, 3, Results{res}.Count(StatusSuccess))
}

func TestExecute_GatherFailureCancelsRemaining(t *testing.T) {
	p := &Plan{
		Name: "gather",
		Mode: ModeGather,
		Tasks: []*taskregistry.Task{
			failTask("boom", 10*time.Millisecond),
			valueTask("slow", "slow", 5*time.Second),
		},
	}

	res := Execute(context.Background(), p)

	require.ErrorIs(t, res.Error, errBoom)
	require.ErrorIs(t, res.Error, ErrResultChildrenHasError)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, StatusError, res.Children[0].Status)
	assert.Equal(t, StatusCancelled, res.Children[1].Status)
	assert.True(t, Results{res}.HasError())
}

func TestExecute_Sequential(t *testing.T) {
	p := &Plan{
		Name: "seq",
		Mode: ModeSequential,
		Tasks: []*taskregistry.Task{
			valueTask("first", 1, 10*time.Millisecond),
			failTask("second", 0),
			valueTask("third", 3, 0),
		},
	}

	res := Execute(context.Background(), p)

	require.ErrorIs(t, res.Error, errBoom)
	assert.Equal(t, StatusSuccess, res.Children[0].Status)
	assert.Equal(t, StatusError, res.Children[1].Status)
	assert.Equal(t, StatusSkipped, res.Children[2].Status)
	assert.NoError(t, res.Children[2].Error)
}

func TestExecute_Settled(t *testing.T) {
	p := &Plan{
		Name: "settled",
		Mode: ModeSettled,
		Tasks: []*taskregistry.Task{
			failTask("boom", 10*time.Millisecond),
			valueTask("slow", "slow", 100*time.Millisecond),
		},
	}

	res := Execute(context.Background(), p)

	require.ErrorIs(t, res.Error, errBoom)
	assert.Equal(t, StatusError, res.Children[0].Status)
	assert.Equal(t, StatusSuccess, res.Children[1].Status)
	assert.Equal(t, "slow", res.Children[1].Value)
}

func TestExecute_TaskTimeout(t *testing.T) {
	slow := valueTask("slow", "late", 5*time.Second)
	slow.Timeout = 50 * time.Millisecond

	p := &Plan{
		Name:  "timeouts",
		Mode:  ModeSettled,
		Tasks: []*taskregistry.Task{slow, valueTask("fast", "ok", 0)},
	}

	res := Execute(context.Background(), p)

	require.ErrorIs(t, res.Error, loop.ErrTimeout)
	assert.Equal(t, StatusTimeout, res.Children[0].Status)

	var te *loop.TimeoutError
	require.ErrorAs(t, res.Children[0].Error, &te)
	assert.Equal(t, 50*time.Millisecond, te.Limit)
	assert.Equal(t, StatusSuccess, res.Children[1].Status)
}

func TestExecute_PlanTimeout(t *testing.T) {
	p := &Plan{
		Name:    "bounded",
		Mode:    ModeGather,
		Timeout: 50 * time.Millisecond,
		Tasks:   []*taskregistry.Task{valueTask("slow", "late", 5*time.Second)},
	}

	start := time.Now()
	res := Execute(context.Background(), p)

	assert.Less(t, time.Since(start), 2*time.Second)
	require.ErrorIs(t, res.Error, loop.ErrTimeout)
	assert.Equal(t, StatusTimeout, res.Status)
	assert.Equal(t, StatusCancelled, res.Children[0].Status)
}

func TestExecute_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.AfterFunc(50*time.Millisecond, cancel)

	p := &Plan{
		Name:  "cancel",
		Tasks: []*taskregistry.Task{valueTask("slow", "late", 5*time.Second)},
	}

	res := Execute(ctx, p)

	require.ErrorIs(t, res.Error, loop.ErrCancelled)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Equal(t, StatusCancelled, res.Children[0].Status)
	assert.False(t, Results{res}.HasError())
}

func TestExecute_ReportsEvents(t *testing.T) {
	rec := &progress.Recorder{}
	p := &Plan{
		Name:  "events",
		Tasks: []*taskregistry.Task{valueTask("A", "A", 10*time.Millisecond)},
	}

	res := Execute(context.Background(), p, loop.WithReporter(rec))
	require.NoError(t, res.Error)

	types := rec.Types("A")
	require.NotEmpty(t, types)
	assert.Equal(t, progress.EventScheduled, types[0])
	assert.Equal(t, progress.EventCompleted, types[len(types)-1])
	assert.Contains(t, rec.Types("events"), progress.EventCompleted)
}

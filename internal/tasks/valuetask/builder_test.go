// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package valuetask

import (
	"context"
	"testing"
	"time"

	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBuild(t *testing.T) {
	defer goleak.VerifyNone(t)

	fn, err := (&Builder{}).Build(context.Background(), []byte("type: value\nname: A\nvalue: Hello\ndelay: 20ms\n"))
	require.NoError(t, err)

	start := time.Now()
	v, err := loop.Run(context.Background(), fn)
	require.NoError(t, err)
	assert.Equal(t, "Hello", v)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestBuild_InvalidDelay(t *testing.T) {
	_, err := (&Builder{}).Build(context.Background(), []byte("type: value\nname: A\ndelay: forever\n"))
	assert.ErrorIs(t, err, tasks.ErrInvalidTimeout)
}

func TestBuild_InvalidYAML(t *testing.T) {
	_, err := (&Builder{}).Build(context.Background(), []byte("delay: [1, 2"))
	assert.ErrorIs(t, err, tasks.ErrYamlUnmarshal)
}

func TestRegister(t *testing.T) {
	r, err := taskregistry.New(Register)
	require.NoError(t, err)
	assert.Contains(t, r.Types(), "value")
}

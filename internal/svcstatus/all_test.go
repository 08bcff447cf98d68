// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package svcstatus

import (
	"context"
	"testing"

	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestQueryAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := NewStatic(map[string]Status{
		"wuauserv": {CurrentState: Running},
		"spooler":  {CurrentState: Stopped},
	})

	outs, err := loop.Run(context.Background(), func(s *loop.Scope) (loop.Outcomes[Status], error) {
		return QueryAll(s, q, "wuauserv", "missing", "spooler")
	})
	require.NoError(t, err)
	require.Len(t, outs, 3)

	assert.Equal(t, "wuauserv", outs[0].Name)
	assert.Equal(t, Running, outs[0].Value.CurrentState)
	assert.ErrorIs(t, outs[1].Err, ErrNotFound)
	assert.Equal(t, Stopped, outs[2].Value.CurrentState)
	assert.Equal(t, 1, outs.Failed())
}

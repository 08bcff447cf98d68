// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package schema

import (
	"bytes"
	"testing"

	"github.com/matt-FFFFFF/coop/internal/alltasks"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTasks(t *testing.T) {
	reg, err := alltasks.New()
	require.NoError(t, err)

	all, err := selectTasks(reg, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	one, err := selectTasks(reg, "venv")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "venv", one[0].Type)

	_, err = selectTasks(reg, "nope")
	require.ErrorIs(t, err, taskregistry.ErrUnknownTaskType)
}

func TestWrite(t *testing.T) {
	reg, err := alltasks.New()
	require.NoError(t, err)

	tasks, err := selectTasks(reg, "")
	require.NoError(t, err)

	var list bytes.Buffer
	require.NoError(t, write(&list, formatList, tasks))
	assert.Contains(t, list.String(), "value")

	var ex bytes.Buffer
	require.NoError(t, write(&ex, formatYAML, tasks))
	assert.Contains(t, ex.String(), "tasks:")
	assert.Contains(t, ex.String(), "path: ./test_env")
}

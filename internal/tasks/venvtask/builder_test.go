// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venvtask

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/tasks"
	"github.com/matt-FFFFFF/coop/internal/venv"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const interpreter = "/usr/bin/python3"

func memFS(t *testing.T) (afero.Fs, string) {
	t.Helper()

	mem := afero.NewMemMapFs()
	work, err := filepath.Abs("/tmp/work")
	require.NoError(t, err)
	require.NoError(t, mem.MkdirAll(work, 0o755))
	require.NoError(t, mem.MkdirAll(filepath.Dir(interpreter), 0o755))
	require.NoError(t, afero.WriteFile(mem, interpreter, []byte("#!python"), 0o755))

	stubs := gostub.Stub(&venv.FS, mem)
	t.Cleanup(stubs.Reset)

	return mem, work
}

func payload(path string, extra string) []byte {
	return []byte("type: venv\nname: env\npath: " + path + "\ninterpreter: " + interpreter + "\nversion: 3.12.4\n" + extra)
}

func TestBuild_Create(t *testing.T) {
	defer goleak.VerifyNone(t)

	mem, work := memFS(t)
	path := filepath.Join(work, "test_env")

	fn, err := (&Builder{}).Build(context.Background(), payload(path, ""))
	require.NoError(t, err)

	v, err := loop.Run(context.Background(), fn)
	require.NoError(t, err)

	env, ok := v.(*venv.Environment)
	require.True(t, ok)
	assert.Equal(t, path, env.Path)

	exists, err := afero.Exists(mem, filepath.Join(path, venv.ConfigFileName))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBuild_CreateAndRemove(t *testing.T) {
	defer goleak.VerifyNone(t)

	mem, work := memFS(t)
	path := filepath.Join(work, "test_env")

	fn, err := (&Builder{}).Build(context.Background(), payload(path, "remove: true\n"))
	require.NoError(t, err)

	_, err = loop.Run(context.Background(), fn)
	require.NoError(t, err)

	exists, err := afero.Exists(mem, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBuild_InvalidPath(t *testing.T) {
	defer goleak.VerifyNone(t)

	memFS(t)

	fn, err := (&Builder{}).Build(context.Background(), payload("invalid<>path", ""))
	require.NoError(t, err)

	_, err = loop.Run(context.Background(), fn)
	assert.ErrorIs(t, err, venv.ErrInvalidPath)
}

func TestBuild_MissingPath(t *testing.T) {
	_, err := (&Builder{}).Build(context.Background(), []byte("type: venv\nname: env\n"))
	assert.ErrorIs(t, err, tasks.ErrMissingField)
}

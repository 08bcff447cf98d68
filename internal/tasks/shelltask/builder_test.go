// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shelltask

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == goosWindows {
		t.Skip("uses a POSIX shell")
	}
}

func stubShell(t *testing.T) {
	t.Helper()

	stubs := gostub.StubFunc(&Shell, binSh)
	t.Cleanup(stubs.Reset)
}

func TestBuild(t *testing.T) {
	skipOnWindows(t)
	stubShell(t)

	fn, err := (&Builder{}).Build(context.Background(), []byte(`type: shell
name: hello
command_line: echo "$GREETING"
env:
  GREETING: hello
`))
	require.NoError(t, err)

	v, err := loop.Run(context.Background(), fn)
	require.NoError(t, err)

	out, ok := v.(*Output)
	require.True(t, ok)
	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, "hello\n", out.Output)
	assert.False(t, out.Truncated)
}

func TestBuild_MissingCommandLine(t *testing.T) {
	_, err := (&Builder{}).Build(context.Background(), []byte("type: shell\nname: empty\n"))
	assert.ErrorIs(t, err, ErrCommandNotFound)
}

func TestBuild_InvalidYAML(t *testing.T) {
	_, err := (&Builder{}).Build(context.Background(), []byte("command_line: [1, 2"))
	assert.ErrorIs(t, err, tasks.ErrYamlUnmarshal)
}

func TestRun_ExitCodes(t *testing.T) {
	skipOnWindows(t)
	stubShell(t)

	cases := []struct {
		name    string
		success []int
		wantErr bool
	}{
		{name: "default", wantErr: true},
		{name: "listed", success: []int{0, 3}},
		{name: "not listed", success: []int{1, 2}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewShell("echo failing >&2; exit 3")
			require.NoError(t, err)
			c.SuccessExitCodes = tc.success

			v, err := loop.Run(context.Background(), c.Func())
			if tc.wantErr {
				require.ErrorIs(t, err, ErrExitCode)
				assert.Contains(t, err.Error(), "3: failing")

				return
			}

			require.NoError(t, err)

			out, ok := v.(*Output)
			require.True(t, ok)
			assert.Equal(t, 3, out.ExitCode)
			assert.Equal(t, "failing\n", out.Output)
		})
	}
}

func TestRun_WorkingDirectory(t *testing.T) {
	skipOnWindows(t)
	stubShell(t)

	dir := t.TempDir()

	c, err := NewShell("pwd")
	require.NoError(t, err)
	c.Cwd = dir

	v, err := loop.Run(context.Background(), c.Func())
	require.NoError(t, err)
	assert.Contains(t, v.(*Output).Output, dir)
}

func TestRun_StartFailure(t *testing.T) {
	c := Command{Path: "/nonexistent/coop-shell"}

	_, err := loop.Run(context.Background(), c.Func())
	assert.ErrorIs(t, err, ErrCouldNotStartProcess)
}

func TestRun_Timeout(t *testing.T) {
	skipOnWindows(t)
	stubShell(t)

	c, err := NewShell("sleep 10")
	require.NoError(t, err)

	start := time.Now()
	_, err = loop.Run(context.Background(), func(s *loop.Scope) (any, error) {
		return loop.WithTimeout(s, 50*time.Millisecond, c.Func())
	})

	var te *loop.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRegister(t *testing.T) {
	r, err := taskregistry.New(Register)
	require.NoError(t, err)
	assert.Contains(t, r.Types(), "shell")
}

func TestNewShell_Switch(t *testing.T) {
	c, err := NewShell("echo hi")
	require.NoError(t, err)
	require.Len(t, c.Args, 2)
	assert.Equal(t, "echo hi", c.Args[1])

	want := commandSwitchUnix
	if runtime.GOOS == goosWindows {
		want = commandSwitchWindows
	}

	assert.Equal(t, want, c.Args[0])
}

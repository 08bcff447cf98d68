// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"testing"
	"time"

	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks/failtask"
	"github.com/matt-FFFFFF/coop/internal/tasks/valuetask"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) taskregistry.Registry {
	t.Helper()

	reg, err := taskregistry.New(valuetask.Register, failtask.Register)
	require.NoError(t, err)

	return reg
}

func TestBuildFromYAML(t *testing.T) {
	data := []byte(`name: demo
description: two tasks
mode: sequential
timeout: 5s
tasks:
  - type: value
    name: A
    value: a
    timeout: 1s
  - type: fail
`)

	p, err := BuildFromYAML(context.Background(), testRegistry(t), data)
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, "two tasks", p.Description)
	assert.Equal(t, ModeSequential, p.Mode)
	assert.Equal(t, 5*time.Second, p.Timeout)
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, "A", p.Tasks[0].Name)
	assert.Equal(t, time.Second, p.Tasks[0].Timeout)
	assert.Equal(t, "fail-1", p.Tasks[1].Name)
}

func TestBuildFromYAML_Defaults(t *testing.T) {
	p, err := BuildFromYAML(context.Background(), testRegistry(t), []byte("tasks:\n  - type: value\n    name: x\n"))
	require.NoError(t, err)
	assert.Equal(t, "plan", p.Name)
	assert.Equal(t, ModeGather, p.Mode)
	assert.Zero(t, p.Timeout)
}

func TestBuildFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "no tasks", data: "name: x\n", want: ErrNoTasks},
		{name: "bad yaml", data: "name: [\n", want: ErrInvalidYaml},
		{name: "bad mode", data: "mode: race\ntasks:\n  - type: value\n", want: ErrInvalidMode},
		{name: "unknown type", data: "tasks:\n  - type: nope\n", want: taskregistry.ErrUnknownTaskType},
		{name: "bad task timeout", data: "tasks:\n  - type: value\n    timeout: soon\n", want: ErrBuildTasks},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildFromYAML(context.Background(), testRegistry(t), []byte(tc.data))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuildFromHCL(t *testing.T) {
	stub := gostub.Stub(&Environ, func() []string {
		return []string{"GREETING=hello", "1BAD=x", "novalue"}
	})
	defer stub.Reset()

	data := []byte(`
name = "demo"
mode = "settled"

task "value" {
  name  = "A"
  value = upper(env.GREETING)
  delay = "10ms"
}

task "fail" {
  name    = "B"
  message = format("%s failed", "B")
}
`)

	reg := testRegistry(t)

	p, err := Build(context.Background(), reg, "plan.hcl", data)
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, ModeSettled, p.Mode)
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, "value", p.Tasks[0].Type)
	assert.Equal(t, "fail", p.Tasks[1].Type)

	res := Execute(context.Background(), p)
	require.Len(t, res.Children, 2)
	assert.Equal(t, "HELLO", res.Children[0].Value)
	require.Error(t, res.Children[1].Error)
	assert.Equal(t, "B failed", res.Children[1].Error.Error())
}

func TestBuildFromHCL_Invalid(t *testing.T) {
	_, err := BuildFromHCL(context.Background(), testRegistry(t), "plan.hcl", []byte(`task "value" {`))
	require.ErrorIs(t, err, ErrInvalidHcl)

	_, err = BuildFromHCL(context.Background(), testRegistry(t), "plan.hcl", []byte(`
task "value" {
  value = env.MISSING_VARIABLE_FOR_TEST
}
`))
	require.ErrorIs(t, err, ErrInvalidHcl)
}

func TestBuildFromTOML(t *testing.T) {
	data := []byte(`name = "demo-toml"
mode = "settled"
timeout = "2s"

[[tasks]]
type = "value"
name = "A"
value = "a"
delay = "10ms"

[[tasks]]
type = "fail"
message = "boom"

[tasks.labels]
owner = "coop"
`)

	p, err := BuildFromTOML(context.Background(), testRegistry(t), data)
	require.NoError(t, err)
	assert.Equal(t, "demo-toml", p.Name)
	assert.Equal(t, ModeSettled, p.Mode)
	assert.Equal(t, 2*time.Second, p.Timeout)
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, "A", p.Tasks[0].Name)
	assert.Equal(t, "fail-1", p.Tasks[1].Name)
}

func TestBuildFromTOML_Invalid(t *testing.T) {
	_, err := BuildFromTOML(context.Background(), testRegistry(t), []byte(`name = `))
	require.ErrorIs(t, err, ErrInvalidToml)

	_, err = BuildFromTOML(context.Background(), testRegistry(t), []byte("nmae = \"typo\"\n[[tasks]]\ntype = \"value\"\n"))
	require.ErrorIs(t, err, ErrInvalidToml)
	assert.Contains(t, err.Error(), "nmae")
}

func TestBuild_ByExtension(t *testing.T) {
	reg := testRegistry(t)

	p, err := Build(context.Background(), reg, "plan.TOML", []byte("[[tasks]]\ntype = \"value\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "value-0", p.Tasks[0].Name)

	p, err = Build(context.Background(), reg, "plan.hcl", []byte(`task "value" {}`))
	require.NoError(t, err)
	assert.Equal(t, "value-0", p.Tasks[0].Name)

	p, err = Build(context.Background(), reg, "plan", []byte("tasks:\n  - type: value\n"))
	require.NoError(t, err)
	assert.Equal(t, "value-0", p.Tasks[0].Name)
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	stub := gostub.Stub(&FS, fs)
	defer stub.Reset()

	require.NoError(t, afero.WriteFile(fs, "/plans/demo.yaml", []byte("tasks:\n  - type: value\n    name: x\n"), 0o644))

	p, err := LoadFile(context.Background(), testRegistry(t), "/plans/demo.yaml")
	require.NoError(t, err)
	require.Len(t, p.Tasks, 1)

	_, err = LoadFile(context.Background(), testRegistry(t), "/plans/missing.yaml")
	require.ErrorIs(t, err, ErrReadPlan)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Sequential")
	require.NoError(t, err)
	assert.Equal(t, ModeSequential, m)

	_, err = ParseMode("race")
	require.ErrorIs(t, err, ErrInvalidMode)
}

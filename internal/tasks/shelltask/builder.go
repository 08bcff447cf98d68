// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shelltask

import (
	"context"
	"errors"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks"
)

const taskType = "shell"

var _ tasks.Builder = (*Builder)(nil)

// Builder implements the tasks.Builder interface for shell tasks.
type Builder struct{}

// Register adds the shell task type to r.
func Register(r taskregistry.Registry) error {
	return r.Register(taskType, &Builder{})
}

// Build implements tasks.Builder.
func (b *Builder) Build(_ context.Context, payload []byte) (loop.Func[any], error) {
	def := new(Definition)
	if err := yaml.Unmarshal(payload, def); err != nil {
		return nil, errors.Join(tasks.ErrYamlUnmarshal, err)
	}

	c, err := NewShell(def.CommandLine)
	if err != nil {
		return nil, err
	}

	c.Cwd = def.WorkingDirectory
	c.Env = def.Env
	c.SuccessExitCodes = def.SuccessExitCodes

	return c.Func(), nil
}

// Description implements schema.Provider.
func (b *Builder) Description() string {
	return "Runs a command line with the platform shell"
}

// Example implements schema.Provider.
func (b *Builder) Example() any {
	return &Definition{
		BaseDefinition: tasks.BaseDefinition{Type: taskType, Name: "hello", Timeout: "10s"},
		CommandLine:    "echo hello",
	}
}

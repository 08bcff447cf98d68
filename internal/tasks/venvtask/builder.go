// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venvtask

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks"
	"github.com/matt-FFFFFF/coop/internal/venv"
)

const taskType = "venv"

var _ tasks.Builder = (*Builder)(nil)

// Builder implements the tasks.Builder interface for venv tasks.
type Builder struct{}

// Register adds the venv task type to r.
func Register(r taskregistry.Registry) error {
	return r.Register(taskType, &Builder{})
}

// Build implements tasks.Builder.
func (b *Builder) Build(_ context.Context, payload []byte) (loop.Func[any], error) {
	def := new(Definition)
	if err := yaml.Unmarshal(payload, def); err != nil {
		return nil, errors.Join(tasks.ErrYamlUnmarshal, err)
	}

	if def.Path == "" {
		return nil, fmt.Errorf("%w: path", tasks.ErrMissingField)
	}

	opts := venv.Options{
		WithPackageManager: def.WithPip,
		SystemSitePackages: def.SystemSitePackages,
		Clear:              def.Clear,
		Symlinks:           def.Symlinks,
		Prompt:             def.Prompt,
		Interpreter:        def.Interpreter,
		Version:            def.Version,
	}

	return New(def.Path, opts, def.Remove), nil
}

// New returns a unit of work that creates the environment at path off the loop.
// If remove is set the environment is deleted again before the unit returns.
func New(path string, opts venv.Options, remove bool) loop.Func[any] {
	return func(s *loop.Scope) (any, error) {
		env, err := loop.Offload(s, func(ctx context.Context) (*venv.Environment, error) {
			return venv.Create(ctx, path, opts)
		})
		if err != nil {
			return nil, err
		}

		s.Logger().Debug("environment created", "path", env.Path, "python", env.Python)

		if !remove {
			return env, nil
		}

		if _, err := loop.Offload(s, func(_ context.Context) (struct{}, error) {
			return struct{}{}, venv.Remove(env.Path)
		}); err != nil {
			return env, err
		}

		return env, nil
	}
}

// Description implements schema.Provider.
func (b *Builder) Description() string {
	return "Creates a Python virtual environment, optionally bootstrapping pip"
}

// Example implements schema.Provider.
func (b *Builder) Example() any {
	return &Definition{
		BaseDefinition: tasks.BaseDefinition{Type: taskType, Name: "env", Timeout: "30s"},
		Path:           "./test_env",
	}
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package taskregistry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/tasks"
)

var (
	// ErrUnknownTaskType is returned when a task type is not registered.
	ErrUnknownTaskType = errors.New("unknown task type")
	// ErrTaskCreation is returned when a task cannot be created.
	ErrTaskCreation = errors.New("failed to create task")
	// ErrTaskUnmarshal is returned when a task cannot be unmarshaled.
	ErrTaskUnmarshal = errors.New("failed to unmarshal task definition")
	// ErrDuplicateType is returned when a task type is registered twice.
	ErrDuplicateType = errors.New("task type already registered")
)

// RegistrationFunc adds one or more task types to a registry.
type RegistrationFunc func(Registry) error

// Registry holds the mapping between task types and their builders.
type Registry map[string]tasks.Builder

// FactoryContextKey is the context key under which the CLI stores its Registry.
type FactoryContextKey struct{}

// New creates a registry and applies each registration function to it.
func New(fns ...RegistrationFunc) (Registry, error) {
	r := make(Registry)

	for _, fn := range fns {
		if err := fn(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds a builder for taskType.
func (r Registry) Register(taskType string, b tasks.Builder) error {
	if _, exists := r[taskType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, taskType)
	}

	r[taskType] = b

	return nil
}

// Types returns the registered task types, sorted.
func (r Registry) Types() []string {
	types := make([]string, 0, len(r))
	for t := range r {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// Task is a built task, ready to be scheduled.
type Task struct {
	Type    string
	Name    string
	Timeout time.Duration
	Func    loop.Func[any]
}

// Build creates a task from its YAML definition using the registered builders.
func (r Registry) Build(ctx context.Context, yamlData []byte) (*Task, error) {
	var base tasks.BaseDefinition
	if err := yaml.Unmarshal(yamlData, &base); err != nil {
		return nil, errors.Join(ErrTaskUnmarshal, err)
	}

	b, exists := r[base.Type]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, base.Type)
	}

	timeout, err := base.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTaskCreation, base.Type, tasks.NewErrTaskCreate(base.Name, err))
	}

	fn, err := b.Build(ctx, yamlData)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTaskCreation, base.Type, tasks.NewErrTaskCreate(base.Name, err))
	}

	return &Task{
		Type:    base.Type,
		Name:    base.Name,
		Timeout: timeout,
		Func:    fn,
	}, nil
}

// FromContext returns the registry stored in ctx by the CLI.
func FromContext(ctx context.Context) (Registry, bool) {
	r, ok := ctx.Value(FactoryContextKey{}).(Registry)
	return r, ok
}

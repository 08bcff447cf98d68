// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package valuetask

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks"
)

const taskType = "value"

var _ tasks.Builder = (*Builder)(nil)

// Builder implements the tasks.Builder interface for value tasks.
type Builder struct{}

// Register adds the value task type to r.
func Register(r taskregistry.Registry) error {
	return r.Register(taskType, &Builder{})
}

// Build implements tasks.Builder.
func (b *Builder) Build(_ context.Context, payload []byte) (loop.Func[any], error) {
	def := new(Definition)
	if err := yaml.Unmarshal(payload, def); err != nil {
		return nil, errors.Join(tasks.ErrYamlUnmarshal, err)
	}

	delay, err := tasks.ParseDuration(def.Delay)
	if err != nil {
		return nil, err
	}

	return New(def.Value, delay), nil
}

// New returns a unit of work that sleeps for delay and then returns v.
func New(v any, delay time.Duration) loop.Func[any] {
	return func(s *loop.Scope) (any, error) {
		if err := s.Sleep(delay); err != nil {
			return nil, err
		}

		return v, nil
	}
}

// Description implements schema.Provider.
func (b *Builder) Description() string {
	return "Sleeps for a delay, then returns a value"
}

// Example implements schema.Provider.
func (b *Builder) Example() any {
	return &Definition{
		BaseDefinition: tasks.BaseDefinition{Type: taskType, Name: "A"},
		Value:          "A",
		Delay:          "100ms",
	}
}

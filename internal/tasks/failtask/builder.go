// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package failtask

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks"
)

const taskType = "fail"

// defaultMessage is used when the definition has no message.
const defaultMessage = "Intentional Error"

var _ tasks.Builder = (*Builder)(nil)

// Builder implements the tasks.Builder interface for fail tasks.
type Builder struct{}

// Register adds the fail task type to r.
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

	msg := def.Message
	if msg == "" {
		msg = defaultMessage
	}

	if def.Panic {
		return NewPanic(msg, delay), nil
	}

	return New(errors.New(msg), delay), nil
}

// New returns a unit of work that sleeps for delay and then fails with err.
func New(err error, delay time.Duration) loop.Func[any] {
	return func(s *loop.Scope) (any, error) {
		if serr := s.Sleep(delay); serr != nil {
			return nil, serr
		}

		return nil, err
	}
}

// NewPanic returns a unit of work that sleeps for delay and then panics with msg.
func NewPanic(msg string, delay time.Duration) loop.Func[any] {
	return func(s *loop.Scope) (any, error) {
		if err := s.Sleep(delay); err != nil {
			return nil, err
		}

		panic(fmt.Sprintf("%s (task %s)", msg, s.Name()))
	}
}

// Description implements schema.Provider.
func (b *Builder) Description() string {
	return "Sleeps for a delay, then fails with an error or a panic"
}

// Example implements schema.Provider.
func (b *Builder) Example() any {
	return &Definition{
		BaseDefinition: tasks.BaseDefinition{Type: taskType, Name: "boom"},
		Message:        defaultMessage,
		Delay:          "100ms",
	}
}

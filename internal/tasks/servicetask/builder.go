// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package servicetask

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/svcstatus"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks"
)

const taskType = "service"

// ErrUnexpectedState is returned when a service is not in one of the expected states.
var ErrUnexpectedState = errors.New("service is not in an expected state")

// ErrUnknownState is returned when an expected state name is not recognised.
var ErrUnknownState = errors.New("unknown service state")

// Querier answers service status queries for this task type.
// Default is the platform service manager, but can be replaced for testing.
var Querier svcstatus.Querier = svcstatus.Default

var _ tasks.Builder = (*Builder)(nil)

// Builder implements the tasks.Builder interface for service tasks.
type Builder struct{}

// Register adds the service task type to r.
func Register(r taskregistry.Registry) error {
	return r.Register(taskType, &Builder{})
}

// Build implements tasks.Builder.
func (b *Builder) Build(_ context.Context, payload []byte) (loop.Func[any], error) {
	def := new(Definition)
	if err := yaml.Unmarshal(payload, def); err != nil {
		return nil, errors.Join(tasks.ErrYamlUnmarshal, err)
	}

	name := def.Service
	if name == "" {
		name = def.Name
	}

	if name == "" {
		return nil, fmt.Errorf("%w: service", tasks.ErrMissingField)
	}

	expect, err := parseStates(def.Expect)
	if err != nil {
		return nil, err
	}

	return New(Querier, name, expect...), nil
}

// New returns a unit of work that queries service name through q. The query runs
// off the loop. If expect is not empty the service must be in one of those states.
func New(q svcstatus.Querier, name string, expect ...svcstatus.State) loop.Func[any] {
	return func(s *loop.Scope) (any, error) {
		st, err := loop.Offload(s, func(ctx context.Context) (svcstatus.Status, error) {
			return q.Query(ctx, name)
		})
		if err != nil {
			return nil, err
		}

		s.Logger().Debug("service status", "service", name, "state", st.CurrentState.String())

		if len(expect) > 0 && !slices.Contains(expect, st.CurrentState) {
			return st, fmt.Errorf("%w: %s is %s", ErrUnexpectedState, name, st.CurrentState)
		}

		return st, nil
	}
}

func parseStates(names []string) ([]svcstatus.State, error) {
	states := make([]svcstatus.State, 0, len(names))

	for _, n := range names {
		found := false

		for st := svcstatus.Stopped; st <= svcstatus.Paused; st++ {
			if strings.EqualFold(n, st.String()) {
				states = append(states, st)
				found = true

				break
			}
		}

		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownState, n)
		}
	}

	return states, nil
}

// Description implements schema.Provider.
func (b *Builder) Description() string {
	return "Queries the status of a system service, optionally requiring one of a set of states"
}

// Example implements schema.Provider.
func (b *Builder) Example() any {
	return &Definition{
		BaseDefinition: tasks.BaseDefinition{Type: taskType, Name: "ssh", Timeout: "5s"},
		Service:        "sshd",
		Expect:         []string{"running"},
	}
}

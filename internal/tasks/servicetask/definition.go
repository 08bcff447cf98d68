// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package servicetask

import "github.com/matt-FFFFFF/coop/internal/tasks"

// Definition is the YAML definition for the service task.
type Definition struct {
	tasks.BaseDefinition `yaml:",inline"`
	// Service is the name of the service to query. Defaults to the task name.
	Service string `yaml:"service,omitempty" docdesc:"Service to query, defaults to the task name"`
	// Expect lists acceptable states, e.g. [running, stopped]. Empty accepts any state.
	Expect []string `yaml:"expect,omitempty" docdesc:"Acceptable states, e.g. running; empty accepts any state"`
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package valuetask

import "github.com/matt-FFFFFF/coop/internal/tasks"

// Definition is the YAML definition for the value task.
type Definition struct {
	tasks.BaseDefinition `yaml:",inline"`
	// Value is returned when the delay has elapsed.
	Value any `yaml:"value" docdesc:"Value returned once the delay has elapsed"`
	// Delay is how long to sleep before returning, e.g. "100ms".
	Delay string `yaml:"delay,omitempty" docdesc:"How long to sleep first, e.g. 100ms"`
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package failtask

import "github.com/matt-FFFFFF/coop/internal/tasks"

// Definition is the YAML definition for the fail task.
type Definition struct {
	tasks.BaseDefinition `yaml:",inline"`
	// Message is the text of the returned error.
	Message string `yaml:"message" docdesc:"Text of the returned error, defaults to Intentional Error"`
	// Delay is how long to sleep before failing, e.g. "100ms".
	Delay string `yaml:"delay,omitempty" docdesc:"How long to sleep before failing, e.g. 100ms"`
	// Panic makes the task panic with Message instead of returning an error.
	Panic bool `yaml:"panic,omitempty" docdesc:"Panic with the message instead of returning an error"`
}

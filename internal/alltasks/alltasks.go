// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package alltasks wires every built-in task type into a registry.
package alltasks

import (
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks/failtask"
	"github.com/matt-FFFFFF/coop/internal/tasks/servicetask"
	"github.com/matt-FFFFFF/coop/internal/tasks/shelltask"
	"github.com/matt-FFFFFF/coop/internal/tasks/valuetask"
	"github.com/matt-FFFFFF/coop/internal/tasks/venvtask"
)

// Registrations lists the registration function of every built-in task type.
var Registrations = []taskregistry.RegistrationFunc{
	valuetask.Register,
	failtask.Register,
	servicetask.Register,
	venvtask.Register,
	shelltask.Register,
}

// New returns a registry holding every built-in task type.
func New() (taskregistry.Registry, error) {
	return taskregistry.New(Registrations...)
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venvtask

import "github.com/matt-FFFFFF/coop/internal/tasks"

// Definition is the YAML definition for the venv task.
type Definition struct {
	tasks.BaseDefinition `yaml:",inline"`
	// Path is where the environment is created.
	Path string `yaml:"path" docdesc:"Directory to create the environment in"`
	// WithPip bootstraps pip into the environment.
	WithPip bool `yaml:"with_pip,omitempty" docdesc:"Bootstrap pip into the environment"`
	// SystemSitePackages gives the environment access to the base site-packages.
	SystemSitePackages bool `yaml:"system_site_packages,omitempty" docdesc:"Give access to the base site-packages"`
	// Clear deletes the contents of an existing directory first.
	Clear bool `yaml:"clear,omitempty" docdesc:"Delete the contents of an existing directory first"`
	// Symlinks links the interpreter instead of copying it.
	Symlinks bool `yaml:"symlinks,omitempty" docdesc:"Link the interpreter instead of copying it"`
	// Prompt is the shell prompt prefix.
	Prompt string `yaml:"prompt,omitempty" docdesc:"Shell prompt prefix, defaults to the directory name"`
	// Interpreter is the base interpreter. Defaults to python3 or python on PATH.
	Interpreter string `yaml:"interpreter,omitempty" docdesc:"Base interpreter, defaults to python3 or python on PATH"`
	// Version is the base interpreter version. Defaults to asking the interpreter.
	Version string `yaml:"version,omitempty" docdesc:"Base interpreter version, defaults to asking the interpreter"`
	// Remove deletes the environment again once it has been created.
	Remove bool `yaml:"remove,omitempty" docdesc:"Delete the environment again once created"`
}

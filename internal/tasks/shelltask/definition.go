// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shelltask

import "github.com/matt-FFFFFF/coop/internal/tasks"

// Definition is the YAML definition for the shell task.
type Definition struct {
	tasks.BaseDefinition `yaml:",inline"`
	// The command line to run with the platform shell.
	CommandLine string `yaml:"command_line" docdesc:"The command line to run with the platform shell"`
	// Working directory of the process, defaults to the current directory.
	WorkingDirectory string `yaml:"working_directory,omitempty" docdesc:"Working directory of the process, defaults to the current directory"` //nolint:lll
	// Extra environment variables for the process.
	Env map[string]string `yaml:"env,omitempty" docdesc:"Extra environment variables for the process"`
	// Exit codes that indicate success, defaults to 0.
	SuccessExitCodes []int `yaml:"success_exit_codes,omitempty" docdesc:"Exit codes that indicate success, defaults to 0"`
}

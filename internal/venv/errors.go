// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venv

import "errors"

var (
	// ErrInvalidPath is returned when the target path contains characters that are not
	// valid in a path.
	ErrInvalidPath = errors.New("invalid environment path")
	// ErrPathNotFound is returned when the parent of the target path does not exist.
	ErrPathNotFound = errors.New("environment parent directory not found")
	// ErrExists is returned when the target is a non-empty directory and Clear is not set.
	ErrExists = errors.New("environment directory already exists and is not empty")
	// ErrNotDirectory is returned when the target or its parent is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrNotEnvironment is returned when a directory has no pyvenv.cfg.
	ErrNotEnvironment = errors.New("not a python environment")
	// ErrInterpreterNotFound is returned when no base interpreter could be located.
	ErrInterpreterNotFound = errors.New("python interpreter not found")
	// ErrBootstrap is returned when the package manager could not be installed.
	ErrBootstrap = errors.New("package manager bootstrap failed")
	// ErrConfig is returned when pyvenv.cfg cannot be parsed.
	ErrConfig = errors.New("invalid pyvenv.cfg")
)

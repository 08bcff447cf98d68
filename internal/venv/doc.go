// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package venv provisions isolated Python runtime environments.
//
// An environment is a directory holding a copy of (or a link to) a base interpreter,
// an empty site-packages directory, a pyvenv.cfg provenance file and shell activation
// scripts. Nothing else is installed unless the package manager is bootstrapped.
//
// All filesystem access goes through FS, so the layout can be produced on an in-memory
// filesystem.
package venv

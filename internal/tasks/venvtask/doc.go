// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package venvtask provides a task that provisions a Python environment.
package venvtask

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tasks provides the interface and common definition shared by every task type.
// Each task type lives in its own sub-package and registers a Builder with the task registry.
package tasks

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package taskregistry maps task type names to the builders that create them.
package taskregistry

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package servicetask provides a task that queries the status of an operating system service.
package servicetask

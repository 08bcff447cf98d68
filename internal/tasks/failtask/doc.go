// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package failtask provides a task that waits for a delay and then fails with a message.
package failtask

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package valuetask provides a task that waits for a delay and then returns a fixed value.
package valuetask

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a real-time Terminal User Interface (TUI) for watching a plan run.
// It lists every unit of work the loop schedules, with a status indicator, its elapsed
// time and, once it fails, its error.
//
// The TUI is fed by the progress events the loop emits, so it shows units suspending
// and resuming as the loop hands control between them.
package tui

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress provides lifecycle reporting for units of work run by the loop package.
// The loop emits an Event whenever a unit is scheduled, starts, suspends, resumes or reaches
// a terminal state. Reporters must not block: the loop calls Report while it holds control.
package progress

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shelltask provides the shell task type, which runs a command line with the
// platform shell. The process runs off the loop, so other tasks keep running while it
// does, and it is killed when its task is cancelled or times out.
package shelltask

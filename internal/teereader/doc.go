// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides a writer that keeps everything written to it while
// splitting the stream into lines as they complete. It lets long-running child
// processes report their progress line by line and still return their full output.
package teereader

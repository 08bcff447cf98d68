// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"strings"
	"sync"
)

// LineWriter is an io.Writer that captures all data and tracks complete lines.
// It is safe for concurrent use, so it can serve as both Stdout and Stderr of a command.
type LineWriter struct {
	full    bytes.Buffer
	partial strings.Builder
	last    string
	onLine  func(line string)
	mu      sync.Mutex
}

// NewLineWriter returns a LineWriter that calls onLine, if not nil, for each complete line.
// Lines are passed without their trailing newline or carriage return.
func NewLineWriter(onLine func(line string)) *LineWriter {
	return &LineWriter{onLine: onLine}
}

// Write implements io.Writer. It never fails.
func (lw *LineWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.full.Write(p)

	data := string(p)
	for {
		before, after, found := strings.Cut(data, "\n")
		if !found {
			lw.partial.WriteString(before)
			break
		}

		lw.partial.WriteString(before)
		line := strings.TrimSuffix(lw.partial.String(), "\r")
		lw.partial.Reset()

		lw.last = line
		if lw.onLine != nil {
			lw.onLine(line)
		}

		data = after
	}

	return len(p), nil
}

// LastLine returns the last complete line, truncated to maxLength with "..." when maxLength > 3.
func (lw *LineWriter) LastLine(maxLength int) string {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if maxLength > 3 && len(lw.last) > maxLength { //nolint:mnd
		return lw.last[:maxLength-3] + "..."
	}

	return lw.last
}

// Partial returns the data written after the last newline.
func (lw *LineWriter) Partial() string {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	return lw.partial.String()
}

// Bytes returns a copy of everything written so far.
func (lw *LineWriter) Bytes() []byte {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	return bytes.Clone(lw.full.Bytes())
}

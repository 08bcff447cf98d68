// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineWriter(t *testing.T) {
	tests := []struct {
		name         string
		writes       []string
		wantLines    []string
		wantLast     string
		wantPartial  string
		wantCaptured string
	}{
		{
			name:         "single line with newline",
			writes:       []string{"hello world\n"},
			wantLines:    []string{"hello world"},
			wantLast:     "hello world",
			wantCaptured: "hello world\n",
		},
		{
			name:         "single line without newline",
			writes:       []string{"hello world"},
			wantPartial:  "hello world",
			wantCaptured: "hello world",
		},
		{
			name:         "line split across writes",
			writes:       []string{"Collecting ", "pip\nInstall", "ing\n"},
			wantLines:    []string{"Collecting pip", "Installing"},
			wantLast:     "Installing",
			wantCaptured: "Collecting pip\nInstalling\n",
		},
		{
			name:         "crlf and empty lines",
			writes:       []string{"a\r\n\r\nb\r\nrest"},
			wantLines:    []string{"a", "", "b"},
			wantLast:     "b",
			wantPartial:  "rest",
			wantCaptured: "a\r\n\r\nb\r\nrest",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var lines []string

			lw := NewLineWriter(func(line string) { lines = append(lines, line) })

			for _, w := range tc.writes {
				n, err := lw.Write([]byte(w))
				require.NoError(t, err)
				assert.Equal(t, len(w), n)
			}

			assert.Equal(t, tc.wantLines, lines)
			assert.Equal(t, tc.wantLast, lw.LastLine(0))
			assert.Equal(t, tc.wantPartial, lw.Partial())
			assert.Equal(t, tc.wantCaptured, string(lw.Bytes()))
		})
	}
}

func TestLineWriter_LastLineTruncated(t *testing.T) {
	lw := NewLineWriter(nil)
	_, _ = lw.Write([]byte("a rather long line of output\n"))

	assert.Equal(t, "a rath...", lw.LastLine(9))
	assert.Equal(t, "a rather long line of output", lw.LastLine(100))
}

func TestLineWriter_Concurrent(t *testing.T) {
	count := 0
	lw := NewLineWriter(func(string) { count++ })

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = fmt.Fprintf(lw, "line %d\n", i)
		}()
	}

	wg.Wait()

	assert.Equal(t, 10, count)
	assert.Len(t, lw.Bytes(), len("line 0\n")*10)
}

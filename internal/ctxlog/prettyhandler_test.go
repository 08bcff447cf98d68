// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPretty(buf *bytes.Buffer, opts ...Option) *slog.Logger {
	opts = append([]Option{WithDestinationWriter(buf)}, opts...)

	return slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, opts...))
}

func TestNewPrettyHandler(t *testing.T) {
	h := NewPrettyHandler(nil)
	require.NotNil(t, h)
	assert.NotNil(t, h.inner)
	assert.NotNil(t, h.buf)
	assert.NotNil(t, h.mu)
	assert.NotNil(t, h.writer)
	assert.False(t, h.colour)
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer

	logger := newTestPretty(&buf)
	logger.Info("task completed", "task", "A", "elapsed", 100*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "task completed")
	assert.Contains(t, out, `"task": "A"`)
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.NotContains(t, out, "\033[", "colour must be off unless requested")
}

func TestPrettyHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer

	newTestPretty(&buf).Warn("bare")
	assert.NotContains(t, buf.String(), "{")

	buf.Reset()
	newTestPretty(&buf, WithOutputEmptyAttrs()).Warn("bare")
	assert.Contains(t, buf.String(), "{}")
}

func TestPrettyHandler_Colour(t *testing.T) {
	var buf bytes.Buffer

	newTestPretty(&buf, WithColour()).Error("boom")
	assert.Contains(t, buf.String(), "\033[")
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := newTestPretty(&buf).With("component", "loop").WithGroup("task")
	logger.Debug("scheduled", "id", 1)

	out := buf.String()
	assert.Contains(t, out, `"component": "loop"`)
	assert.Contains(t, out, `"task": {`)
	assert.Contains(t, out, `"id": 1`)
}

func TestPrettyHandler_ReplaceAttrDropsTime(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(&slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}, WithDestinationWriter(&buf))

	slog.New(h).Info("no time")
	assert.True(t, strings.HasPrefix(buf.String(), "INFO:"))
}

func TestPrettyHandler_Concurrent(t *testing.T) {
	var (
		mu  sync.Mutex
		buf bytes.Buffer
	)

	w := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	})

	logger := slog.New(NewPrettyHandler(nil, WithDestinationWriter(w)))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			logger.Info("concurrent", "i", i)
		}()
	}

	wg.Wait()

	assert.Equal(t, 20, strings.Count(buf.String(), "concurrent"))
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelWarn})
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

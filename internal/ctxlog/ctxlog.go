// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const coopLogLevelEnvVar = "COOP_LOG_LEVEL"

// Log formats accepted by ForFormat.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
)

var (
	// ErrUnknownLevel is returned by ParseLevel for a name that is not a slog level.
	ErrUnknownLevel = errors.New("unknown log level")
	// ErrUnknownFormat is returned by ForFormat for an unsupported log format.
	ErrUnknownFormat = errors.New("unknown log format")
)

type loggerKey struct{}

// LevelVar holds the level shared by DefaultLogger and JSONLogger.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is a pretty console logger that is used if no logger is provided.
var DefaultLogger = slog.New(NewPrettyHandler(&slog.HandlerOptions{
	Level: LevelVar,
},
	WithAutoColour(),
	WithDestinationWriter(os.Stderr),
))

// JSONLogger writes one JSON object per record to stderr.
var JSONLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
	Level: LevelVar,
}))

func init() {
	LevelVar.Set(logLevelFromEnv())
}

// New creates a new context with the given logger.
// If logger is nil, it uses the default logger.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// NewForTUI returns a context whose logger writes plain text to w, so log output
// does not corrupt a full-screen terminal UI. The caller flushes w once the UI exits.
func NewForTUI(ctx context.Context, w io.Writer) context.Context {
	return New(ctx, slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelVar,
	})))
}

// Logger returns the logger from the context, or the default logger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Info logs an info message with the given context.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Debug logs a debug message with the given context.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Warn logs a warning message with the given context.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs an error message with the given context.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

// ForFormat returns the shared logger for the named format.
func ForFormat(format string) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatPretty:
		return DefaultLogger, nil
	case FormatJSON:
		return JSONLogger, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ParseLevel converts DEBUG, INFO, WARN or ERROR (any case) into a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// logLevelFromEnv falls back to INFO when the variable is unset or invalid.
func logLevelFromEnv() slog.Level {
	lvl, _ := ParseLevel(os.Getenv(coopLogLevelEnvVar))
	return lvl
}

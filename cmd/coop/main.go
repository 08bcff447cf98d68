// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the coop command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/coop"
	"github.com/matt-FFFFFF/coop/cmd/coop/env"
	"github.com/matt-FFFFFF/coop/cmd/coop/run"
	"github.com/matt-FFFFFF/coop/cmd/coop/schema"
	"github.com/matt-FFFFFF/coop/cmd/coop/service"
	"github.com/matt-FFFFFF/coop/internal/alltasks"
	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"github.com/matt-FFFFFF/coop/internal/signalbroker"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/urfave/cli/v3"
)

const (
	logFormatFlag = "log-format"
	logLevelFlag  = "log-level"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		service.ServiceCmd,
		env.EnvCmd,
		schema.SchemaCmd,
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  logFormatFlag,
			Usage: "Log format, pretty or json",
			Value: ctxlog.FormatPretty,
		},
		&cli.StringFlag{
			Name:    logLevelFlag,
			Usage:   "Log level, one of debug, info, warn or error. Overrides COOP_LOG_LEVEL",
			Sources: cli.EnvVars("COOP_LOG_LEVEL"),
		},
	},
	Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if cmd.IsSet(logLevelFlag) {
			lvl, err := ctxlog.ParseLevel(cmd.String(logLevelFlag))
			if err != nil {
				return ctx, cli.Exit(err.Error(), 1)
			}

			ctxlog.LevelVar.Set(lvl)
		}

		logger, err := ctxlog.ForFormat(cmd.String(logFormatFlag))
		if err != nil {
			return ctx, cli.Exit(err.Error(), 1)
		}

		return ctxlog.New(ctx, logger), nil
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "coop",
	Description: `coop runs plans of cooperatively scheduled tasks on a single-threaded event loop.
Tasks suspend at sleeps, awaits and offloaded blocking calls, so many of them make
progress concurrently without sharing state across threads. Plans are written in YAML, HCL or TOML.

coop also exposes the service status and Python virtual environment tasks directly.`,
	Usage:     "coop run -f plan.yaml",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx := ctxlog.New(context.Background(), ctxlog.DefaultLogger)

	ctx, stop := signalbroker.Notify(ctx)
	defer stop()

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", coop.Version, coop.Commit)

	registry, err := alltasks.New()
	if err != nil {
		ctxlog.Logger(ctx).Error("failed to register task types", "error", err)
		stop()
		os.Exit(1)
	}

	ctx = context.WithValue(ctx, taskregistry.FactoryContextKey{}, registry)

	err = rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		logger := ctxlog.Logger(ctx)
		if sig, ok := signalbroker.Received(ctx); ok {
			logger = logger.With("signal", sig.String())
		}

		logger.Error("command terminated due to cancellation", "error", context.Cause(ctx))
		stop()
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		stop()
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Debug("command completed successfully")
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package env implements the env command, which manages Python virtual environments.
package env

import (
	"context"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/coop/internal/color"
	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/output"
	"github.com/matt-FFFFFF/coop/internal/tasks/venvtask"
	"github.com/matt-FFFFFF/coop/internal/venv"
	"github.com/urfave/cli/v3"
)

const (
	withPipFlag            = "with-pip"
	clearFlag              = "clear"
	symlinksFlag           = "symlinks"
	systemSitePackagesFlag = "system-site-packages"
	promptFlag             = "prompt"
	interpreterFlag        = "interpreter"
	pythonVersionFlag      = "python-version"
	outputFlag             = "output"
	formatText             = "text"
	formatJSON             = "json"
	formatYAML             = "yaml"
	cliExitStr             = ""
)

// EnvCmd groups the virtual environment subcommands.
var EnvCmd = &cli.Command{
	Name:  "env",
	Usage: "Create, inspect and remove Python virtual environments",
	Commands: []*cli.Command{
		createCmd,
		removeCmd,
		inspectCmd,
	},
}

var createCmd = &cli.Command{
	Name:      "create",
	Usage:     "Create one or more virtual environments",
	ArgsUsage: "<path>...",
	Description: `Lay out a virtual environment at each path: interpreter, activation scripts and pyvenv.cfg.
Environments are created concurrently; pip is bootstrapped only with --with-pip.`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  withPipFlag,
			Usage: "Bootstrap pip into the environment",
		},
		&cli.BoolFlag{
			Name:  clearFlag,
			Usage: "Delete the contents of an existing target directory first",
		},
		&cli.BoolFlag{
			Name:  symlinksFlag,
			Usage: "Symlink the interpreter instead of copying it",
		},
		&cli.BoolFlag{
			Name:  systemSitePackagesFlag,
			Usage: "Give the environment access to the system site-packages",
		},
		&cli.StringFlag{
			Name:  promptFlag,
			Usage: "Prompt prefix, defaults to the directory name",
		},
		&cli.StringFlag{
			Name:      interpreterFlag,
			Usage:     "Base interpreter, defaults to python3 or python on PATH",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  pythonVersionFlag,
			Usage: "Base interpreter version, defaults to asking the interpreter",
		},
	},
	Action: createAction,
}

var removeCmd = &cli.Command{
	Name:      "remove",
	Usage:     "Remove one or more virtual environments",
	ArgsUsage: "<path>...",
	Action:    removeAction,
}

var inspectCmd = &cli.Command{
	Name:      "inspect",
	Usage:     "Describe a virtual environment",
	ArgsUsage: "<path>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Output format: text, json or yaml",
			Value:   formatText,
		},
	},
	Action: inspectAction,
}

func optionsFromFlags(cmd *cli.Command) venv.Options {
	return venv.Options{
		WithPackageManager: cmd.Bool(withPipFlag),
		SystemSitePackages: cmd.Bool(systemSitePackagesFlag),
		Clear:              cmd.Bool(clearFlag),
		Symlinks:           cmd.Bool(symlinksFlag),
		Prompt:             cmd.String(promptFlag),
		Interpreter:        cmd.String(interpreterFlag),
		Version:            cmd.String(pythonVersionFlag),
	}
}

func createAction(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		ctxlog.Logger(ctx).Error("Please give at least one environment path.")
		return cli.Exit(cliExitStr, 1)
	}

	outs, err := createAll(ctx, paths, optionsFromFlags(cmd))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	writeOutcomes(cmd.Writer, outs)

	if outs.Failed() > 0 {
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// createAll creates every environment concurrently on one loop.
func createAll(ctx context.Context, paths []string, opts venv.Options) (loop.Outcomes[any], error) {
	return loop.Run(ctx, func(s *loop.Scope) (loop.Outcomes[any], error) {
		handles := make([]*loop.Handle[any], len(paths))
		for i, p := range paths {
			handles[i] = loop.Spawn(s, venvtask.New(p, opts, false), loop.WithName(p))
		}

		return loop.GatherSettled(s, handles...)
	}, loop.WithMainName("env create"))
}

func writeOutcomes(w io.Writer, outs loop.Outcomes[any]) {
	for _, o := range outs {
		if o.Err != nil {
			fmt.Fprintf(w, "%s %s: %s\n", color.Colorize("✗", color.FgRed), o.Name, o.Err) // nolint:errcheck
			continue
		}

		python := ""
		if e, ok := o.Value.(*venv.Environment); ok {
			python = e.Python
		}

		fmt.Fprintf(w, "%s %s %s\n", color.Colorize("✓", color.FgGreen), o.Name, color.Colorize(python, color.Faint)) // nolint:errcheck
	}
}

func removeAction(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		ctxlog.Logger(ctx).Error("Please give at least one environment path.")
		return cli.Exit(cliExitStr, 1)
	}

	failed := false

	for _, p := range paths {
		if err := venv.Remove(p); err != nil {
			ctxlog.Logger(ctx).Error("failed to remove environment", "path", p, "error", err)
			failed = true

			continue
		}

		fmt.Fprintf(cmd.Writer, "%s removed %s\n", color.Colorize("✓", color.FgGreen), p) // nolint:errcheck
	}

	if failed {
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

func inspectAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("inspect takes exactly one path", 1)
	}

	format := cmd.String(outputFlag)
	if err := output.Check(format, formatText, formatJSON, formatYAML); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	e, err := venv.Inspect(cmd.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	switch format {
	case formatJSON:
		err = output.JSON(cmd.Writer, e, color.Enabled())
	case formatYAML:
		err = output.YAML(cmd.Writer, e)
	default:
		err = writeEnvironment(cmd.Writer, e)
	}

	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}

func writeEnvironment(w io.Writer, e *venv.Environment) error {
	rows := [][2]string{
		{"path", e.Path},
		{"python", e.Python},
		{"version", e.Config.Version},
		{"home", e.Config.Home},
		{"site-packages", e.SitePackages},
		{"system site-packages", fmt.Sprint(e.Config.IncludeSystemSitePackages)},
		{"prompt", e.Config.Prompt},
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s %s\n", color.Colorize(fmt.Sprintf("%-21s", r[0]+":"), color.Bold), r[1]); err != nil {
			return err
		}
	}

	return nil
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the run command, which fetches, builds and executes plans.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/coop/internal/color"
	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/metrics"
	"github.com/matt-FFFFFF/coop/internal/output"
	"github.com/matt-FFFFFF/coop/internal/plan"
	"github.com/matt-FFFFFF/coop/internal/progress"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tui"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag                    = "file"
	metricsFileFlag             = "metrics-file"
	outFlag                     = "out"
	outputFlag                  = "output"
	showValuesFlag              = "show-values"
	tuiFlag                     = "tui"
	configTimeoutFlag           = "config-timeout"
	configTimeoutSecondsDefault = 30
	cliExitStr                  = ""
)

var (
	// ErrGetPlanFile is returned when the file cannot be fetched or read.
	ErrGetPlanFile = errors.New("failed to get plan file")
	// ErrNoRegistry is returned when the context carries no task registry.
	ErrNoRegistry = errors.New("no task registry in context")
)

// RunCmd is the command that runs the plans defined in YAML, HCL or TOML files.
var RunCmd = &cli.Command{
	Name:  "run",
	Usage: "Run one or more plans",
	Description: `Run the tasks of one or more plans on a cooperative event loop and print the results.
Plans are YAML documents, HCL when the file name ends in .hcl, or TOML for .toml.

Plan file URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.

Plans given with several --file flags run one after another.
`,
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    fileFlag,
			Aliases: []string{"f"},
			Usage: "Specify the URL of the plan file to run. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
				"Specify multiple times to run multiple files.",
		},
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Result format: " + strings.Join(plan.Formats, ", "),
			Value:   string(plan.FormatText),
		},
		&cli.StringFlag{
			Name:      outFlag,
			Usage:     "Also write the results, uncoloured, to this file",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:      metricsFileFlag,
			Usage:     "Write Prometheus metrics about the run to this file, in the node_exporter textfile format",
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:  showValuesFlag,
			Usage: "Include the values of successful tasks in text output",
		},
		&cli.BoolFlag{
			Name:    tuiFlag,
			Aliases: []string{"t", "interactive"},
			Usage:   "Run with interactive Terminal User Interface (TUI) showing real-time progress",
		},
		&cli.IntFlag{
			Name:  configTimeoutFlag,
			Usage: "Maximum time in seconds to wait for plans to be fetched and built",
			Value: configTimeoutSecondsDefault,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("running run command")

	urls := cmd.StringSlice(fileFlag)
	if len(urls) == 0 {
		logger.Error("Please specify at least one plan file URL using the --file or -f flag.")
		return cli.Exit(cliExitStr, 1)
	}

	format := cmd.String(outputFlag)
	if err := output.Check(format, plan.Formats...); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	registry, ok := taskregistry.FromContext(ctx)
	if !ok {
		return cli.Exit(ErrNoRegistry.Error(), 1)
	}

	configCtx, configCancel := context.WithTimeout(ctx, time.Duration(cmd.Int(configTimeoutFlag))*time.Second)
	defer configCancel()

	plans, err := loadPlans(configCtx, registry, urls)
	if err != nil {
		logger.Error("failed to load plans", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	results := make(plan.Results, 0, len(plans))
	collector := metrics.New()

	for _, p := range plans {
		if ctx.Err() != nil {
			break
		}

		res, err := execute(ctx, cmd, p, collector)
		if err != nil {
			logger.Error("TUI execution error", "error", err)
		}

		collector.ObservePlan(res)
		results = append(results, res)
	}

	if name := cmd.String(metricsFileFlag); name != "" {
		if err := collector.WriteTextfile(name); err != nil {
			logger.Error("failed to write metrics file", "file", name, "error", err)
			return cli.Exit(cliExitStr, 1)
		}

		logger.Debug("metrics written", "file", name)
	}

	opts := &plan.OutputOptions{
		ShowValues: cmd.Bool(showValuesFlag),
		Color:      color.Enabled(),
	}

	if err := writeResults(cmd.Writer, results, plan.Format(format), opts); err != nil {
		logger.Error("failed to write results", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	if name := cmd.String(outFlag); name != "" {
		if err := writeResultsFile(name, results, plan.Format(format), opts); err != nil {
			logger.Error("failed to write results file", "file", name, "error", err)
			return cli.Exit(cliExitStr, 1)
		}

		logger.Info("results written", "file", name)
	}

	if results.HasError() {
		logger.Error("Some tasks failed. See above for details.")
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// loadPlans fetches and builds every plan before any of them runs.
func loadPlans(ctx context.Context, registry taskregistry.Registry, urls []string) ([]*plan.Plan, error) {
	plans := make([]*plan.Plan, 0, len(urls))

	for i, u := range urls {
		if u == "" {
			return nil, fmt.Errorf("%w: the URL at index %d is empty", ErrGetPlanFile, i)
		}

		data, err := getURL(ctx, u)
		if err != nil {
			return nil, err
		}

		p, err := plan.Build(ctx, registry, planFileName(u), data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", u, err)
		}

		plans = append(plans, p)
	}

	return plans, nil
}

// execute runs one plan, through the TUI when requested. Loop events also go to reporter.
func execute(ctx context.Context, cmd *cli.Command, p *plan.Plan, reporter progress.Reporter) (*plan.Result, error) {
	if !cmd.Bool(tuiFlag) {
		return plan.Execute(ctx, p, loop.WithReporter(reporter)), nil
	}

	// Log records go to a buffer while the TUI owns the terminal.
	buf := new(bytes.Buffer)
	tuiCtx := ctxlog.NewForTUI(ctx, buf)

	defer buf.WriteTo(cmd.ErrWriter) //nolint:errcheck

	runner := tui.NewRunner(p.Name)

	return runner.Run(tuiCtx, func(ctx context.Context, view progress.Reporter) *plan.Result {
		return plan.Execute(ctx, p, loop.WithReporter(progress.Multi(view, reporter)))
	})
}

func writeResults(w io.Writer, results plan.Results, f plan.Format, opts *plan.OutputOptions) error {
	for _, res := range results {
		if err := res.Write(w, f, opts); err != nil {
			return err
		}
	}

	return nil
}

func writeResultsFile(name string, results plan.Results, f plan.Format, opts *plan.OutputOptions) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}

	defer file.Close() //nolint:errcheck

	prev := color.SetEnabled(false)
	defer color.SetEnabled(prev)

	plain := *opts
	plain.Color = false

	return writeResults(file, results, f, &plain)
}

// planFileName returns the file name part of a getter URL, without any query.
func planFileName(url string) string {
	name, _, _ := strings.Cut(url, goGetterRefSeparator)
	return filepath.Base(name)
}

// getURL retrieves the content from the specified URL using Hashicorp's go-getter.
// It removes the temporary file after reading its content.
func getURL(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrGetPlanFile
	}

	tmpDir, err := os.MkdirTemp("", "coop-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetPlanFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetPlanFile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// Remote sources are fetched as a directory and the file is read from there.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, errors.Join(ErrGetPlanFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, fmt.Errorf("%w: invalid URL format: %s", ErrGetPlanFile, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetPlanFile, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, errors.Join(ErrGetPlanFile, err)
	}

	return data, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path
)

// splitFileNameFromGetterURL splits the URL into the directory and file name.
// Any ref query is kept on the returned directory URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if path, query, ok := strings.Cut(last, goGetterRefSeparator); ok {
		ref = query
		last = path
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)
	parts[len(parts)-1] = filepath.Dir(last)

	if parts[len(parts)-1] == "." {
		parts = parts[:len(parts)-1]
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}

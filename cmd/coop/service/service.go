// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package service implements the service command, which reports the status of system services.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matt-FFFFFF/coop/internal/color"
	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/output"
	"github.com/matt-FFFFFF/coop/internal/svcstatus"
	"github.com/urfave/cli/v3"
)

const (
	timeoutFlag    = "timeout"
	outputFlag     = "output"
	formatTable    = "table"
	formatJSON     = "json"
	formatYAML     = "yaml"
	defaultTimeout = 10 * time.Second
	cliExitStr     = ""
)

// Querier answers the status queries. It can be replaced for testing.
var Querier = svcstatus.Default

// ServiceCmd groups the service subcommands.
var ServiceCmd = &cli.Command{
	Name:  "service",
	Usage: "Inspect system services",
	Commands: []*cli.Command{
		statusCmd,
	},
}

var statusCmd = &cli.Command{
	Name:      "status",
	Usage:     "Show the status of one or more services",
	ArgsUsage: "<name>...",
	Description: `Query the service manager for each named service concurrently and print one row per service.
On Windows the service control manager is asked; on Linux, systemd.`,
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  timeoutFlag,
			Usage: "Maximum time to wait for all queries",
			Value: defaultTimeout,
		},
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Output format: table, json or yaml",
			Value:   formatTable,
		},
	},
	Action: statusAction,
}

// entry is one service row.
type entry struct {
	Name   string            `json:"name" yaml:"name"`
	State  string            `json:"state,omitempty" yaml:"state,omitempty"`
	Status *svcstatus.Status `json:"status,omitempty" yaml:"status,omitempty"`
	Error  string            `json:"error,omitempty" yaml:"error,omitempty"`
}

func statusAction(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	names := cmd.Args().Slice()
	if len(names) == 0 {
		logger.Error("Please name at least one service.")
		return cli.Exit(cliExitStr, 1)
	}

	format := cmd.String(outputFlag)
	if err := output.Check(format, formatTable, formatJSON, formatYAML); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	outs, err := queryAll(ctx, Querier, cmd.Duration(timeoutFlag), names)
	if err != nil {
		logger.Error("service query failed", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	entries := toEntries(outs)

	switch format {
	case formatJSON:
		err = output.JSON(cmd.Writer, entries, color.Enabled())
	case formatYAML:
		err = output.YAML(cmd.Writer, entries)
	default:
		err = writeTable(cmd.Writer, entries)
	}

	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if outs.Failed() > 0 {
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// queryAll runs every query on one loop, bounded by timeout when it is positive.
func queryAll(ctx context.Context, q svcstatus.Querier, timeout time.Duration, names []string) (loop.Outcomes[svcstatus.Status], error) {
	query := func(s *loop.Scope) (loop.Outcomes[svcstatus.Status], error) {
		return svcstatus.QueryAll(s, q, names...)
	}

	return loop.Run(ctx, func(s *loop.Scope) (loop.Outcomes[svcstatus.Status], error) {
		if timeout > 0 {
			return loop.WithTimeout(s, timeout, query, loop.WithName("service queries"))
		}

		return query(s)
	}, loop.WithMainName("service status"))
}

func toEntries(outs loop.Outcomes[svcstatus.Status]) []entry {
	entries := make([]entry, len(outs))

	for i, o := range outs {
		entries[i] = entry{Name: o.Name}

		if o.Err != nil {
			entries[i].Error = o.Err.Error()
			continue
		}

		st := o.Value
		entries[i].State = st.CurrentState.String()
		entries[i].Status = &st
	}

	return entries
}

func writeTable(w io.Writer, entries []entry) error {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	bad := cell.Foreground(lipgloss.Color("9"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("SERVICE", "STATE", "TYPE", "ACCEPTS", "EXIT", "SPECIFIC", "ERROR")

	for _, e := range entries {
		if e.Status == nil {
			t.Row(e.Name, "-", "-", "-", "-", "-", e.Error)
			continue
		}

		t.Row(
			e.Name,
			e.State,
			fmt.Sprintf("0x%x", e.Status.ServiceType),
			fmt.Sprintf("0x%x", e.Status.ControlsAccepted),
			fmt.Sprint(e.Status.Win32ExitCode),
			fmt.Sprint(e.Status.ServiceSpecificExitCode),
			"",
		)
	}

	t.StyleFunc(func(row, _ int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return header
		case row >= 0 && row < len(entries) && entries[row].Error != "":
			return bad
		default:
			return cell
		}
	})

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema provides the schema command, which documents the plan format.
package schema

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/matt-FFFFFF/coop/internal/output"
	"github.com/matt-FFFFFF/coop/internal/schema"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/urfave/cli/v3"
)

const (
	taskTypeArg    = "task-type"
	formatFlag     = "format"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatYAML     = "yaml"
	formatList     = "list"
)

// SchemaCmd is the command that documents the plan format and its task types.
var SchemaCmd = &cli.Command{
	Name:  "schema",
	Usage: "Describe the plan format and its task types",
	Description: `Without a format, list the registered task types.
json prints a JSON Schema for plan files, markdown a field reference and yaml an example task of each type.
Name a task type to limit the output to it.`,
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: taskTypeArg,
		},
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    formatFlag,
			Aliases: []string{"f"},
			Usage:   "Output format: list, json, markdown or yaml",
			Value:   formatList,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String(formatFlag)
	if err := output.Check(format, formatList, formatJSON, formatMarkdown, formatYAML); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	reg, ok := taskregistry.FromContext(ctx)
	if !ok {
		return cli.Exit("no task registry in context", 1)
	}

	tasks, err := selectTasks(reg, cmd.StringArg(taskTypeArg))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := write(cmd.Writer, format, tasks); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}

func selectTasks(reg taskregistry.Registry, taskType string) ([]schema.TaskSchema, error) {
	tasks, err := schema.Tasks(reg)
	if err != nil {
		return nil, err
	}

	if taskType == "" {
		return tasks, nil
	}

	i := slices.IndexFunc(tasks, func(ts schema.TaskSchema) bool { return ts.Type == taskType })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s, known types are %v", taskregistry.ErrUnknownTaskType, taskType, reg.Types())
	}

	return tasks[i : i+1], nil
}

func write(w io.Writer, format string, tasks []schema.TaskSchema) error {
	switch format {
	case formatJSON:
		return schema.WriteJSONSchema(w, tasks)
	case formatMarkdown:
		return schema.WriteMarkdown(w, tasks)
	case formatYAML:
		examples := make([]any, len(tasks))
		for i, ts := range tasks {
			examples[i] = ts.Example
		}

		return output.YAML(w, map[string]any{"tasks": examples})
	default:
		for _, ts := range tasks {
			if _, err := fmt.Fprintf(w, "  %-10s - %s\n", ts.Type, ts.Description); err != nil {
				return err
			}
		}

		return nil
	}
}

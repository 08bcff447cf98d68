// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks"
	"github.com/spf13/afero"
)

var (
	// ErrInvalidYaml is returned when a YAML plan cannot be decoded.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrInvalidHcl is returned when an HCL plan cannot be decoded.
	ErrInvalidHcl = errors.New("invalid HCL")
	// ErrNoTasks is returned when a plan has no tasks.
	ErrNoTasks = errors.New("no tasks specified")
	// ErrInvalidMode is returned when the plan mode is not recognised.
	ErrInvalidMode = errors.New("invalid plan mode, use gather, sequential or settled")
	// ErrBuildTasks is returned when one or more tasks could not be built.
	ErrBuildTasks = errors.New("failed to build tasks")
	// ErrReadPlan is returned when a plan file cannot be read.
	ErrReadPlan = errors.New("failed to read plan file")
)

// FS is the filesystem plan files are read from.
// Default is the OS filesystem, but can be replaced with a mock for testing.
var FS = afero.NewOsFs()

// Mode selects how the tasks of a plan are awaited.
type Mode string

const (
	// ModeGather runs all tasks concurrently and fails as soon as one fails.
	ModeGather Mode = "gather"
	// ModeSequential runs the tasks one after another and stops at the first failure.
	ModeSequential Mode = "sequential"
	// ModeSettled runs all tasks concurrently and waits for every one of them.
	ModeSettled Mode = "settled"
)

// ParseMode parses a mode name. Empty means ModeGather.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case "":
		return ModeGather, nil
	case ModeGather, ModeSequential, ModeSettled:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Plan is a built plan, ready to Execute.
type Plan struct {
	Name        string
	Description string
	Mode        Mode
	Timeout     time.Duration
	Tasks       []*taskregistry.Task
}

// Definition represents the root structure of a YAML plan.
type Definition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Mode        string `yaml:"mode,omitempty"`
	Timeout     string `yaml:"timeout,omitempty"`
	Tasks       []any  `yaml:"tasks"`
}

// BuildFromYAML builds a plan from a YAML document.
func BuildFromYAML(ctx context.Context, reg taskregistry.Registry, yamlData []byte) (*Plan, error) {
	var def Definition
	if err := yaml.Unmarshal(yamlData, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYaml, err)
	}

	payloads := make([][]byte, len(def.Tasks))

	for i, t := range def.Tasks {
		b, err := yaml.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("%w: task %d: %w", ErrInvalidYaml, i, err)
		}

		payloads[i] = b
	}

	return build(ctx, reg, def.Name, def.Description, def.Mode, def.Timeout, payloads)
}

// Build builds a plan from a document. The file extension selects the decoder:
// .hcl for HCL, .toml for TOML and YAML for anything else.
func Build(ctx context.Context, reg taskregistry.Registry, filename string, data []byte) (*Plan, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hcl":
		return BuildFromHCL(ctx, reg, filename, data)
	case ".toml":
		return BuildFromTOML(ctx, reg, data)
	default:
		return BuildFromYAML(ctx, reg, data)
	}
}

// LoadFile reads a plan file from FS and builds it.
func LoadFile(ctx context.Context, reg taskregistry.Registry, path string) (*Plan, error) {
	data, err := afero.ReadFile(FS, path)
	if err != nil {
		return nil, errors.Join(ErrReadPlan, err)
	}

	ctxlog.Debug(ctx, "loaded plan file", "path", path, "bytes", len(data))

	return Build(ctx, reg, path, data)
}

// build creates the plan from decoded fields and per-task YAML payloads.
func build(
	ctx context.Context,
	reg taskregistry.Registry,
	name, description, mode, timeout string,
	payloads [][]byte,
) (*Plan, error) {
	if len(payloads) == 0 {
		return nil, ErrNoTasks
	}

	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	d, err := tasks.ParseDuration(timeout)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Name:        name,
		Description: description,
		Mode:        m,
		Timeout:     d,
		Tasks:       make([]*taskregistry.Task, 0, len(payloads)),
	}

	if p.Name == "" {
		p.Name = "plan"
	}

	var merr *multierror.Error

	for i, payload := range payloads {
		t, err := reg.Build(ctx, payload)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("task %d: %w", i, err))
			continue
		}

		if t.Name == "" {
			t.Name = fmt.Sprintf("%s-%d", t.Type, i)
		}

		p.Tasks = append(p.Tasks, t)
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, errors.Join(ErrBuildTasks, err)
	}

	return p, nil
}

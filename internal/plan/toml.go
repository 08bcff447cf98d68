// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
)

// ErrInvalidToml is returned when a TOML plan cannot be decoded.
var ErrInvalidToml = errors.New("invalid TOML")

// tomlPlan is the root structure of a TOML plan. Tasks are [[tasks]] tables.
type tomlPlan struct {
	Name        string           `toml:"name"`
	Description string           `toml:"description"`
	Mode        string           `toml:"mode"`
	Timeout     string           `toml:"timeout"`
	Tasks       []map[string]any `toml:"tasks"`
}

// BuildFromTOML builds a plan from a TOML document.
func BuildFromTOML(ctx context.Context, reg taskregistry.Registry, data []byte) (*Plan, error) {
	var def tomlPlan

	meta, err := toml.Decode(string(data), &def)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToml, err)
	}

	// Keys inside task tables belong to the task builders.
	var unknown []string

	for _, k := range meta.Undecoded() {
		if len(k) > 0 && k[0] == "tasks" {
			continue
		}

		unknown = append(unknown, k.String())
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidToml, strings.Join(unknown, ", "))
	}

	payloads := make([][]byte, len(def.Tasks))

	for i, t := range def.Tasks {
		b, err := yaml.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("%w: task %d: %w", ErrInvalidToml, i, err)
		}

		payloads[i] = b
	}

	return build(ctx, reg, def.Name, def.Description, def.Mode, def.Timeout, payloads)
}

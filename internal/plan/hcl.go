// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// hclPlan is the root structure of an HCL plan.
type hclPlan struct {
	Name        string     `hcl:"name,optional"`
	Description string     `hcl:"description,optional"`
	Mode        string     `hcl:"mode,optional"`
	Timeout     string     `hcl:"timeout,optional"`
	Tasks       []*hclTask `hcl:"task,block"`
}

// hclTask is one task block. Its attributes are handed to the task's builder as YAML.
type hclTask struct {
	Type   string   `hcl:"type,label"`
	Remain hcl.Body `hcl:",remain"`
}

// Environ returns the environment variables exposed to HCL plans as env.NAME.
// It can be replaced for testing.
var Environ = os.Environ

// BuildFromHCL builds a plan from an HCL document. filename is used in diagnostics and
// must end in .hcl.
func BuildFromHCL(ctx context.Context, reg taskregistry.Registry, filename string, data []byte) (*Plan, error) {
	evalCtx := newEvalContext()

	var def hclPlan
	if err := hclsimple.Decode(filename, data, evalCtx, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHcl, err)
	}

	payloads := make([][]byte, len(def.Tasks))

	for i, t := range def.Tasks {
		payload, err := t.yaml(evalCtx)
		if err != nil {
			return nil, fmt.Errorf("%w: task %d (%s): %w", ErrInvalidHcl, i, t.Type, err)
		}

		payloads[i] = payload
	}

	return build(ctx, reg, def.Name, def.Description, def.Mode, def.Timeout, payloads)
}

// yaml evaluates the block's attributes and encodes them, with the type label, as YAML.
func (t *hclTask) yaml(evalCtx *hcl.EvalContext) ([]byte, error) {
	attrs, diags := t.Remain.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}

	sort.Strings(names)

	m := yaml.MapSlice{{Key: "type", Value: t.Type}}

	for _, name := range names {
		if name == "type" {
			continue
		}

		v, diags := attrs[name].Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}

		goVal, err := ctyToGo(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}

		m = append(m, yaml.MapItem{Key: name, Value: goVal})
	}

	return yaml.Marshal(m)
}

// ctyToGo converts an evaluated HCL value to plain Go values through its JSON form.
func ctyToGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}

	b, err := ctyjson.SimpleJSONValue{Value: v}.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var out any
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func newEvalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || !hclIdentifier(k) {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"format":   stdlib.FormatFunc,
			"join":     stdlib.JoinFunc,
			"coalesce": stdlib.CoalesceFunc,
		},
	}
}

// hclIdentifier reports whether s can be used as env.NAME in an expression.
func hclIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '-'):
		default:
			return false
		}
	}

	return true
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema describes plan documents: a JSON Schema generated from the task
// definitions in a registry, and a Markdown reference of the same fields.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/coop/internal/taskregistry"
)

// ErrNotStruct is returned when a definition is not a struct.
var ErrNotStruct = errors.New("expected struct type")

// Provider is implemented by task builders that can describe their definition.
type Provider interface {
	// Description returns a one-line summary of what the task does.
	Description() string
	// Example returns a populated definition struct, used for field discovery and examples.
	Example() any
}

// Field represents one field of a task definition.
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Items       string `json:"items,omitempty"`
}

// TaskSchema describes one task type.
type TaskSchema struct {
	Type        string
	Description string
	Fields      []Field
	Example     any
}

// Tasks returns the schema of every task type in reg that implements Provider, sorted by type.
func Tasks(reg taskregistry.Registry) ([]TaskSchema, error) {
	var out []TaskSchema

	for _, typ := range reg.Types() {
		p, ok := reg[typ].(Provider)
		if !ok {
			continue
		}

		fields, err := Fields(p.Example())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", typ, err)
		}

		out = append(out, TaskSchema{
			Type:        typ,
			Description: p.Description(),
			Fields:      fields,
			Example:     p.Example(),
		})
	}

	return out, nil
}

// Fields extracts the fields of a definition struct from its yaml and docdesc tags.
// type and name come first, the rest are sorted.
func Fields(def any) ([]Field, error) {
	fields, err := extractFields(reflect.TypeOf(def))
	if err != nil {
		return nil, err
	}

	return sortFields(fields), nil
}

func extractFields(t reflect.Type) ([]Field, error) {
	if t == nil {
		return nil, ErrNotStruct
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %s", ErrNotStruct, t.Kind())
	}

	var fields []Field

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		// Inlined embedded definitions contribute their own fields.
		if sf.Anonymous {
			embedded, err := extractFields(sf.Type)
			if err != nil {
				return nil, err
			}

			fields = append(fields, embedded...)

			continue
		}

		if f, ok := toField(sf); ok {
			fields = append(fields, f)
		}
	}

	return fields, nil
}

func toField(sf reflect.StructField) (Field, bool) {
	tag := sf.Tag.Get("yaml")
	if tag == "-" {
		return Field{}, false
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strings.ToLower(sf.Name)
	}

	f := Field{
		Name:        name,
		Type:        jsonType(sf.Type),
		Description: sf.Tag.Get("docdesc"),
		Required:    !strings.Contains(opts, "omitempty"),
	}

	if f.Type == "array" {
		f.Items = jsonType(sf.Type.Elem())
	}

	return f, true
}

// jsonType converts a Go type to a JSON Schema type. Interfaces accept anything and map to "".
func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return jsonType(t.Elem())
	default:
		return ""
	}
}

func sortFields(fields []Field) []Field {
	rank := func(name string) int {
		switch name {
		case "type":
			return 0
		case "name":
			return 1
		default:
			return 2 //nolint:mnd
		}
	}

	sort.SliceStable(fields, func(i, j int) bool {
		ri, rj := rank(fields[i].Name), rank(fields[j].Name)
		if ri != rj {
			return ri < rj
		}

		return fields[i].Name < fields[j].Name
	})

	return fields
}

func property(f Field) map[string]any {
	prop := map[string]any{}

	if f.Type != "" {
		prop["type"] = f.Type
	}

	if f.Description != "" {
		prop["description"] = f.Description
	}

	if f.Items != "" {
		prop["items"] = map[string]any{"type": f.Items}
	}

	return prop
}

func taskJSONSchema(ts TaskSchema) map[string]any {
	properties := make(map[string]any, len(ts.Fields))
	required := []string{}

	for _, f := range ts.Fields {
		prop := property(f)
		if f.Name == "type" {
			prop["enum"] = []string{ts.Type}
		}

		properties[f.Name] = prop

		// Names default to <type>-<index>.
		if f.Required && f.Name != "name" {
			required = append(required, f.Name)
		}
	}

	return map[string]any{
		"type":                 "object",
		"description":          ts.Description,
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

// JSONSchema returns the JSON Schema of a plan document whose tasks are the given types.
func JSONSchema(tasks []TaskSchema) map[string]any {
	anyOf := make([]any, len(tasks))
	for i, ts := range tasks {
		anyOf[i] = taskJSONSchema(ts)
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"type":        "object",
		"title":       "coop plan",
		"description": "A named set of tasks run on a cooperative event loop",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Name of the plan",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Description of what the plan does",
			},
			"mode": map[string]any{
				"type":        "string",
				"description": "How tasks are awaited",
				"enum":        []string{"gather", "sequential", "settled"},
			},
			"timeout": map[string]any{
				"type":        "string",
				"description": "Deadline for the whole plan, e.g. 30s",
			},
			"tasks": map[string]any{
				"type":        "array",
				"description": "Tasks to run",
				"items":       map[string]any{"anyOf": anyOf},
			},
		},
		"required": []string{"tasks"},
	}
}

// WriteJSONSchema writes the plan JSON Schema, indented, to w.
func WriteJSONSchema(w io.Writer, tasks []TaskSchema) error {
	b, err := json.MarshalIndent(JSONSchema(tasks), "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n", b)

	return err
}

// WriteMarkdown writes a reference of every task type, with a YAML example of each, to w.
func WriteMarkdown(w io.Writer, tasks []TaskSchema) error {
	var sb strings.Builder

	sb.WriteString("# Plan reference\n\n")
	sb.WriteString("A plan has a `name`, an optional `description`, a `mode` (gather, sequential or settled),\n")
	sb.WriteString("an optional overall `timeout` and a list of `tasks`.\n\n")
	sb.WriteString("## Task types\n")

	for _, ts := range tasks {
		fmt.Fprintf(&sb, "\n### %s\n\n%s.\n\n", ts.Type, ts.Description)
		sb.WriteString("| Field | Type | Required | Description |\n")
		sb.WriteString("|---|---|---|---|\n")

		for _, f := range ts.Fields {
			typ := f.Type
			if typ == "" {
				typ = "any"
			}

			if f.Items != "" {
				typ += " of " + f.Items
			}

			req := "no"
			if f.Required {
				req = "yes"
			}

			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", f.Name, typ, req, f.Description)
		}

		example, err := yaml.Marshal([]any{ts.Example})
		if err != nil {
			return err
		}

		fmt.Fprintf(&sb, "\n```yaml\n%s```\n", example)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

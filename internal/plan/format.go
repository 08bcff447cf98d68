// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matt-FFFFFF/coop/internal/color"
	"github.com/matt-FFFFFF/coop/internal/output"
)

// Format selects how results are written.
type Format string

const (
	// FormatText writes an indented tree with status symbols.
	FormatText Format = "text"
	// FormatJSON writes indented, optionally coloured, JSON.
	FormatJSON Format = "json"
	// FormatYAML writes YAML.
	FormatYAML Format = "yaml"
)

// durationPrecision is the rounding applied to printed durations.
const durationPrecision = time.Millisecond

// Formats lists the supported output formats.
var Formats = []string{string(FormatText), string(FormatJSON), string(FormatYAML)}

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	ShowValues bool // Whether to print the values of successful tasks in text output
	Color      bool // Whether to colour JSON output
}

// Write writes the result tree to w in format f.
func (r *Result) Write(w io.Writer, f Format, opts *OutputOptions) error {
	if opts == nil {
		opts = &OutputOptions{}
	}

	switch f {
	case FormatText, "":
		return writeText(w, r, "", opts)
	case FormatJSON:
		return writeJSON(w, r, opts)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		return fmt.Errorf("%w: %q", output.ErrUnknownFormat, f)
	}
}

func writeText(w io.Writer, r *Result, indent string, opts *OutputOptions) error {
	var statusStr, labelPrefix string

	errColor := color.FgWhite

	switch r.Status {
	case StatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelPrefix = color.ControlString(color.Bold, color.FgGreen)
	case StatusSkipped:
		statusStr = color.Colorize("~", color.FgYellow)
		labelPrefix = color.ControlString(color.Bold, color.FgYellow)
		errColor = color.FgYellow
	case StatusCancelled:
		statusStr = color.Colorize("⊘", color.FgYellow)
		labelPrefix = color.ControlString(color.Bold, color.FgYellow)
		errColor = color.FgYellow
	case StatusTimeout:
		statusStr = color.Colorize("⧗", color.FgMagenta)
		labelPrefix = color.ControlString(color.Bold, color.FgMagenta)
		errColor = color.FgMagenta
	case StatusError:
		statusStr = color.Colorize("✗", color.FgRed)
		labelPrefix = color.ControlString(color.Bold, color.FgRed)
		errColor = color.FgRed
	default:
		statusStr = color.Colorize("?", color.FgWhite)
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	if _, err := fmt.Fprintf(w, "%s%s %s%s%s", indent, statusStr, labelPrefix, label, color.ControlString(color.Reset)); err != nil {
		return err
	}

	if r.Type != "" && r.Type != "plan" {
		fmt.Fprintf(w, " [%s]", r.Type) // nolint:errcheck
	}

	if r.Duration > 0 {
		fmt.Fprintf(w, " (%s)", r.Duration.Round(durationPrecision)) // nolint:errcheck
	}

	fmt.Fprintln(w) // nolint:errcheck

	// The children already say which task failed.
	if r.Error != nil && !errors.Is(r.Error, ErrResultChildrenHasError) {
		fmt.Fprintf(w, "%s  %s %s\n", indent, color.Colorize("➜ Error:", errColor), r.Error) // nolint:errcheck
	}

	if opts.ShowValues && r.Status == StatusSuccess && r.Value != nil && len(r.Children) == 0 {
		fmt.Fprintf(w, "%s  ➜ Value:\n%s", indent, formatOutput(fmt.Sprint(r.Value), indent+"     ")) // nolint:errcheck
	}

	for _, child := range r.Children {
		if err := writeText(w, child, indent+"  ", opts); err != nil {
			return err
		}
	}

	return nil
}

// formatOutput indents each line of a multi-line value.
func formatOutput(output, indent string) string {
	sb := strings.Builder{}
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	sb.Grow(len(output) + len(lines)*len(indent))

	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n")
			continue
		}

		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// report is the serialised form of a Result.
type report struct {
	RunID    string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Label    string    `json:"label" yaml:"label"`
	Type     string    `json:"type" yaml:"type"`
	Status   string    `json:"status" yaml:"status"`
	Duration string    `json:"duration,omitempty" yaml:"duration,omitempty"`
	Value    any       `json:"value,omitempty" yaml:"value,omitempty"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
	Children []*report `json:"children,omitempty" yaml:"children,omitempty"`
}

func (r *Result) report() *report {
	out := &report{
		RunID:  r.RunID,
		Label:  r.Label,
		Type:   r.Type,
		Status: r.Status.String(),
		Value:  r.Value,
	}

	if r.Duration > 0 {
		out.Duration = r.Duration.Round(durationPrecision).String()
	}

	if r.Error != nil {
		out.Error = r.Error.Error()
	}

	for _, c := range r.Children {
		out.Children = append(out.Children, c.report())
	}

	return out
}

func writeJSON(w io.Writer, r *Result, opts *OutputOptions) error {
	return output.JSON(w, r.report(), opts.Color)
}

func writeYAML(w io.Writer, r *Result) error {
	return output.YAML(w, r.report())
}

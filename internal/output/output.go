// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package output writes values as indented JSON or as YAML for the command line.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/TylerBrock/colorjson"
	"github.com/goccy/go-yaml"
)

var (
	// ErrMarshal is returned when a value cannot be encoded.
	ErrMarshal = errors.New("failed to encode output")
	// ErrUnknownFormat is returned when an output format name is not recognised.
	ErrUnknownFormat = errors.New("unknown output format")
)

// JSON writes v to w as JSON indented by two spaces, coloured when colour is true.
func JSON(w io.Writer, v any, colour bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	// colorjson walks generic values only.
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return errors.Join(ErrMarshal, err)
	}

	formatter := colorjson.NewFormatter()
	formatter.Indent = 2
	formatter.DisabledColor = !colour

	out, err := formatter.Marshal(generic)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	_, err = fmt.Fprintf(w, "%s\n", out)

	return err
}

// YAML writes v to w as YAML.
func YAML(w io.Writer, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	_, err = w.Write(b)

	return err
}

// Check returns ErrUnknownFormat unless format is one of allowed.
func Check(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}

	return fmt.Errorf("%w: %q, use one of %v", ErrUnknownFormat, format, allowed)
}

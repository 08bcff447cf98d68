// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venv

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// ConfigFileName is the provenance file at the root of every environment.
const ConfigFileName = "pyvenv.cfg"

// Config is the content of pyvenv.cfg.
type Config struct {
	// Home is the directory holding the base interpreter.
	Home string `json:"home" yaml:"home"`

	// IncludeSystemSitePackages makes the base site-packages visible inside the environment.
	IncludeSystemSitePackages bool `json:"include_system_site_packages" yaml:"include_system_site_packages"`

	// Version is the base interpreter version, e.g. 3.12.4.
	Version string `json:"version" yaml:"version"`

	// Executable is the full path of the base interpreter.
	Executable string `json:"executable" yaml:"executable"`

	// Command is the command line that created the environment.
	Command string `json:"command" yaml:"command"`

	// Prompt is the shell prompt prefix. Empty means the directory name.
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`

	// Extra holds keys this package does not interpret, in file order.
	Extra [][2]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// WriteTo writes c in pyvenv.cfg format.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	line := func(k, v string) {
		fmt.Fprintf(&buf, "%s = %s\n", k, v)
	}

	line("home", c.Home)
	line("include-system-site-packages", fmt.Sprintf("%t", c.IncludeSystemSitePackages))
	line("version", c.Version)
	line("executable", c.Executable)
	line("command", c.Command)

	if c.Prompt != "" {
		line("prompt", fmt.Sprintf("'%s'", c.Prompt))
	}

	for _, kv := range c.Extra {
		line(kv[0], kv[1])
	}

	n, err := w.Write(buf.Bytes())

	return int64(n), err
}

// ParseConfig reads pyvenv.cfg content. Keys are matched case-insensitively.
func ParseConfig(r io.Reader) (Config, error) {
	var c Config

	sc := bufio.NewScanner(r)
	lineNo := 0

	for sc.Scan() {
		lineNo++

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		k, v, ok := strings.Cut(text, "=")
		if !ok {
			return Config{}, fmt.Errorf("%w: line %d: missing '='", ErrConfig, lineNo)
		}

		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)

		switch k {
		case "home":
			c.Home = v
		case "include-system-site-packages":
			c.IncludeSystemSitePackages = strings.EqualFold(v, "true")
		case "version", "version_info":
			c.Version = v
		case "executable":
			c.Executable = v
		case "command":
			c.Command = v
		case "prompt":
			c.Prompt = strings.Trim(v, `'"`)
		default:
			c.Extra = append(c.Extra, [2]string{k, v})
		}
	}

	if err := sc.Err(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return c, nil
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_WriteTo(t *testing.T) {
	cfg := Config{
		Home:                      "/usr/bin",
		IncludeSystemSitePackages: true,
		Version:                   "3.12.4",
		Executable:                "/usr/bin/python3.12",
		Command:                   "/usr/bin/python3.12 -m venv /tmp/env",
		Prompt:                    "demo",
	}

	var buf bytes.Buffer
	n, err := cfg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	expected := "home = /usr/bin\n" +
		"include-system-site-packages = true\n" +
		"version = 3.12.4\n" +
		"executable = /usr/bin/python3.12\n" +
		"command = /usr/bin/python3.12 -m venv /tmp/env\n" +
		"prompt = 'demo'\n"
	assert.Equal(t, expected, buf.String())
}

func TestParseConfig(t *testing.T) {
	in := `home = C:\Python312
Include-System-Site-Packages = false
version = 3.12.1
executable = C:\Python312\python.exe
command = C:\Python312\python.exe -m venv C:\env
prompt = "quoted"
# comment
uv = 0.4.0
`

	cfg, err := ParseConfig(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, `C:\Python312`, cfg.Home)
	assert.False(t, cfg.IncludeSystemSitePackages)
	assert.Equal(t, "3.12.1", cfg.Version)
	assert.Equal(t, "quoted", cfg.Prompt)
	assert.Equal(t, [][2]string{{"uv", "0.4.0"}}, cfg.Extra)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig(strings.NewReader("home /usr/bin\n"))
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "line 1")
}

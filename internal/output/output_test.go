// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Count int      `json:"count" yaml:"count"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sample{Name: "a", Count: 2, Tags: []string{"x"}}, false))

	assert.Contains(t, buf.String(), "\n  \"count\": 2")
	assert.NotContains(t, buf.String(), "\x1b[")

	var got sample
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample{Name: "a", Count: 2, Tags: []string{"x"}}, got)
}

func TestJSON_Colour(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sample{Name: "a"}, true))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestJSON_Unsupported(t *testing.T) {
	err := JSON(&bytes.Buffer{}, make(chan int), false)
	require.ErrorIs(t, err, ErrMarshal)
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, sample{Name: "a", Count: 2}))
	assert.Equal(t, "name: a\ncount: 2\n", buf.String())
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check("json", "text", "json"))
	require.ErrorIs(t, Check("xml", "text", "json"), ErrUnknownFormat)
}

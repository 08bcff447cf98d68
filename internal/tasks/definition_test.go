// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected time.Duration
		wantErr  bool
	}{
		{name: "empty", in: "", expected: 0},
		{name: "millis", in: "100ms", expected: 100 * time.Millisecond},
		{name: "seconds", in: "30s", expected: 30 * time.Second},
		{name: "garbage", in: "soon", wantErr: true},
		{name: "negative", in: "-1s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeout)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBaseDefinition_TimeoutDuration(t *testing.T) {
	d := &BaseDefinition{Type: "value", Name: "x", Timeout: "2s"}

	got, err := d.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, got)
}

func TestErrTaskCreate(t *testing.T) {
	inner := errors.New("bad field")
	err := NewErrTaskCreate("demo", inner)

	assert.Equal(t, `failed to create task "demo": bad field`, err.Error())
	assert.ErrorIs(t, err, inner)

	var tc *ErrTaskCreate
	require.ErrorAs(t, err, &tc)
	assert.Equal(t, `failed to create task "demo"`, NewErrTaskCreate("demo", nil).Error())
}

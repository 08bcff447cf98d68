// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsColorCapable(t *testing.T) {
	t.Setenv(NoColor, "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled")

	t.Setenv(ForceColor, "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled as NO_COLOR is still set")

	t.Setenv(NoColor, "")
	assert.True(t, isColorCapable(), "Expected color output to be enabled as FORCE_COLOR is set and NO_COLOR is unset")
}

func TestColorize(t *testing.T) {
	prev := SetEnabled(true)
	defer SetEnabled(prev)

	assert.Equal(t, "\033[31mfail\033[0m", Colorize("fail", FgRed))
	assert.Equal(t, "\033[1;32mok\033[0m", Colorize("ok", Bold, FgGreen))
	assert.Equal(t, "plain", Colorize("plain"))
	assert.Equal(t, "\033[1;33m", ControlString(Bold, FgYellow))
}

func TestColorize_Disabled(t *testing.T) {
	prev := SetEnabled(false)
	defer SetEnabled(prev)

	assert.Equal(t, "fail", Colorize("fail", FgRed))
	assert.Empty(t, ControlString(Bold))
}

func TestPaint(t *testing.T) {
	assert.Equal(t, "x", Paint(false, "x", FgCyan))
	assert.Equal(t, "\033[36mx\033[0m", Paint(true, "x", FgCyan))
}

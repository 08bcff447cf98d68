// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Code represents an ANSI SGR parameter.
type Code int

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	csi   = "\033["
	sgr   = "m"
	reset = csi + "0" + sgr
)

// Text attributes.
const (
	Reset Code = iota
	Bold
	Faint
	Italic
	Underline
)

// Foreground text colors.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Foreground Hi-Intensity text colors.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled = isColorCapable()

// Enabled reports whether color output was detected as available at start-up.
func Enabled() bool {
	return enabled
}

// SetEnabled overrides detection. It returns the previous setting so tests can restore it.
func SetEnabled(v bool) bool {
	prev := enabled
	enabled = v

	return prev
}

// ControlString returns the escape sequence for the given codes, or "" when color is disabled.
func ControlString(codes ...Code) string {
	if !enabled || len(codes) == 0 {
		return ""
	}

	return sequence(codes)
}

// Colorize wraps str in the given codes followed by a reset, when color is enabled.
func Colorize(str string, codes ...Code) string {
	return Paint(enabled, str, codes...)
}

// Paint is Colorize with an explicit on/off switch, for writers that decide per destination.
func Paint(on bool, str string, codes ...Code) string {
	if !on || len(codes) == 0 {
		return str
	}

	return sequence(codes) + str + reset
}

func sequence(codes []Code) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(int(c))
	}

	return csi + strings.Join(parts, ";") + sgr
}

func isColorCapable() bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}

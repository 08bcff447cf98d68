// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"github.com/matt-FFFFFF/coop/internal/teereader"
)

// Bootstrapper installs the package manager into a freshly created environment.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, env *Environment) error
}

// BootstrapperFunc adapts a function to the Bootstrapper interface.
type BootstrapperFunc func(ctx context.Context, env *Environment) error

// Bootstrap implements Bootstrapper.
func (f BootstrapperFunc) Bootstrap(ctx context.Context, env *Environment) error {
	return f(ctx, env)
}

// RunCommand runs an executable and returns its combined output.
// Each output line is logged at debug level as it arrives.
var RunCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	logger := ctxlog.Logger(ctx).With("command", filepath.Base(name))
	out := teereader.NewLineWriter(func(line string) {
		logger.Debug("output", "line", line)
	})

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	err := cmd.Run()

	return out.Bytes(), err
}

// EnsurePip bootstraps pip with the environment's own interpreter and ensurepip.
var EnsurePip Bootstrapper = BootstrapperFunc(func(ctx context.Context, env *Environment) error {
	args := []string{"-m", "ensurepip", "--upgrade", "--default-pip"}
	ctxlog.Debug(ctx, "bootstrapping pip", "python", env.Python, "args", strings.Join(args, " "))

	out, err := RunCommand(ctx, env.Python, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", env.Python, strings.Join(args, " "), err, bytes.TrimSpace(out))
	}

	return nil
})

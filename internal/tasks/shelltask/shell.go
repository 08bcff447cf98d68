// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shelltask

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/matt-FFFFFF/coop/internal/loop"
	"github.com/matt-FFFFFF/coop/internal/teereader"
)

const (
	goosWindows          = "windows"
	commandSwitchWindows = "/C"
	commandSwitchUnix    = "-c"
	winSystem32          = "System32"
	cmdExe               = "cmd.exe"
	binSh                = "/bin/sh"
	winSystemRootEnv     = "SystemRoot"
	maxOutputSize        = 1024 * 1024 // 1MB
	lastLineLength       = 200
	waitDelay            = 2 * time.Second // grace period for pipes after the process is killed
)

var (
	// ErrCommandNotFound is returned when the command line is empty.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrExitCode is returned when the process exits with a code not listed as success.
	ErrExitCode = errors.New("process exited with a failure exit code")
)

// Shell returns the shell used to run command lines. It can be replaced for testing.
var Shell = defaultShell

// Command is a process to run.
type Command struct {
	Path             string            // Executable to run
	Args             []string          // Arguments, without the executable itself
	Cwd              string            // Working directory, empty for the current one
	Env              map[string]string // Added to the current environment
	SuccessExitCodes []int             // Exit codes that indicate success, defaults to 0
}

// Output is the value of a successful shell task.
type Output struct {
	ExitCode  int    `json:"exit_code" yaml:"exit_code"`
	Output    string `json:"output,omitempty" yaml:"output,omitempty"`
	Truncated bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// NewShell returns a command that runs commandLine with the platform shell.
func NewShell(commandLine string) (Command, error) {
	if commandLine == "" {
		return Command{}, ErrCommandNotFound
	}

	sw := commandSwitchUnix
	if runtime.GOOS == goosWindows {
		sw = commandSwitchWindows
	}

	return Command{Path: Shell(), Args: []string{sw, commandLine}}, nil
}

// Func returns a unit of work that runs the command off the loop. Its value is an *Output.
func (c Command) Func() loop.Func[any] {
	return func(s *loop.Scope) (any, error) {
		logger := s.Logger().With("command", filepath.Base(c.Path))

		out, err := loop.Offload(s, func(ctx context.Context) (*Output, error) {
			return c.run(ctx, logger)
		})
		if err != nil {
			return nil, err
		}

		return out, nil
	}
}

func (c Command) run(ctx context.Context, logger *slog.Logger) (*Output, error) {
	logger.Debug("starting process", "args", c.Args, "cwd", c.Cwd)

	success := c.SuccessExitCodes
	if len(success) == 0 {
		success = []int{0}
	}

	lw := teereader.NewLineWriter(func(line string) {
		logger.Debug("output", "line", line)
	})

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Cwd
	cmd.Stdout = lw
	cmd.Stderr = lw
	cmd.WaitDelay = waitDelay

	if len(c.Env) > 0 {
		cmd.Env = os.Environ()
		for _, k := range slices.Sorted(maps.Keys(c.Env)) {
			cmd.Env = append(cmd.Env, k+"="+c.Env[k])
		}
	}

	err := cmd.Run()

	if ctx.Err() != nil {
		logger.Debug("process killed", "error", ctx.Err())
		return nil, ctx.Err()
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	res := &Output{ExitCode: cmd.ProcessState.ExitCode()}

	b := lw.Bytes()
	if len(b) > maxOutputSize {
		b = b[:maxOutputSize]
		res.Truncated = true
	}

	res.Output = string(b)

	logger.Debug("process finished", "exitCode", res.ExitCode, "bytes", len(b))

	if !slices.Contains(success, res.ExitCode) {
		return res, fmt.Errorf("%w: %d: %s", ErrExitCode, res.ExitCode, lw.LastLine(lastLineLength))
	}

	return res, nil
}

func defaultShell() string {
	if runtime.GOOS == goosWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe)
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	return binSh
}

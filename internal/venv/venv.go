// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/matt-FFFFFF/coop/internal/ctxlog"
	"github.com/spf13/afero"
)

// FS is the filesystem environments are created on.
// Default is the OS filesystem, but can be replaced with a mock for testing.
var FS = afero.NewOsFs()

// LookPath locates the base interpreter when Options.Interpreter is empty.
var LookPath = exec.LookPath

// ProbeVersion asks an interpreter for its version when Options.Version is empty.
var ProbeVersion = func(ctx context.Context, interpreter string) (string, error) {
	out, err := RunCommand(ctx, interpreter, "-c", "import sys; print('%d.%d.%d' % sys.version_info[:3])")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

// hostOS selects the platform layout.
var hostOS = runtime.GOOS

const (
	// dirMode is the file mode for directories in an environment.
	dirMode = 0o755
	// fileMode is the file mode for non-executable files in an environment.
	fileMode = 0o644
	// execMode is the file mode for interpreters copied into an environment.
	execMode = 0o755
)

// interpreterNames are tried in order by LookPath.
var interpreterNames = []string{"python3", "python"}

// Options controls Create.
type Options struct {
	// WithPackageManager bootstraps pip after the environment is laid out.
	WithPackageManager bool

	// SystemSitePackages gives the environment access to the base site-packages.
	SystemSitePackages bool

	// Clear deletes the contents of an existing target directory first.
	Clear bool

	// Symlinks links the interpreter instead of copying it, where the filesystem allows.
	Symlinks bool

	// Prompt is the shell prompt prefix. Defaults to the directory name.
	Prompt string

	// Interpreter is the base interpreter. Defaults to python3 or python on PATH.
	Interpreter string

	// Version is the base interpreter version. Defaults to asking the interpreter.
	Version string

	// Bootstrapper installs the package manager. Defaults to EnsurePip.
	Bootstrapper Bootstrapper
}

// Environment describes a created or inspected environment.
type Environment struct {
	Path         string   `json:"path" yaml:"path"`
	BinDir       string   `json:"bin_dir" yaml:"bin_dir"`
	LibDir       string   `json:"lib_dir" yaml:"lib_dir"`
	SitePackages string   `json:"site_packages" yaml:"site_packages"`
	IncludeDir   string   `json:"include_dir" yaml:"include_dir"`
	Python       string   `json:"python" yaml:"python"`
	Scripts      []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Config       Config   `json:"config" yaml:"config"`
}

// ConfigPath returns the location of the environment's pyvenv.cfg.
func (e *Environment) ConfigPath() string {
	return filepath.Join(e.Path, ConfigFileName)
}

// layout is the set of directories an environment is made of.
type layout struct {
	windows      bool
	root         string
	binDir       string
	libDir       string
	sitePackages string
	includeDir   string
	pythonNames  []string
}

func newLayout(root, version string) layout {
	l := layout{root: root, windows: hostOS == "windows"}

	if l.windows {
		l.binDir = filepath.Join(root, "Scripts")
		l.libDir = filepath.Join(root, "Lib")
		l.sitePackages = filepath.Join(l.libDir, "site-packages")
		l.includeDir = filepath.Join(root, "Include")
		l.pythonNames = []string{"python.exe", "pythonw.exe"}

		return l
	}

	mm := majorMinor(version)
	l.binDir = filepath.Join(root, "bin")
	l.libDir = filepath.Join(root, "lib")
	l.sitePackages = filepath.Join(l.libDir, "python"+mm, "site-packages")
	l.includeDir = filepath.Join(root, "include")
	l.pythonNames = []string{"python", "python3", "python" + mm}

	return l
}

func (l layout) python() string {
	return filepath.Join(l.binDir, l.pythonNames[0])
}

func (l layout) environment(cfg Config, scripts []string) *Environment {
	return &Environment{
		Path:         l.root,
		BinDir:       l.binDir,
		LibDir:       l.libDir,
		SitePackages: l.sitePackages,
		IncludeDir:   l.includeDir,
		Python:       l.python(),
		Scripts:      scripts,
		Config:       cfg,
	}
}

// majorMinor returns the X.Y prefix of a version string.
func majorMinor(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}

	return parts[0] + "." + parts[1]
}

// Create lays out a new environment at path.
func Create(ctx context.Context, path string, opts Options) (*Environment, error) {
	logger := ctxlog.Logger(ctx).With("component", "venv", "path", path)

	root, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	interpreter, err := findInterpreter(opts.Interpreter)
	if err != nil {
		return nil, err
	}

	version := opts.Version
	if version == "" {
		if version, err = ProbeVersion(ctx, interpreter); err != nil {
			return nil, fmt.Errorf("%w: asking %s for its version: %w", ErrInterpreterNotFound, interpreter, err)
		}
	}

	if err := prepareTarget(root, opts.Clear); err != nil {
		return nil, err
	}

	l := newLayout(root, version)

	for _, dir := range []string{l.binDir, l.sitePackages, l.includeDir} {
		if err := FS.MkdirAll(dir, dirMode); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if err := installInterpreter(l, interpreter, opts.Symlinks); err != nil {
		return nil, err
	}

	prompt := opts.Prompt
	if prompt == "" {
		prompt = filepath.Base(root)
	}

	cfg := Config{
		Home:                      filepath.Dir(interpreter),
		IncludeSystemSitePackages: opts.SystemSitePackages,
		Version:                   version,
		Executable:                interpreter,
		Command:                   commandLine(interpreter, root, opts),
		Prompt:                    opts.Prompt,
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, err
	}

	if err := afero.WriteFile(FS, filepath.Join(root, ConfigFileName), buf.Bytes(), fileMode); err != nil {
		return nil, fmt.Errorf("writing %s: %w", ConfigFileName, err)
	}

	scripts, err := writeScripts(l, scriptData{EnvDir: root, BinName: filepath.Base(l.binDir), Prompt: prompt})
	if err != nil {
		return nil, err
	}

	env := l.environment(cfg, scripts)
	logger.Debug("environment laid out", "bin", l.binDir, "site_packages", l.sitePackages)

	if !opts.WithPackageManager {
		return env, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := opts.Bootstrapper
	if b == nil {
		b = EnsurePip
	}

	if err := b.Bootstrap(ctx, env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}

	logger.Debug("package manager bootstrapped")

	return env, nil
}

// Remove deletes the environment at path. Removing a path that does not exist succeeds.
// A directory that is not an environment is left alone and ErrNotEnvironment is returned.
func Remove(path string) error {
	if err := validatePath(path); err != nil {
		return err
	}

	info, err := FS.Stat(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	if ok, err := afero.Exists(FS, filepath.Join(path, ConfigFileName)); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %s", ErrNotEnvironment, path)
	}

	return FS.RemoveAll(path)
}

// Inspect reads back the environment at path.
func Inspect(path string) (*Environment, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	f, err := FS.Open(filepath.Join(root, ConfigFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotEnvironment, root)
	}

	if err != nil {
		return nil, err
	}

	defer f.Close() //nolint:errcheck

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, err
	}

	return newLayout(root, cfg.Version).environment(cfg, nil), nil
}

func findInterpreter(interpreter string) (string, error) {
	if interpreter != "" {
		if _, err := FS.Stat(interpreter); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrInterpreterNotFound, interpreter, err)
		}

		return interpreter, nil
	}

	for _, name := range interpreterNames {
		if p, err := LookPath(name); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrInterpreterNotFound, strings.Join(interpreterNames, ", "))
}

// installInterpreter places the base interpreter in the bin directory under each of the
// layout's names, linking when asked and supported, copying otherwise.
func installInterpreter(l layout, interpreter string, symlinks bool) error {
	linker, canLink := FS.(afero.Linker)

	var data []byte

	for _, name := range l.pythonNames {
		dst := filepath.Join(l.binDir, name)

		if symlinks && canLink {
			if err := linker.SymlinkIfPossible(interpreter, dst); err == nil {
				continue
			}
		}

		if data == nil {
			b, err := afero.ReadFile(FS, interpreter)
			if err != nil {
				return fmt.Errorf("%w: reading %s: %w", ErrInterpreterNotFound, interpreter, err)
			}

			data = b
		}

		if err := afero.WriteFile(FS, dst, data, execMode); err != nil {
			return fmt.Errorf("copying interpreter to %s: %w", dst, err)
		}
	}

	return nil
}

func commandLine(interpreter, root string, opts Options) string {
	args := []string{interpreter, "-m", "venv"}

	if opts.SystemSitePackages {
		args = append(args, "--system-site-packages")
	}

	if opts.Clear {
		args = append(args, "--clear")
	}

	if opts.Symlinks {
		args = append(args, "--symlinks")
	}

	if !opts.WithPackageManager {
		args = append(args, "--without-pip")
	}

	if opts.Prompt != "" {
		args = append(args, "--prompt", opts.Prompt)
	}

	args = append(args, root)

	return strings.Join(args, " ")
}

// Exists reports whether path holds an environment.
func Exists(path string) bool {
	ok, err := afero.Exists(FS, filepath.Join(path, ConfigFileName))
	return err == nil && ok
}

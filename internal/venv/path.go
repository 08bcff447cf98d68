// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package venv

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// invalidPathChars are rejected anywhere in a path.
const invalidPathChars = "<>\"|?*\x00"

// hasDrivePrefix reports whether p starts with a Windows drive letter, e.g. "C:".
func hasDrivePrefix(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}

	c := p[0]

	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// validatePath rejects paths that no supported platform accepts.
func validatePath(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	if i := strings.IndexAny(p, invalidPathChars); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidPath, p, p[i])
	}

	rest := p
	if hasDrivePrefix(p) {
		rest = p[2:]
	}

	if strings.ContainsRune(rest, ':') {
		return fmt.Errorf("%w: %q contains ':'", ErrInvalidPath, p)
	}

	return nil
}

// resolvePath validates p and returns it as an absolute path whose parent exists.
func resolvePath(p string) (string, error) {
	if err := validatePath(p); err != nil {
		return "", err
	}

	if hasDrivePrefix(p) && hostOS != "windows" {
		return "", fmt.Errorf("%w: drive %s does not exist", ErrPathNotFound, p[:2])
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	parent := filepath.Dir(abs)

	info, err := FS.Stat(parent)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, parent)
	case err != nil:
		return "", err
	case !info.IsDir():
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, parent)
	}

	return abs, nil
}

// prepareTarget makes sure dir exists and is empty, clearing it if asked.
func prepareTarget(dir string, clear bool) error {
	info, err := FS.Stat(dir)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return FS.MkdirAll(dir, dirMode)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	empty, err := afero.IsEmpty(FS, dir)
	if err != nil {
		return err
	}

	if empty {
		return nil
	}

	if !clear {
		return fmt.Errorf("%w: %s", ErrExists, dir)
	}

	if err := FS.RemoveAll(dir); err != nil {
		return err
	}

	return FS.MkdirAll(dir, dirMode)
}

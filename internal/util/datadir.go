// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ParseDataDir turns a user supplied directory spec into an absolute path. A
// leading "~" is expanded to the home directory and relative paths are
// resolved against the working directory. The directory need not exist yet,
// but if something exists at the path it must be a directory.
func ParseDataDir(spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", os.ErrInvalid
	}

	dir := spec
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}

	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, dir)
	}
	dir = filepath.Clean(dir)

	if r, err := os.Stat(dir); err == nil && !r.IsDir() {
		return "", os.ErrInvalid
	} else if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	return dir, nil
}

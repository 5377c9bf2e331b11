// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/astrojobs/astrojobs/internal/config"
	"github.com/astrojobs/astrojobs/internal/log"
	"github.com/astrojobs/astrojobs/internal/util"
)

// Dir resolves the local data directory.
// Precedence:
//  1. spec, if non-empty (usually the --data-dir flag)
//  2. ASTROJOBS_DATA_DIR, if set and non-empty
//  3. data_dir from the config file
//  4. os.UserCacheDir()/astrojobs
func Dir(spec string) (string, error) {
	source := "flag"
	if spec == "" {
		if d, ok := os.LookupEnv("ASTROJOBS_DATA_DIR"); ok && d != "" {
			spec, source = d, "env"
		}
	}
	if spec == "" {
		if d, err := config.GetString("data_dir", ""); err == nil && d != "" {
			spec, source = d, "config"
		}
	}

	if spec == "" {
		base, err := os.UserCacheDir()
		if err != nil || base == "" {
			return "", errors.New("unable to resolve a data directory, set --data-dir")
		}
		spec, source = filepath.Join(base, "astrojobs"), "default"
	}

	dir, err := util.ParseDataDir(spec)
	if err != nil {
		return "", fmt.Errorf("invalid data dir %q: %w", spec, err)
	}
	log.Debugf("data dir: path=%s source=%s", dir, source)
	return dir, nil
}

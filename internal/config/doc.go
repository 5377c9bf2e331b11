// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for the astrojobs user
// configuration. The configuration is an optional YAML document located in
// the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/astrojobs.yaml or $HOME/.config/astrojobs.yaml
//   - macOS: $HOME/Library/Application Support/astrojobs.yaml
//   - Windows: %APPDATA%/astrojobs.yaml
//
// ASTROJOBS_CFG_FILE overrides the location. Actual resolution relies on
// os.UserConfigDir which follows platform conventions.
package config

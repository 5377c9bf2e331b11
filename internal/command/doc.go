// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the astrojobs CLI. It wires flags, validators,
// the rumor mill check action and shell completion.
package command

// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders rumor mill diff results as colored text, JSON or
// YAML, along with the banners and boxed notices the CLI prints.
package output

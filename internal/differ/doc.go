// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes line-level differences between a saved listing
// snapshot and a freshly fetched one.
package differ

// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package baseline persists the last seen snapshot of each listing category.
//
// Two stores are provided:
//   - Local: plain text files in a data directory, guarded by a file lock.
//   - S3: one object per category in a bucket.
//
// A missing baseline is never an error. It loads as an empty snapshot with
// Exists set to false.
package baseline

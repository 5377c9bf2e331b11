// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package listing fetches the Rumor Mill wiki pages and turns their job
// tables into snapshots, one formatted text line per posting.
package listing

// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads AWS SDK configuration and builds the S3 client used by
// the remote baseline store.
package aws

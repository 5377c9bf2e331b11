// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other astrojobs packages to avoid import cycles.

package version

import (
	"runtime/debug"
	"strings"
)

// Name is the program name used in banners and the --version output.
const Name = "astrojobs"

// Module is the import path used for the update check and install hint.
const Module = "github.com/astrojobs/astrojobs"

// fallback is reported by binaries built without module version info.
const fallback = "0.1.0"

// Version is the semantic version of this build, without a leading "v".
var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return strings.TrimPrefix(info.Main.Version, "v")
	}
	return fallback
}()

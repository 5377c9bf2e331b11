// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/astrojobs/astrojobs/internal/config"
)

// Meta contains runtime metadata shared by the commands. It carries the CLI
// arguments, the loaded configuration, the context and the starting working
// directory.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
}

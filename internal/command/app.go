// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/astrojobs/astrojobs/internal/config"
	"github.com/astrojobs/astrojobs/internal/log"
	"github.com/astrojobs/astrojobs/internal/meta"
	"github.com/astrojobs/astrojobs/internal/version"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The tool runs fine without a config file.
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("no config loaded: %v", err)
	}

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:      version.Name,
		Usage:     "get astro job/rumor updates in terminal since last check",
		UsageText: version.Name + " [-p] [-f] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewRootFlags(cfg.Source),
		Action: rootCommandAction,
	}

	app.Commands = append(app.Commands,
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	sort.Slice(app.Flags, func(i, j int) bool {
		return app.Flags[i].Names()[0] < app.Flags[j].Names()[0]
	})

	return app, nil
}

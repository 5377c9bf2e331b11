// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/astrojobs/astrojobs/internal/baseline"
	"github.com/astrojobs/astrojobs/internal/config"
	"github.com/astrojobs/astrojobs/internal/differ"
	"github.com/astrojobs/astrojobs/internal/listing"
	"github.com/astrojobs/astrojobs/internal/log"
	"github.com/astrojobs/astrojobs/internal/output"
)

// checker runs the rumor mill check for a set of categories.
type checker struct {
	source    *listing.Source
	store     baseline.Store
	printer   *output.Printer
	algorithm differ.Algorithm
	dryRun    bool
}

// rootCommandAction is the action handler of the root command. It checks
// postdoc and then faculty, in that order, for whichever were requested.
func rootCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if err := RootFlagsValidator(ctx, cmd); err != nil {
		return err
	}

	categories := SelectedCategories(cmd)
	if len(categories) == 0 {
		log.Debug("no category selected")
		return nil
	}

	c, err := newChecker(ctx, cmd)
	if err != nil {
		return err
	}

	for _, category := range categories {
		if err := c.check(ctx, category); err != nil {
			return err
		}
	}
	return nil
}

// SelectedCategories returns the requested categories in report order.
func SelectedCategories(cmd *cli.Command) []listing.Category {
	var categories []listing.Category
	for _, c := range listing.Categories {
		if cmd.Bool(c.String()) {
			categories = append(categories, c)
		}
	}
	return categories
}

func newChecker(ctx context.Context, cmd *cli.Command) (*checker, error) {
	format, err := output.ParseFormat(cmd.String("output"))
	if err != nil {
		return nil, err
	}
	mode, err := output.ParseColorMode(cmd.String("color"))
	if err != nil {
		return nil, err
	}
	algorithm, err := differ.ParseAlgorithm(cmd.String("algorithm"))
	if err != nil {
		return nil, err
	}

	opts, err := sourceOptions(cmd)
	if err != nil {
		return nil, err
	}

	attempts, err := config.GetInt("s3.max_attempts", 0)
	if err != nil {
		return nil, fmt.Errorf("s3.max_attempts: %w", err)
	}

	store, err := baseline.New(ctx, baseline.Settings{
		Kind:        cmd.String("store"),
		Dir:         cmd.String("data-dir"),
		Bucket:      cmd.String("bucket"),
		Prefix:      cmd.String("prefix"),
		Region:      cmd.String("region"),
		Profile:     cmd.String("profile"),
		Endpoint:    cmd.String("endpoint"),
		MaxAttempts: attempts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open baseline store: %w", err)
	}

	printer := output.NewPrinter(writer(cmd), format, mode)
	if root := cmd.Root(); root != nil && root.ErrWriter != nil {
		printer.Err = root.ErrWriter
	}

	return &checker{
		source:    listing.NewSource(opts...),
		store:     store,
		printer:   printer,
		algorithm: algorithm,
		dryRun:    cmd.Bool("dry-run"),
	}, nil
}

// sourceOptions collects the listing overrides. The base URL has a flag,
// the rest come from listing.* in the config file.
func sourceOptions(cmd *cli.Command) ([]listing.Option, error) {
	var opts []listing.Option

	if u := cmd.String("base-url"); u != "" {
		opts = append(opts, listing.WithBaseURL(u))
	}
	if ua, err := config.GetString("listing.user_agent"); err == nil && ua != "" {
		opts = append(opts, listing.WithUserAgent(ua))
	}

	retries, err := config.GetInt("listing.retries", listing.DefaultRetries)
	if err != nil {
		return nil, fmt.Errorf("listing.retries: %w", err)
	}
	opts = append(opts, listing.WithRetries(retries))

	timeout, err := config.GetDuration("listing.timeout", listing.DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("listing.timeout: %w", err)
	}
	opts = append(opts, listing.WithTimeout(timeout))

	cols := listing.DefaultColumns
	if cols.Title, err = config.GetInt("listing.columns.title", cols.Title); err != nil {
		return nil, fmt.Errorf("listing.columns.title: %w", err)
	}
	if cols.Deadline, err = config.GetInt("listing.columns.deadline", cols.Deadline); err != nil {
		return nil, fmt.Errorf("listing.columns.deadline: %w", err)
	}
	if err := cols.Validate(); err != nil {
		return nil, err
	}
	opts = append(opts, listing.WithColumns(cols))

	return opts, nil
}

// check fetches one category, reports the diff against its baseline and
// then replaces the baseline with the fresh snapshot.
func (c *checker) check(ctx context.Context, category listing.Category) error {
	c.printer.RegisterNotice()

	old, err := c.store.Load(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to load %s baseline: %w", category, err)
	}

	snapshot, err := c.source.Snapshot(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to check %s rumor mill: %w", category, err)
	}

	res := differ.Diff(old.Lines, snapshot, c.algorithm)
	log.Infof("%s: %s", category, res.Summary())

	if err := c.printer.Report(old, res); err != nil {
		return err
	}

	if c.dryRun {
		log.Infof("dry run, %s baseline left untouched", category)
		return nil
	}
	if err := c.store.Save(ctx, category, snapshot); err != nil {
		return fmt.Errorf("failed to save %s baseline: %w", category, err)
	}
	return nil
}

func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return nil
}

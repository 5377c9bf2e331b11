// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/astrojobs/astrojobs/internal/baseline"
	"github.com/astrojobs/astrojobs/internal/differ"
	"github.com/astrojobs/astrojobs/internal/output"
)

// NewRootFlags returns the flags of the root command. Values not given on
// the command line fall back to ASTROJOBS_* env vars and then to the config
// file at cfgPath.
func NewRootFlags(cfgPath string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "faculty",
			Aliases: []string{"f"},
			Usage:   "show updates for faculty jobs/rumors",
		},
		&cli.BoolFlag{
			Name:    "postdoc",
			Aliases: []string{"p"},
			Usage:   "show updates for postdoc jobs/rumors",
		},
		&cli.BoolFlag{
			Name:        "version",
			Aliases:     []string{"v"},
			Usage:       "astrojobs version info",
			HideDefault: true,
		},
		configured(&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml)",
			Value:   string(output.FormatText),
			Sources: cli.EnvVars("ASTROJOBS_OUTPUT"),
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		}, "output", cfgPath),
		configured(&cli.StringFlag{
			Name:    "color",
			Usage:   "colorize text output (auto, always, never)",
			Value:   string(output.ColorAuto),
			Sources: cli.EnvVars("ASTROJOBS_COLOR"),
			Validator: func(value string) error {
				return FlagValidators(value, ColorValidator)
			},
		}, "color", cfgPath),
		configured(&cli.StringFlag{
			Name:    "algorithm",
			Usage:   "line diff algorithm (difflib, lcs)",
			Value:   string(differ.Difflib),
			Sources: cli.EnvVars("ASTROJOBS_ALGORITHM"),
			Validator: func(value string) error {
				return FlagValidators(value, AlgorithmValidator)
			},
		}, "algorithm", cfgPath),
		configured(&cli.StringFlag{
			Name:    "data-dir",
			Aliases: []string{"d"},
			Usage:   "directory holding the local baselines",
			Sources: cli.EnvVars("ASTROJOBS_DATA_DIR"),
		}, "data_dir", cfgPath),
		configured(&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "report changes without updating the baselines",
			Sources: cli.EnvVars("ASTROJOBS_DRY_RUN"),
		}, "dry_run", cfgPath),
		configured(&cli.StringFlag{
			Name:    "store",
			Usage:   "where baselines are kept (local, s3)",
			Value:   baseline.KindLocal,
			Sources: cli.EnvVars("ASTROJOBS_STORE"),
			Validator: func(value string) error {
				return FlagValidators(value, StoreValidator)
			},
		}, "store", cfgPath),
		configured(&cli.StringFlag{
			Name:    "bucket",
			Usage:   "S3 bucket for --store s3",
			Sources: cli.EnvVars("ASTROJOBS_BUCKET"),
		}, "s3.bucket", cfgPath),
		configured(&cli.StringFlag{
			Name:    "prefix",
			Usage:   "S3 key prefix for --store s3",
			Value:   "astrojobs",
			Sources: cli.EnvVars("ASTROJOBS_PREFIX"),
		}, "s3.prefix", cfgPath),
		configured(&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region for --store s3. Defaults to the AWS config chain",
			Sources: cli.EnvVars("ASTROJOBS_REGION"),
		}, "s3.region", cfgPath),
		configured(&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared config profile for --store s3",
			Sources: cli.EnvVars("ASTROJOBS_PROFILE"),
		}, "s3.profile", cfgPath),
		configured(&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "S3 compatible endpoint URL for --store s3",
			Hidden:  true,
			Sources: cli.EnvVars("ASTROJOBS_S3_ENDPOINT"),
		}, "s3.endpoint", cfgPath),
		configured(&cli.StringFlag{
			Name:    "base-url",
			Usage:   "wiki base URL hosting the rumor mill pages",
			Hidden:  true,
			Sources: cli.EnvVars("ASTROJOBS_BASE_URL"),
		}, "listing.base_url", cfgPath),
	}
}

// configured appends a config file source for key to the flag's Sources
// chain. The env vars already on the chain keep precedence.
func configured[T cli.Flag](flag T, key string, path string) T {
	src := yaml.YAML(key, altsrc.StringSourcer(path))

	switch f := any(flag).(type) {
	case *cli.StringFlag:
		f.Sources.Chain = append(f.Sources.Chain, src)
	case *cli.BoolFlag:
		f.Sources.Chain = append(f.Sources.Chain, src)
	}
	return flag
}

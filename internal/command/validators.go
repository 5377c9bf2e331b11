// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/astrojobs/astrojobs/internal/baseline"
	"github.com/astrojobs/astrojobs/internal/differ"
	"github.com/astrojobs/astrojobs/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// RootFlagsValidator checks combinations that single flag validators cannot.
func RootFlagsValidator(ctx context.Context, cmd *cli.Command) error {
	kind, err := baseline.ParseKind(cmd.String("store"))
	if err != nil {
		return err
	}
	if kind == baseline.KindS3 && cmd.String("bucket") == "" {
		return errors.New("--store s3 requires --bucket")
	}
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, output.Formats)
}

func ColorValidator(value any) error {
	return oneOf(value, output.ColorModes)
}

func AlgorithmValidator(value any) error {
	return oneOf(value, differ.Algorithms)
}

func StoreValidator(value any) error {
	return oneOf(value, baseline.Kinds)
}

func oneOf(value any, valid []string) error {
	s, _ := value.(string)
	if !slices.Contains(valid, strings.ToLower(s)) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}

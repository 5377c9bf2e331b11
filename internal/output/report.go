// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/astrojobs/astrojobs/internal/baseline"
	"github.com/astrojobs/astrojobs/internal/differ"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted --output values.
var Formats = []string{string(FormatText), string(FormatJSON), string(FormatYAML)}

// ParseFormat maps a name to a Format. An empty name is text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid output format %q, must be one of %v", name, Formats)
}

// Report is the machine readable result for one category.
type Report struct {
	Category        string   `json:"category" yaml:"category"`
	Added           []string `json:"added" yaml:"added"`
	Removed         []string `json:"removed" yaml:"removed"`
	BaselineUpdated string   `json:"baseline_updated" yaml:"baseline_updated"`
}

// NewReport builds the Report for a diff of b against a fresh snapshot.
// BaselineUpdated is RFC 3339 in UTC, or empty when there was no baseline.
func NewReport(b baseline.Baseline, res differ.Result) Report {
	r := Report{
		Category: b.Category.String(),
		Added:    res.Added(),
		Removed:  res.Removed(),
	}
	if b.Exists && !b.UpdatedAt.IsZero() {
		r.BaselineUpdated = b.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return r
}

// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/astrojobs/astrojobs/internal/listing"
)

// Store kinds.
const (
	KindLocal = "local"
	KindS3    = "s3"
)

// Kinds lists the supported store kinds.
var Kinds = []string{KindLocal, KindS3}

// Baseline is the previously persisted snapshot for one category.
type Baseline struct {
	Category  listing.Category
	Lines     []string
	UpdatedAt time.Time
	Exists    bool
}

// Store loads and overwrites baselines.
type Store interface {
	Load(ctx context.Context, c listing.Category) (Baseline, error)
	Save(ctx context.Context, c listing.Category, lines []string) error
}

// Settings selects and configures a Store. MaxAttempts caps S3 request
// attempts; zero keeps the SDK default.
type Settings struct {
	Kind        string
	Dir         string
	Bucket      string
	Prefix      string
	Region      string
	Profile     string
	Endpoint    string
	MaxAttempts int
}

// ParseKind normalizes a store kind name. An empty name means local.
func ParseKind(name string) (string, error) {
	switch k := strings.ToLower(strings.TrimSpace(name)); k {
	case "":
		return KindLocal, nil
	case KindLocal, KindS3:
		return k, nil
	}
	return "", fmt.Errorf("unknown store %q, must be one of %v", name, Kinds)
}

// New builds the Store described by s. An empty Kind means local.
func New(ctx context.Context, s Settings) (Store, error) {
	kind, err := ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}

	if kind == KindS3 {
		return OpenS3(ctx, s)
	}
	dir, err := Dir(s.Dir)
	if err != nil {
		return nil, err
	}
	return NewLocal(dir)
}

// FileName returns the base name of the baseline file for c.
func FileName(c listing.Category) string {
	return "sav_" + c.String() + "_rumor_old.txt"
}

// WorkingFileName returns the base name of the working snapshot file for c.
func WorkingFileName(c listing.Category) string {
	return "sav_" + c.String() + "_rumor.txt"
}

// encode renders lines one per row with a trailing newline.
func encode(lines []string) []byte {
	if len(lines) == 0 {
		return []byte{}
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// decode splits stored content back into lines. CRLF endings are tolerated
// and a trailing newline does not produce an empty last line.
func decode(b []byte) []string {
	s := strings.ReplaceAll(string(b), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

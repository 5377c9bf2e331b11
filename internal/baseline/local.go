// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/astrojobs/astrojobs/internal/listing"
	"github.com/astrojobs/astrojobs/internal/log"
)

// lockRetry is how often a busy lock is polled.
const lockRetry = 100 * time.Millisecond

// Local keeps baselines as text files in a directory.
type Local struct {
	dir string
}

// NewLocal returns a Local store rooted at dir, creating it when needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the store directory.
func (l *Local) Dir() string {
	return l.dir
}

// Path returns the baseline file path for c.
func (l *Local) Path(c listing.Category) string {
	return filepath.Join(l.dir, FileName(c))
}

// WorkingPath returns the working snapshot file path for c.
func (l *Local) WorkingPath(c listing.Category) string {
	return filepath.Join(l.dir, WorkingFileName(c))
}

func (l *Local) lockPath(c listing.Category) string {
	return filepath.Join(l.dir, "sav_"+c.String()+".lock")
}

// Load reads the baseline for c. An absent file is created empty so the
// next run finds it.
func (l *Local) Load(ctx context.Context, c listing.Category) (Baseline, error) {
	if err := ctx.Err(); err != nil {
		return Baseline{}, err
	}

	b := Baseline{Category: c, Lines: []string{}}
	p := l.Path(c)

	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(p, nil, 0o644); err != nil { //nolint:mnd
			return b, fmt.Errorf("failed to create baseline: %w", err)
		}
		log.Debugf("created empty baseline: path=%s", p)
		return b, nil
	} else if err != nil {
		return b, fmt.Errorf("failed to stat baseline: %w", err)
	}
	if info.IsDir() {
		return b, fmt.Errorf("baseline %s is a directory", p)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return b, fmt.Errorf("failed to read baseline: %w", err)
	}

	b.Lines = decode(data)
	b.UpdatedAt = info.ModTime()
	b.Exists = true
	log.Debugf("loaded baseline: path=%s lines=%d", p, len(b.Lines))
	return b, nil
}

// Save writes lines to the working file and then copies it over the
// baseline. Both steps happen under the category lock.
func (l *Local) Save(ctx context.Context, c listing.Category, lines []string) error {
	lock := flock.New(l.lockPath(c))
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("failed to lock %s baseline: %w", c, err)
	}
	if !locked {
		return fmt.Errorf("failed to lock %s baseline", c)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.WithError(err).Warnf("failed to unlock %s", lock.Path())
		}
	}()

	working := l.WorkingPath(c)
	if err := os.WriteFile(working, encode(lines), 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := copyFile(working, l.Path(c)); err != nil {
		return fmt.Errorf("failed to update baseline: %w", err)
	}
	log.Debugf("saved baseline: category=%s lines=%d", c, len(lines))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644) //nolint:mnd
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

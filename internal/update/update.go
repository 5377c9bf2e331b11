// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

// Package update asks a package index whether a newer release exists.
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/go-version"
	"github.com/tidwall/gjson"

	"github.com/astrojobs/astrojobs/internal/config"
	"github.com/astrojobs/astrojobs/internal/log"
	ver "github.com/astrojobs/astrojobs/internal/version"
)

const (
	// DefaultURL is the Go module proxy endpoint for the latest release.
	DefaultURL = "https://proxy.golang.org/" + ver.Module + "/@latest"
	// DefaultPath is the gjson path of the version in the response.
	DefaultPath    = "Version"
	DefaultTimeout = time.Second
)

// options holds optional overrides for a Checker.
type options struct {
	url     string
	path    string
	timeout time.Duration
	current string
}

// Option customizes a Checker.
type Option func(*options)

// WithURL overrides the index endpoint.
func WithURL(u string) Option {
	return func(o *options) { o.url = u }
}

// WithPath overrides the gjson path of the version field.
func WithPath(p string) Option {
	return func(o *options) { o.path = p }
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithCurrent overrides the running version.
func WithCurrent(v string) Option {
	return func(o *options) { o.current = v }
}

// ConfigOptions returns the overrides found under update.* in the config
// file.
func ConfigOptions() []Option {
	var opts []Option
	if u, err := config.GetString("update.url"); err == nil && u != "" {
		opts = append(opts, WithURL(u))
	}
	if p, err := config.GetString("update.path"); err == nil && p != "" {
		opts = append(opts, WithPath(p))
	}
	if d, err := config.GetDuration("update.timeout", DefaultTimeout); err == nil {
		opts = append(opts, WithTimeout(d))
	}
	return opts
}

// Disabled reports whether the check is turned off through
// ASTROJOBS_NO_UPDATE_CHECK or update.disabled in the config file.
func Disabled() bool {
	switch strings.ToLower(os.Getenv("ASTROJOBS_NO_UPDATE_CHECK")) {
	case "", "0", "false":
	default:
		return true
	}
	disabled, _ := config.GetBool("update.disabled", false)
	return disabled
}

// Checker compares the running version with the latest published one.
type Checker struct {
	url     string
	path    string
	current string
	client  *retryablehttp.Client
}

// NewChecker returns a Checker. Requests are never retried so a slow index
// cannot hold up the CLI for longer than the timeout.
func NewChecker(opts ...Option) *Checker {
	o := options{
		url:     DefaultURL,
		path:    DefaultPath,
		timeout: DefaultTimeout,
		current: ver.Version,
	}
	for _, opt := range opts {
		opt(&o)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = log.Leveled{}
	client.HTTPClient.Timeout = o.timeout

	return &Checker{url: o.url, path: o.path, current: o.current, client: client}
}

// Latest fetches and parses the latest published version.
func (c *Checker) Latest(ctx context.Context) (*version.Version, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not JSON")
	}

	field := gjson.GetBytes(body, c.path)
	if !field.Exists() {
		return nil, fmt.Errorf("no %s in response", c.path)
	}
	return version.NewVersion(field.String())
}

// Check returns the latest version and true when it is newer than the
// running one. Every failure is logged and reported as not newer.
func (c *Checker) Check(ctx context.Context) (string, bool) {
	current, err := version.NewVersion(c.current)
	if err != nil {
		log.Debugf("update check skipped: current version %q: %v", c.current, err)
		return "", false
	}

	latest, err := c.Latest(ctx)
	if err != nil {
		log.Debugf("update check failed: %v", err)
		return "", false
	}

	log.Debugf("update check: current=%s latest=%s", current, latest)
	if !latest.GreaterThan(current) {
		return "", false
	}
	return latest.String(), true
}

// Message is the upgrade notice for version v.
func Message(v string) string {
	v = strings.TrimPrefix(v, "v")
	return fmt.Sprintf("A newer version of %s (v%s) is now available!\n"+
		"Please consider updating it by running:\n\n"+
		"go install %s@v%s", ver.Name, v, ver.Module, v)
}

// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package listing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/astrojobs/astrojobs/internal/log"
)

const (
	// DefaultBaseURL is the wiki hosting the Rumor Mill pages.
	DefaultBaseURL = "https://www.astrobetter.com/wiki/"
	// DefaultUserAgent is sent with every page request. The wiki rejects
	// the Go default agent.
	DefaultUserAgent = "Mozilla/5.0"
	DefaultRetries   = 2
	DefaultTimeout   = 30 * time.Second
)

// options holds optional overrides for a Source.
type options struct {
	baseURL   string
	userAgent string
	retries   int
	timeout   time.Duration
	columns   Columns
}

// Option customizes a Source.
type Option func(*options)

// WithBaseURL overrides the wiki base URL.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithColumns overrides the table column layout.
func WithColumns(c Columns) Option {
	return func(o *options) { o.columns = c }
}

// Source fetches and parses the Rumor Mill pages.
type Source struct {
	opts   options
	client *retryablehttp.Client
}

// NewSource returns a Source with defaults overridden by opts.
func NewSource(opts ...Option) *Source {
	o := options{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
		timeout:   DefaultTimeout,
		columns:   DefaultColumns,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.retries < 0 {
		o.retries = 0
	}
	log.Debugf("listing source: base=%s retries=%d timeout=%s", o.baseURL, o.retries, o.timeout)

	client := retryablehttp.NewClient()
	client.RetryMax = o.retries
	client.RetryWaitMin = 250 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = log.Leveled{}
	client.HTTPClient.Timeout = o.timeout

	return &Source{opts: o, client: client}
}

// URL returns the page URL for the category.
func (s *Source) URL(c Category) string {
	return strings.TrimSuffix(s.opts.baseURL, "/") + "/" + c.WikiPage()
}

// Fetch downloads the raw page for the category. Non-2xx responses are
// errors.
func (s *Source) Fetch(ctx context.Context, c Category) ([]byte, error) {
	u := s.URL(c)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.opts.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", u, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u, err)
	}
	log.Debugf("fetched %s: %d bytes", u, len(body))

	return body, nil
}

// Snapshot fetches and parses the category page.
func (s *Source) Snapshot(ctx context.Context, c Category) ([]string, error) {
	body, err := s.Fetch(ctx, c)
	if err != nil {
		return nil, err
	}

	lines, err := Parse(bytes.NewReader(body), s.opts.columns)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s page: %w", c, err)
	}
	return lines, nil
}

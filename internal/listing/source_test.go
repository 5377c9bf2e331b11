// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package listing

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apexlog "github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrojobs/astrojobs/internal/log"
)

const page = `<table>
<tr><td></td><td>Caltech</td><td></td><td>Oct 15</td></tr>
<tr><td></td><td>MIT</td><td></td><td>Nov 1</td></tr>
</table>`

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"postdoc", Postdoc, false},
		{" Faculty ", Faculty, false},
		{"staff", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryWikiPage(t *testing.T) {
	assert.Equal(t, "Rumor+Mill", Postdoc.WikiPage())
	assert.Equal(t, "Rumor+Mill+Faculty-Staff", Faculty.WikiPage())
	assert.Equal(t, []Category{Postdoc, Faculty}, Categories)
}

func TestSourceURL(t *testing.T) {
	s := NewSource()
	assert.Equal(t, "https://www.astrobetter.com/wiki/Rumor+Mill", s.URL(Postdoc))

	s = NewSource(WithBaseURL("http://localhost:8080/wiki"))
	assert.Equal(t, "http://localhost:8080/wiki/Rumor+Mill+Faculty-Staff", s.URL(Faculty))
}

func TestSourceSnapshot(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewSource(WithBaseURL(srv.URL+"/wiki/"), WithRetries(0))
	lines, err := s.Snapshot(context.Background(), Postdoc)
	require.NoError(t, err)

	assert.Equal(t, "/wiki/Rumor+Mill", gotPath)
	assert.Equal(t, DefaultUserAgent, gotAgent)
	assert.Equal(t, []string{"Caltech   ||  Oct 15", "MIT   ||  Nov 1"}, lines)
}

func TestSourceFetch_CustomUserAgent(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	s := NewSource(WithBaseURL(srv.URL), WithUserAgent("astrojobs-test"))
	_, err := s.Fetch(context.Background(), Faculty)
	require.NoError(t, err)
	assert.Equal(t, "astrojobs-test", gotAgent)
}

func TestSourceFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := NewSource(WithBaseURL(srv.URL), WithRetries(0))
	_, err := s.Fetch(context.Background(), Postdoc)
	assert.ErrorContains(t, err, "unexpected status 404")
}

func TestSourceFetch_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewSource(WithBaseURL(srv.URL), WithRetries(1))
	lines, err := s.Snapshot(context.Background(), Postdoc)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestSourceFetch_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSource(WithBaseURL(srv.URL), WithRetries(0))
	_, err := s.Fetch(context.Background(), Postdoc)
	assert.Error(t, err)
}

// TestSourceFetch_FailureLoggedOnce verifies retry attempts stay at debug so
// the caller's error is the only report at the default level.
func TestSourceFetch_FailureLoggedOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	prev := apexlog.Log
	apexlog.Log = &apexlog.Logger{Handler: log.NewHandler(&buf), Level: log.ParseLevel("")}
	t.Cleanup(func() { apexlog.Log = prev })

	s := NewSource(WithBaseURL(srv.URL), WithRetries(1))
	_, err := s.Fetch(context.Background(), Postdoc)
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestSourceFetch_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSource(WithBaseURL(srv.URL), WithRetries(0))
	_, err := s.Fetch(ctx, Postdoc)
	assert.ErrorIs(t, err, context.Canceled)
}

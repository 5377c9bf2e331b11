// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrojobs/astrojobs/internal/config"
	"github.com/astrojobs/astrojobs/internal/output"
)

// wiki serves fake Rumor Mill pages keyed by wiki page id.
type wiki struct {
	mu    sync.Mutex
	pages map[string][]string
	srv   *httptest.Server
}

func newWiki(t *testing.T) *wiki {
	t.Helper()
	w := &wiki{pages: map[string][]string{}}
	w.srv = httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		w.mu.Lock()
		rows, ok := w.pages[strings.TrimPrefix(r.URL.EscapedPath(), "/wiki/")]
		w.mu.Unlock()
		if !ok {
			http.NotFound(rw, r)
			return
		}

		var b strings.Builder
		b.WriteString("<html><body><table>\n<tr><th></th><th>Job</th><th></th><th>Deadline</th></tr>\n")
		for _, row := range rows {
			title, deadline, _ := strings.Cut(row, "|")
			fmt.Fprintf(&b, "<tr><td></td><td>%s</td><td></td><td>%s</td></tr>\n", title, deadline)
		}
		b.WriteString("</table></body></html>")
		_, _ = rw.Write([]byte(b.String()))
	}))
	t.Cleanup(w.srv.Close)
	return w
}

// set replaces the rows of a page. Each row is "title|deadline".
func (w *wiki) set(page string, rows ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pages[page] = rows
}

// isolateEnv keeps the developer's config and ASTROJOBS_* env out of the
// tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ASTROJOBS_CFG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	for _, k := range []string{"OUTPUT", "COLOR", "ALGORITHM", "DATA_DIR", "DRY_RUN", "STORE", "BUCKET", "PREFIX", "REGION", "PROFILE", "S3_ENDPOINT", "BASE_URL"} {
		unsetenv(t, "ASTROJOBS_"+k)
	}
	unsetenv(t, "NO_COLOR")
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
}

// unsetenv removes k for the duration of the test. Flag env sources treat a
// present but empty variable as set.
func unsetenv(t *testing.T, k string) {
	t.Helper()
	t.Setenv(k, "")
	require.NoError(t, os.Unsetenv(k))
}

// run executes the app and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	argv := append([]string{"astrojobs"}, args...)

	app, err := InitApp(context.Background(), argv)
	require.NoError(t, err)

	var out, errw bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errw

	err = app.Run(context.Background(), argv)
	return out.String(), errw.String(), err
}

type fixture struct {
	wiki *wiki
	dir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	isolateEnv(t)
	w := newWiki(t)
	w.set("Rumor+Mill", "Caltech|Oct 15", "MIT|Nov 1")
	w.set("Rumor+Mill+Faculty-Staff", "Harvard|Dec 1")
	return &fixture{wiki: w, dir: filepath.Join(t.TempDir(), "data")}
}

func (f *fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	base := []string{"--base-url", f.wiki.srv.URL + "/wiki/", "--data-dir", f.dir, "--color", "never"}
	return run(t, append(base, args...)...)
}

func (f *fixture) baseline(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(f.dir, name))
	require.NoError(t, err)
	return string(b)
}

// TestCheck_FirstRun verifies every listing is new on the first run and the
// baseline is written.
func TestCheck_FirstRun(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run(t, "-p")
	require.NoError(t, err)

	assert.Contains(t, out, "WARNING: The AAS Job Register (https://jobregister.aas.org)")
	assert.Contains(t, out, output.Rule+"\nNEW postdoc rumors\n"+output.Rule+"\n")
	assert.Contains(t, out, "Caltech   ||  Oct 15\nMIT   ||  Nov 1\npostdoc rumor mill check complete!\n\n")
	assert.NotContains(t, out, "faculty")

	assert.Equal(t, "Caltech   ||  Oct 15\nMIT   ||  Nov 1\n", f.baseline(t, "sav_postdoc_rumor_old.txt"))
	assert.Equal(t, "Caltech   ||  Oct 15\nMIT   ||  Nov 1\n", f.baseline(t, "sav_postdoc_rumor.txt"))
}

// TestCheck_SecondRunEmpty verifies a repeat run with the same page reports
// nothing.
func TestCheck_SecondRunEmpty(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run(t, "-p")
	require.NoError(t, err)

	out, _, err := f.run(t, "-p")
	require.NoError(t, err)
	assert.NotContains(t, out, "Caltech")
	assert.NotContains(t, out, "MIT")
	assert.Contains(t, out, "baseline from")
	assert.Contains(t, out, "postdoc rumor mill check complete!")
}

// TestCheck_Changes verifies removed and added listings are both reported
// and unchanged ones are not.
func TestCheck_Changes(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run(t, "-p")
	require.NoError(t, err)

	f.wiki.set("Rumor+Mill", "Caltech|Oct 15", "Princeton|Nov 5")
	out, _, err := f.run(t, "-p")
	require.NoError(t, err)

	assert.NotContains(t, out, "Caltech")
	assert.Contains(t, out, "MIT   ||  Nov 1\nPrinceton   ||  Nov 5\n")
	assert.Equal(t, "Caltech   ||  Oct 15\nPrinceton   ||  Nov 5\n", f.baseline(t, "sav_postdoc_rumor_old.txt"))
}

// TestCheck_Order verifies postdoc is reported before faculty no matter the
// flag order.
func TestCheck_Order(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run(t, "-f", "-p")
	require.NoError(t, err)

	postdoc := strings.Index(out, "NEW postdoc rumors")
	faculty := strings.Index(out, "NEW faculty rumors")
	require.NotEqual(t, -1, postdoc)
	require.NotEqual(t, -1, faculty)
	assert.Less(t, postdoc, faculty)
	assert.Equal(t, 2, strings.Count(out, "AAS Job Register"))
	assert.Contains(t, out, "Harvard   ||  Dec 1")
}

// TestCheck_DryRun verifies the baseline stays empty with --dry-run.
func TestCheck_DryRun(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run(t, "-p", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Caltech")
	assert.Empty(t, f.baseline(t, "sav_postdoc_rumor_old.txt"))

	out, _, err = f.run(t, "-p")
	require.NoError(t, err)
	assert.Contains(t, out, "Caltech")
}

// TestCheck_LCS verifies the alternative algorithm reports the same change
// set.
func TestCheck_LCS(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run(t, "-p", "--algorithm", "lcs")
	require.NoError(t, err)

	f.wiki.set("Rumor+Mill", "MIT|Nov 1", "Yale|Jan 9")
	out, _, err := f.run(t, "-p", "--algorithm", "lcs")
	require.NoError(t, err)
	assert.Contains(t, out, "Caltech   ||  Oct 15\n")
	assert.Contains(t, out, "Yale   ||  Jan 9\n")
	assert.NotContains(t, out, "MIT")
}

// TestCheck_JSON verifies one JSON document per category on stdout with the
// notices moved to stderr.
func TestCheck_JSON(t *testing.T) {
	f := newFixture(t)

	out, errOut, err := f.run(t, "-p", "-f", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, errOut, "AAS Job Register")

	var reports []output.Report
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var r output.Report
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r), sc.Text())
		reports = append(reports, r)
	}
	require.Len(t, reports, 2)
	assert.Equal(t, "postdoc", reports[0].Category)
	assert.Equal(t, []string{"Caltech   ||  Oct 15", "MIT   ||  Nov 1"}, reports[0].Added)
	assert.Empty(t, reports[0].Removed)
	assert.Empty(t, reports[0].BaselineUpdated)
	assert.Equal(t, "faculty", reports[1].Category)
}

// TestCheck_FetchError verifies a failed fetch fails the run and leaves the
// baseline alone.
func TestCheck_FetchError(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run(t, "-p")
	require.NoError(t, err)

	f.wiki.mu.Lock()
	delete(f.wiki.pages, "Rumor+Mill")
	f.wiki.mu.Unlock()

	_, _, err = f.run(t, "-p")
	assert.ErrorContains(t, err, "failed to check postdoc rumor mill")
	assert.ErrorContains(t, err, "404")
	assert.Equal(t, "Caltech   ||  Oct 15\nMIT   ||  Nov 1\n", f.baseline(t, "sav_postdoc_rumor_old.txt"))
}

// TestCheck_NoCategory verifies nothing is fetched or printed without -p/-f.
func TestCheck_NoCategory(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run(t)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, statErr := os.Stat(f.dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheck_FlagValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad output", []string{"-p", "-o", "raw"}, "must be one of"},
		{"bad color", []string{"-p", "--color", "pink"}, "must be one of"},
		{"bad algorithm", []string{"-p", "--algorithm", "myers"}, "must be one of"},
		{"bad store", []string{"-p", "--store", "ftp"}, "must be one of"},
		{"s3 without bucket", []string{"-p", "--store", "s3"}, "--store s3 requires --bucket"},
		{"S3 without bucket", []string{"-p", "--store", "S3"}, "--store s3 requires --bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			_, _, err := run(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

// TestCheck_ConfigFile verifies flags pick up values from the config file
// and that the command line still wins.
func TestCheck_ConfigFile(t *testing.T) {
	f := newFixture(t)

	cfg := filepath.Join(t.TempDir(), "astrojobs.yaml")
	body := fmt.Sprintf("output: json\ndata_dir: %s\nlisting:\n  base_url: %s/wiki/\n", f.dir, f.wiki.srv.URL)
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))
	t.Setenv("ASTROJOBS_CFG_FILE", cfg)
	config.Config = config.Type{}

	out, _, err := run(t, "-p")
	require.NoError(t, err)
	var r output.Report
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &r))
	assert.Equal(t, "postdoc", r.Category)
	assert.Contains(t, f.baseline(t, "sav_postdoc_rumor_old.txt"), "Caltech")

	out, _, err = run(t, "-p", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "NEW postdoc rumors")
}

// TestCheck_EnvVars verifies ASTROJOBS_* env vars feed the flags.
func TestCheck_EnvVars(t *testing.T) {
	f := newFixture(t)
	t.Setenv("ASTROJOBS_OUTPUT", "yaml")
	t.Setenv("ASTROJOBS_DATA_DIR", f.dir)
	t.Setenv("ASTROJOBS_BASE_URL", f.wiki.srv.URL+"/wiki/")

	out, _, err := run(t, "-f")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "---\ncategory: faculty\n"), out)
}

// TestCheck_ListingConfig verifies listing overrides from the config file.
func TestCheck_ListingConfig(t *testing.T) {
	f := newFixture(t)

	cfg := filepath.Join(t.TempDir(), "astrojobs.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("listing:\n  columns:\n    title: 3\n    deadline: 1\n"), 0o600))
	t.Setenv("ASTROJOBS_CFG_FILE", cfg)
	config.Config = config.Type{}

	out, _, err := f.run(t, "-f")
	require.NoError(t, err)
	assert.Contains(t, out, "Dec 1   ||  Harvard")
}

func TestCompletion(t *testing.T) {
	isolateEnv(t)

	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _astrojobs astrojobs")

	out, _, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef astrojobs")

	t.Setenv("SHELL", "/bin/fish")
	_, _, err = run(t, "completion")
	assert.ErrorContains(t, err, "usage: astrojobs completion")
}

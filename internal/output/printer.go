// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"

	"github.com/astrojobs/astrojobs/internal/baseline"
	"github.com/astrojobs/astrojobs/internal/differ"
	"github.com/astrojobs/astrojobs/internal/listing"
	"github.com/astrojobs/astrojobs/internal/log"
)

// Rule is the separator line framing every banner.
const Rule = "======================================================="

// Printer writes reports and notices. Reports go to Out. Notices go to Out
// in text mode and to Err otherwise, so json and yaml stay parseable.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format Format

	now     func() time.Time
	added   lipgloss.Style
	removed lipgloss.Style
	notice  lipgloss.Style
	faint   lipgloss.Style
	box     lipgloss.Style
}

// NewPrinter returns a Printer writing to out (stdout if nil) with colors
// chosen by mode.
func NewPrinter(out io.Writer, format Format, mode ColorMode) *Printer {
	if out == nil {
		out = os.Stdout
	}

	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(Profile(mode, out))
	colors := loadPalette()

	line := r.NewStyle().TabWidth(lipgloss.NoTabConversion)

	return &Printer{
		Out:     out,
		Err:     os.Stderr,
		Format:  format,
		now:     time.Now,
		added:   line.Foreground(colors.added),
		removed: line.Foreground(colors.removed),
		notice:  line.Foreground(colors.notice),
		faint:   line.Faint(true),
		box:     r.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	}
}

func (p *Printer) noticeWriter() io.Writer {
	if p.Format == FormatText || p.Err == nil {
		return p.Out
	}
	return p.Err
}

// Title prints the banner shown above the help text.
func (p *Printer) Title() {
	w := p.noticeWriter()
	fmt.Fprintln(w, Rule)
	fmt.Fprintln(w, "astrojobs: get astro job/rumor updates in terminal since last check")
	fmt.Fprintln(w, Rule)
	fmt.Fprintln(w)
}

// RegisterNotice prints the warning that the AAS Job Register cannot be
// checked.
func (p *Printer) RegisterNotice() {
	w := p.noticeWriter()
	fmt.Fprintln(w, p.notice.Render("WARNING: The AAS Job Register ("+listing.JobRegisterURL+") is currently protected by Cloudflare and cannot be scraped by this tool."))
	fmt.Fprintln(w, p.notice.Render("Please visit the website directly to check for updates."))
	fmt.Fprintln(w, Rule)
	fmt.Fprintln(w)
}

// Box prints msg inside a bordered frame.
func (p *Printer) Box(msg string) {
	fmt.Fprintln(p.noticeWriter(), p.box.Render(strings.TrimRight(msg, "\n")))
}

// Report prints the diff of b against a fresh snapshot for one category.
func (p *Printer) Report(b baseline.Baseline, res differ.Result) error {
	switch p.Format {
	case FormatJSON:
		out, err := json.Marshal(NewReport(b, res))
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(p.Out, string(out))
		return err
	case FormatYAML:
		out, err := yaml.Marshal(NewReport(b, res))
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintf(p.Out, "---\n%s", out)
		return err
	}

	p.text(b, res)
	return nil
}

func (p *Printer) text(b baseline.Baseline, res differ.Result) {
	w := p.Out
	c := b.Category

	fmt.Fprintln(w, Rule)
	fmt.Fprintln(w, "NEW "+c.String()+" rumors")
	fmt.Fprintln(w, Rule)

	if b.Exists && !b.UpdatedAt.IsZero() {
		fmt.Fprintln(w, p.faint.Render("baseline from "+humanize.RelTime(b.UpdatedAt, p.now(), "ago", "from now")))
	}

	for _, l := range res.Lines {
		switch l.Op {
		case differ.Added:
			fmt.Fprintln(w, p.added.Render(l.Text))
		case differ.Removed:
			fmt.Fprintln(w, p.removed.Render(l.Text))
		}
	}
	log.Debugf("reported %s: %s", c, res.Summary())

	fmt.Fprintln(w, c.String()+" rumor mill check complete!")
	fmt.Fprintln(w)
}

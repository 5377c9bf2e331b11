// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/astrojobs/astrojobs/internal/log"
)

// EntrySeparator joins a posting's title and deadline in a snapshot line.
const EntrySeparator = "   ||  "

// cellBreak replaces line breaks inside a cell.
const cellBreak = "   "

// Columns holds the zero-based td indexes of the title and deadline cells.
// The Rumor Mill tables have four columns: empty, job title, empty, deadline.
type Columns struct {
	Title    int
	Deadline int
}

// DefaultColumns matches the current Rumor Mill table layout.
var DefaultColumns = Columns{Title: 1, Deadline: 3}

// Validate rejects negative indexes.
func (c Columns) Validate() error {
	if c.Title < 0 || c.Deadline < 0 {
		return fmt.Errorf("invalid columns: title=%d deadline=%d", c.Title, c.Deadline)
	}
	return nil
}

func (c Columns) width() int {
	return max(c.Title, c.Deadline) + 1
}

// Parse walks every table row of the page and returns one snapshot line per
// row that has enough td cells. Header rows (th only), short rows and rows
// whose title and deadline are both blank are skipped.
func Parse(r io.Reader, cols Columns) ([]string, error) {
	if err := cols.Validate(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Line breaks become newlines so CellText can fold them.
	doc.Find("td br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})

	lines := []string{}
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < cols.width() {
			log.Tracef("skipping row %d: %d cells", i, cells.Length())
			return
		}

		title := CellText(cells.Eq(cols.Title))
		deadline := CellText(cells.Eq(cols.Deadline))
		if title == "" && deadline == "" {
			return
		}

		lines = append(lines, FormatEntry(title, deadline))
	})

	if len(lines) == 0 {
		log.Warnf("no listing rows found")
	}
	log.Debugf("parsed %d listing rows", len(lines))

	return lines, nil
}

// CellText returns the visible text of a cell with surrounding blanks
// trimmed and inner line breaks folded into wide spaces.
func CellText(cell *goquery.Selection) string {
	var parts []string
	for _, piece := range strings.Split(cell.Text(), "\n") {
		if p := strings.TrimSpace(piece); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, cellBreak)
}

// FormatEntry builds a snapshot line.
func FormatEntry(title, deadline string) string {
	return title + EntrySeparator + deadline
}

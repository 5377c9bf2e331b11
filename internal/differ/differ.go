// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	lcs "github.com/yudai/golcs"

	"github.com/astrojobs/astrojobs/internal/log"
)

// Op tags a diff line.
type Op int

const (
	Equal Op = iota
	Removed
	Added
)

// String returns the lowercase name of the op.
func (o Op) String() string {
	switch o {
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "equal"
	}
}

// Symbol returns the ndiff-style prefix for the op.
func (o Op) Symbol() string {
	switch o {
	case Removed:
		return "-"
	case Added:
		return "+"
	default:
		return " "
	}
}

// Line is a single tagged line of a diff.
type Line struct {
	Op   Op
	Text string
}

// Result is the ordered outcome of a diff. Lines follow the alignment order
// of the algorithm that produced them: within a changed region removals come
// before additions.
type Result struct {
	Lines []Line
}

// Added returns the lines present only in the new snapshot.
func (r Result) Added() []string {
	return r.texts(Added)
}

// Removed returns the lines present only in the old snapshot.
func (r Result) Removed() []string {
	return r.texts(Removed)
}

// Unchanged returns the lines common to both snapshots.
func (r Result) Unchanged() []string {
	return r.texts(Equal)
}

// Changed reports whether anything was added or removed.
func (r Result) Changed() bool {
	for _, l := range r.Lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Changes returns only the added and removed lines, in diff order.
func (r Result) Changes() []Line {
	var changes []Line
	for _, l := range r.Lines {
		if l.Op != Equal {
			changes = append(changes, l)
		}
	}
	return changes
}

// Summary returns a short human readable count of the changes.
func (r Result) Summary() string {
	return fmt.Sprintf("%d added, %d removed", len(r.Added()), len(r.Removed()))
}

func (r Result) texts(op Op) []string {
	texts := []string{}
	for _, l := range r.Lines {
		if l.Op == op {
			texts = append(texts, l.Text)
		}
	}
	return texts
}

func (r *Result) append(op Op, lines []string) {
	for _, l := range lines {
		r.Lines = append(r.Lines, Line{Op: op, Text: l})
	}
}

// Algorithm selects the sequence alignment used by Diff.
type Algorithm string

const (
	// Difflib aligns with Ratcliff/Obershelp sequence matching.
	Difflib Algorithm = "difflib"
	// LCS aligns on a longest common subsequence.
	LCS Algorithm = "lcs"
)

// Algorithms lists the accepted algorithm names.
var Algorithms = []string{string(Difflib), string(LCS)}

// ParseAlgorithm maps a name to an Algorithm. The empty string selects
// Difflib.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", Difflib:
		return Difflib, nil
	case LCS:
		return LCS, nil
	}
	return "", fmt.Errorf("unknown diff algorithm %q, must be one of %v", name, Algorithms)
}

// Diff compares the old and new snapshots line by line.
func Diff(oldLines, newLines []string, alg Algorithm) Result {
	log.Debugf(">> differ.Diff(): old=%d new=%d alg=%s", len(oldLines), len(newLines), alg)

	var res Result
	switch alg {
	case LCS:
		res = diffLCS(oldLines, newLines)
	default:
		res = diffMatcher(oldLines, newLines)
	}

	log.Debugf("diff result: %s", res.Summary())
	return res
}

// diffMatcher walks the SequenceMatcher op-codes. Autojunk is off so that
// frequent lines in long listings still take part in the alignment.
func diffMatcher(oldLines, newLines []string) (res Result) {
	m := difflib.NewMatcherWithJunk(oldLines, newLines, false, nil)

	for _, oc := range m.GetOpCodes() {
		switch oc.Tag {
		case 'e':
			res.append(Equal, oldLines[oc.I1:oc.I2])
		case 'd':
			res.append(Removed, oldLines[oc.I1:oc.I2])
		case 'i':
			res.append(Added, newLines[oc.J1:oc.J2])
		case 'r':
			res.append(Removed, oldLines[oc.I1:oc.I2])
			res.append(Added, newLines[oc.J1:oc.J2])
		}
	}

	return
}

func diffLCS(oldLines, newLines []string) (res Result) {
	if len(oldLines) == 0 || len(newLines) == 0 {
		res.append(Removed, oldLines)
		res.append(Added, newLines)
		return
	}

	left := make([]interface{}, len(oldLines))
	for i, l := range oldLines {
		left[i] = l
	}
	right := make([]interface{}, len(newLines))
	for i, l := range newLines {
		right[i] = l
	}

	i, j := 0, 0
	for _, pair := range lcs.New(left, right).IndexPairs() {
		res.append(Removed, oldLines[i:pair.Left])
		res.append(Added, newLines[j:pair.Right])
		res.append(Equal, oldLines[pair.Left:pair.Left+1])
		i, j = pair.Left+1, pair.Right+1
	}
	res.append(Removed, oldLines[i:])
	res.append(Added, newLines[j:])

	return
}

// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/astrojobs/astrojobs/internal/config"
)

// ColorMode controls when ANSI colors are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ColorModes lists the accepted --color values.
var ColorModes = []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}

// ParseColorMode maps a name to a ColorMode. An empty name is auto.
func ParseColorMode(name string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q, must be one of %v", name, ColorModes)
}

// Profile resolves the terminal color profile for w. NO_COLOR always wins.
// In auto mode colors are only used when w is a terminal.
func Profile(mode ColorMode, w io.Writer) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}

	switch mode {
	case ColorAlways:
		return termenv.ANSI
	case ColorNever:
		return termenv.Ascii
	}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return termenv.ANSI
	}
	return termenv.Ascii
}

// palette holds the foreground colors used by the printer. The defaults are
// the basic ANSI green, red and yellow. Each can be overridden in the config
// file under colors.added, colors.removed and colors.notice.
type palette struct {
	added   lipgloss.Color
	removed lipgloss.Color
	notice  lipgloss.Color
}

func loadPalette() palette {
	resolve := func(key, fallback string) lipgloss.Color {
		if c, err := config.GetString("colors."+key); err == nil && c != "" {
			return lipgloss.Color(c)
		}
		return lipgloss.Color(fallback)
	}

	return palette{
		added:   resolve("added", "2"),
		removed: resolve("removed", "1"),
		notice:  resolve("notice", "3"),
	}
}

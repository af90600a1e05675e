package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	maxContentWidth = 72
	minContentWidth = 24
)

// contentWidth is the width of the centered card for a terminal of width w.
func contentWidth(w int) int {
	if w <= 0 {
		return maxContentWidth
	}
	cw := w - 4
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	if cw < minContentWidth {
		cw = minContentWidth
	}
	return cw
}

// fitLine forces s to exactly width columns (ANSI-aware), cutting with an
// ellipsis or padding with spaces.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	w := xansi.StringWidth(s)
	if w > width {
		if width == 1 {
			return xansi.Cut(s, 0, 1)
		}
		s = xansi.Cut(s, 0, width-1) + "…"
		w = xansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// normalizePane forces s to be exactly width columns wide and height lines tall.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i := range lines {
		lines[i] = fitLine(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// centerScreen places block in the middle of a w x h terminal. Unknown sizes
// return the block unchanged.
func centerScreen(block string, w, h int) string {
	if w <= 0 || h <= 0 {
		return block
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, block)
}

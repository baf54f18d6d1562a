package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitLine forces s to exactly width columns (ANSI-aware), truncating with an
// ellipsis.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := xansi.StringWidth(s)
	if w > width {
		if width == 1 {
			return xansi.Cut(s, 0, 1)
		}
		s = xansi.Truncate(s, width, "…")
		w = xansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// clipLines keeps the window of lines [offset, offset+height).
func clipLines(lines []string, offset, height int) []string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(lines) {
		offset = len(lines)
	}
	end := offset + height
	if height <= 0 || end > len(lines) {
		end = len(lines)
	}
	return lines[offset:end]
}

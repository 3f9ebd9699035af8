// Package overlay draws a box on top of an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Place draws box over base with its top-left corner at column x, row y.
// Both are ANSI-aware; cells of base outside the box are kept as they are.
// Box lines falling outside base are clipped.
func Place(base, box string, x, y, width int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(box, "\n") {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		baseLines[row] = placeLine(baseLines[row], line, x, width)
	}
	return strings.Join(baseLines, "\n")
}

func placeLine(base, line string, x, width int) string {
	if x >= width {
		return base
	}
	line = ansi.Truncate(line, width-max(x, 0), "")
	end := x + ansi.StringWidth(line)

	if w := ansi.StringWidth(base); w < width {
		base += strings.Repeat(" ", width-w)
	}
	result := ansi.Cut(base, 0, x) + line
	if end < width {
		result += ansi.Cut(base, end, width)
	}
	return result
}

// Center places box in the middle of a width×height base. It reports false,
// leaving base untouched, when the box does not fit.
func Center(base, box string, width, height int) (string, bool) {
	bw := 0
	lines := strings.Split(box, "\n")
	for _, l := range lines {
		bw = max(bw, ansi.StringWidth(l))
	}
	bh := len(lines)
	if bw > width || bh > height {
		return base, false
	}
	return Place(base, box, (width-bw)/2, (height-bh)/2, width), true
}

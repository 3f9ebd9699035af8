// Package render provides text layout helpers for the player surfaces.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Sanitize removes control characters (except tab) and invalid UTF-8 bytes.
// Titles come from file names and container metadata and may contain either.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			i++
			continue
		case r != '\t' && unicode.IsControl(r):
		case r == '\u00a0':
			b.WriteByte(' ')
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// needsSanitize returns true if the string contains bytes that need sanitizing.
func needsSanitize(s string) bool {
	for i := range len(s) {
		b := s[i]
		if b < 0x20 && b != '\t' {
			return true
		}
		if b >= 0x80 && b <= 0x9f {
			return true
		}
		if b == 0xc2 && i+1 < len(s) && s[i+1] == 0xa0 {
			return true
		}
	}
	return !utf8.ValidString(s)
}

// Fit sanitizes s and shortens it to maxWidth cells, ending with "…" when
// truncated.
func Fit(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, "…")
}

// Center fits s into width cells and pads it on both sides.
func Center(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = Fit(s, width)
	left := (width - runewidth.StringWidth(s)) / 2
	return runewidth.FillRight(strings.Repeat(" ", left)+s, width)
}

// Row creates a row with left and right aligned content separated by spaces.
// The total width of the output will be exactly width characters unless the
// two parts do not fit.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Blank returns a line of width spaces.
func Blank(width int) string {
	return strings.Repeat(" ", max(width, 0))
}

// Package playerbar lays out and renders the controls row shared by the
// embedded and fullscreen surfaces: play/pause button, elapsed time, progress
// bar, total time and fullscreen button.
package playerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/capability"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

const (
	playSymbol           = "▶"
	pauseSymbol          = "‖"
	enterFullscreenGlyph = "⤢"
	exitFullscreenGlyph  = "⤡"

	gap         = "  "
	minBarWidth = 3
)

// Span is a horizontal cell range on the controls row. A zero Width means
// the element is not shown.
type Span struct {
	X, Width int
}

// Contains reports whether column x falls inside the span.
func (s Span) Contains(x int) bool {
	return s.Width > 0 && x >= s.X && x < s.X+s.Width
}

// Layout is the geometry of one controls row. It is used both to render the
// row and to map mouse columns back to controls.
type Layout struct {
	Width      int
	Play       Span
	Bar        Span
	Fullscreen Span

	status  string
	current string
	total   string
	fsGlyph string
	filled  int
	compact bool // times shown as "cur / total" without a bar
}

// NewLayout computes the controls row for snap. Only controls enabled in caps
// are laid out.
func NewLayout(snap playback.Snapshot, caps capability.Set, width int, fullscreen bool) Layout {
	l := Layout{Width: width}

	x := 1
	if caps.Has(capability.PlayPause) {
		l.status = playSymbol
		if snap.Playing {
			l.status = pauseSymbol
		}
		l.Play = Span{X: x, Width: lipgloss.Width(l.status)}
		x += l.Play.Width + len(gap)
	}

	right := 1
	if caps.Has(capability.Fullscreen) {
		l.fsGlyph = enterFullscreenGlyph
		if fullscreen {
			l.fsGlyph = exitFullscreenGlyph
		}
		fw := lipgloss.Width(l.fsGlyph)
		l.Fullscreen = Span{X: width - right - fw, Width: fw}
		right += fw + len(gap)
	}

	if !caps.Has(capability.Seek) {
		return l
	}

	l.current = snap.CurrentTime
	l.total = snap.TotalTime
	timesWidth := lipgloss.Width(l.current) + lipgloss.Width(l.total) + 2
	barWidth := width - x - right - timesWidth
	if barWidth < minBarWidth {
		l.compact = true
		return l
	}

	l.Bar = Span{X: x + lipgloss.Width(l.current) + 1, Width: barWidth}
	l.filled = min(int(float64(barWidth)*snap.Progress), barWidth)
	return l
}

// FractionAt maps column x to a position on the bar in [0,1]. Columns left
// or right of the bar map to its ends.
func (l Layout) FractionAt(x int) float64 {
	if l.Bar.Width <= 1 {
		return 0
	}
	f := float64(x-l.Bar.X) / float64(l.Bar.Width-1)
	return min(max(f, 0), 1)
}

// Render draws the row with st. The result is exactly l.Width cells wide
// unless the row is too narrow for its buttons.
func (l Layout) Render(st styles.Styles) string {
	var b strings.Builder
	b.WriteString(" ")
	if l.Play.Width > 0 {
		b.WriteString(st.Control.Render(l.status))
		b.WriteString(gap)
	}

	switch {
	case l.Bar.Width > 0:
		b.WriteString(st.Time.Render(l.current))
		b.WriteString(" ")
		b.WriteString(st.Bar(l.filled, l.Bar.Width))
		b.WriteString(" ")
		b.WriteString(st.Time.Render(l.total))
	case l.compact:
		b.WriteString(st.Time.Render(l.current + " / " + l.total))
	}

	left := b.String()
	if l.Fullscreen.Width == 0 {
		return render.Row(left, "", l.Width)
	}
	return render.Row(left, st.Control.Render(l.fsGlyph)+" ", l.Width)
}

// Package styles turns a capability.Theme into the lipgloss styles used by
// the player surfaces.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/llehouerou/reel/internal/capability"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
)

// Styles contains pre-built lipgloss styles for one theme.
type Styles struct {
	Background lipgloss.Style // media area
	Title      lipgloss.Style
	Control    lipgloss.Style // play/pause and fullscreen buttons
	Time       lipgloss.Style
	Track      lipgloss.Style // unfilled part of the progress bar
	Muted      lipgloss.Style
	Error      lipgloss.Style
	Panel      lipgloss.Style // border around the embedded surface

	tint  colorful.Color
	start colorful.Color
}

// New builds the styles for t.
func New(t capability.Theme) Styles {
	bg := lipgloss.Color(t.BackgroundHex())
	if t.Background == capability.BackgroundBlurred {
		bg = lipgloss.Color(t.BlurredHex())
	}
	tint := lipgloss.Color(t.TintHex())
	track := lipgloss.Color(t.TrackHex())

	start, err := colorful.Hex(t.TrackHex())
	if err != nil {
		start = t.Tint
	}

	return Styles{
		Background: lipgloss.NewStyle().Background(bg).Foreground(track),
		Title:      lipgloss.NewStyle().Foreground(tint).Bold(true),
		Control:    lipgloss.NewStyle().Foreground(tint).Bold(true),
		Time:       lipgloss.NewStyle().Foreground(tint),
		Track:      lipgloss.NewStyle().Foreground(track),
		Muted:      lipgloss.NewStyle().Foreground(track),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555")),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(track),
		tint:  t.Tint,
		start: start,
	}
}

// Bar renders a progress bar of width cells with filled cells lit by a
// gradient towards the tint.
func (s Styles) Bar(filled, width int) string {
	filled = min(max(filled, 0), width)
	return Gradient(strings.Repeat(filledBlock, filled), s.start, s.tint) +
		s.Track.Render(strings.Repeat(emptyBlock, width-filled))
}

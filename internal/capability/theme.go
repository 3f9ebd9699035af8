package capability

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Background selects how the area behind the media is drawn.
type Background int

const (
	BackgroundPlain Background = iota
	BackgroundBlurred
)

// String returns the background name.
func (b Background) String() string {
	switch b {
	case BackgroundPlain:
		return "plain"
	case BackgroundBlurred:
		return "blurred"
	default:
		return "unknown"
	}
}

// ParseBackground maps a config value to a Background. Empty means plain.
func ParseBackground(s string) (Background, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return BackgroundPlain, nil
	case "blurred", "blur":
		return BackgroundBlurred, nil
	default:
		return BackgroundPlain, fmt.Errorf("unknown background style %q", s)
	}
}

// trackAlpha is the weight of the tint in the unfilled part of a progress bar.
const trackAlpha = 0.3

// Theme is opaque styling data consumed by the surfaces.
type Theme struct {
	Background      Background
	BackgroundColor colorful.Color
	Tint            colorful.Color
}

// DefaultTheme is a plain black background with white controls.
func DefaultTheme() Theme {
	return Theme{
		Background:      BackgroundPlain,
		BackgroundColor: colorful.Color{R: 0, G: 0, B: 0},
		Tint:            colorful.Color{R: 1, G: 1, B: 1},
	}
}

// ParseColor parses a "#rrggbb" colour.
func ParseColor(hex string) (colorful.Color, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse colour %q: %w", hex, err)
	}
	return c, nil
}

// TintHex returns the control colour as "#rrggbb".
func (t Theme) TintHex() string {
	return t.Tint.Hex()
}

// BackgroundHex returns the background colour as "#rrggbb".
func (t Theme) BackgroundHex() string {
	return t.BackgroundColor.Hex()
}

// TrackHex returns the colour of the unfilled progress track: the tint faded
// towards the background.
func (t Theme) TrackHex() string {
	return t.BackgroundColor.BlendRgb(t.Tint, trackAlpha).Clamped().Hex()
}

// BlurredHex returns the background used when Background is blurred: the
// configured background lifted towards the tint.
func (t Theme) BlurredHex() string {
	return t.BackgroundColor.BlendLab(t.Tint, 0.12).Clamped().Hex()
}

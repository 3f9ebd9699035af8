package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient renders text with a horizontal colour gradient from one colour to
// the other, one grapheme cluster at a time.
func Gradient(text string, from, to colorful.Color) string {
	if text == "" {
		return ""
	}

	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	colors := blendColors(len(clusters), from, to)

	var b strings.Builder
	for i, cluster := range clusters {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i].Clamped().Hex()))
		b.WriteString(style.Render(cluster))
	}
	return b.String()
}

// blendColors returns size colours blended between from and to.
// Blending is done in HCL color space for perceptually uniform transitions.
func blendColors(size int, from, to colorful.Color) []colorful.Color {
	if size < 2 {
		return []colorful.Color{to}
	}

	colors := make([]colorful.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		colors[i] = from.BlendHcl(to, t)
	}
	return colors
}

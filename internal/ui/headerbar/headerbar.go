// internal/ui/headerbar/headerbar.go
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

const brand = " reel"

// minWidth is the narrowest width that still fits a title.
const minWidth = 20

// Render returns the header bar for the given width: the brand on the left,
// title centered and status on the right. The title is dropped or truncated
// before the status.
func Render(s styles.Styles, title, status string, width int) string {
	if width <= 0 {
		return ""
	}
	left := s.Title.Render(brand)
	right := ""
	if status != "" {
		right = s.Muted.Render(status + " ")
	}
	if width < minWidth {
		return render.Row(left, "", width)
	}

	lw, rw := lipgloss.Width(left), lipgloss.Width(right)
	if lw+rw > width {
		return render.Row(left, "", width)
	}

	// Centered on the full width, clear of both sides by one cell.
	room := width - 2*max(lw, rw) - 2
	if room <= 0 || title == "" {
		return render.Row(left, right, width)
	}
	title = render.Fit(title, room)
	tw := lipgloss.Width(title)
	pad := (width - tw) / 2

	var b strings.Builder
	b.WriteString(left)
	b.WriteString(strings.Repeat(" ", pad-lw))
	b.WriteString(s.Time.Render(title))
	b.WriteString(strings.Repeat(" ", width-pad-tw-rw))
	b.WriteString(right)
	return b.String()
}

// internal/app/view.go
package app

import (
	"strings"

	"github.com/llehouerou/reel/internal/ui/headerbar"
	"github.com/llehouerou/reel/internal/ui/render"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.isFull {
		return m.fullscreen.View()
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.styles.Panel.Render(m.embedded.View()))
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) header() string {
	title := ""
	if m.snap.HasItem() {
		title = m.snap.Item.DisplayTitle()
	}
	return headerbar.Render(m.styles, title, m.snap.Status.String(), m.width)
}

func (m *Model) footer() string {
	switch {
	case m.errorMsg != "":
		return m.styles.Error.Render(render.Fit(" "+m.errorMsg, m.width))
	case m.status != "":
		return m.styles.Muted.Render(render.Fit(" "+m.status, m.width))
	default:
		return ""
	}
}

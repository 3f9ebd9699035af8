// Package surface implements the two presentation surfaces of the player:
// an embedded view and a fullscreen view. Both render the same playback
// snapshot and send every command through a Player; neither holds playback
// state of its own.
package surface

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/reel/internal/capability"
	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/ui/overlay"
	"github.com/llehouerou/reel/internal/ui/playerbar"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

// Mode selects the surface variant.
type Mode int

const (
	Embedded Mode = iota
	Fullscreen
)

const (
	seekStep     = 5 * time.Second
	seekStepLong = 30 * time.Second

	// HideAfter is the inactivity delay before fullscreen controls hide.
	HideAfter = 4 * time.Second
)

// Player is the playback handle a surface drives. playback.Controller
// satisfies it.
type Player interface {
	Play()
	Pause()
	Toggle()
	SeekToFraction(f float64)
	SeekTo(pos time.Duration)
	SeekBy(delta time.Duration)
	Snapshot() playback.Snapshot
}

// Model is one surface.
type Model struct {
	width, rows int

	player Player
	mode   Mode
	caps   capability.Set
	styles styles.Styles
	keys   *keymap.Resolver
	help   help.Model

	snap            playback.Snapshot
	caption         string
	controlsVisible bool
	hideSeq         int
	dragging        bool
}

// New creates a surface of the given mode. Only controls enabled in caps
// are shown or reachable from the keyboard.
func New(player Player, mode Mode, caps capability.Set, theme capability.Theme) *Model {
	st := styles.New(theme)
	h := help.New()
	h.Styles.ShortKey = st.Time
	h.Styles.ShortDesc = st.Muted
	h.Styles.FullKey = st.Time
	h.Styles.FullDesc = st.Muted

	return &Model{
		player:          player,
		mode:            mode,
		caps:            caps,
		styles:          st,
		keys:            keymap.ForCapabilities(caps),
		help:            h,
		snap:            player.Snapshot(),
		controlsVisible: true,
	}
}

// Init starts the auto-hide timer in fullscreen mode.
func (m *Model) Init() tea.Cmd {
	if m.mode == Fullscreen {
		return m.showControls()
	}
	return nil
}

// Mode returns the surface variant.
func (m *Model) Mode() Mode { return m.mode }

// ControlsVisible reports whether the controls overlay is drawn.
func (m *Model) ControlsVisible() bool { return m.controlsVisible }

// SetSnapshot replaces the state the surface renders.
func (m *Model) SetSnapshot(s playback.Snapshot) {
	m.snap = s
}

// SetCaption sets the text drawn in the media area, for example where the
// video window is.
func (m *Model) SetCaption(s string) {
	m.caption = s
}

// SetSize sets the surface dimensions.
func (m *Model) SetSize(width, height int) {
	m.width, m.rows = width, height
	m.help.Width = max(width-1, 0)
}

// Update handles key presses, mouse input and the hide timer. Mouse
// coordinates must be relative to the surface.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case hideControlsMsg:
		if msg.seq == m.hideSeq && m.mode == Fullscreen && !m.dragging {
			m.controlsVisible = false
		}
		return nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmds []tea.Cmd
	if m.mode == Fullscreen {
		cmds = append(cmds, m.showControls())
	}

	key := msg.String()
	switch m.keys.Resolve(key) {
	case keymap.ActionPlayPause:
		m.player.Toggle()
	case keymap.ActionSeekBack:
		m.player.SeekBy(-seekStep)
	case keymap.ActionSeekForward:
		m.player.SeekBy(seekStep)
	case keymap.ActionSeekBackLong:
		m.player.SeekBy(-seekStepLong)
	case keymap.ActionSeekForwardLong:
		m.player.SeekBy(seekStepLong)
	case keymap.ActionSeekPercent:
		m.player.SeekToFraction(float64(key[0]-'0') / 10)
	case keymap.ActionRestart:
		m.player.SeekTo(0)
	case keymap.ActionFullscreen:
		cmds = append(cmds, m.toggleFullscreen())
	case keymap.ActionExitFullscreen:
		if m.mode == Fullscreen {
			cmds = append(cmds, emit(ExitFullscreenMsg{}))
		}
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.mode == Fullscreen && !m.controlsVisible {
		// The first interaction only brings the controls back.
		if msg.Action == tea.MouseActionRelease {
			return nil
		}
		return m.showControls()
	}

	var cmds []tea.Cmd
	if m.mode == Fullscreen {
		cmds = append(cmds, m.showControls())
	}

	bar := m.layout()
	onRow := msg.Y == m.controlsRow()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			break
		}
		switch {
		case onRow && bar.Play.Contains(msg.X):
			m.player.Toggle()
		case onRow && bar.Bar.Contains(msg.X):
			m.dragging = true
			m.player.SeekToFraction(bar.FractionAt(msg.X))
		case onRow && bar.Fullscreen.Contains(msg.X):
			cmds = append(cmds, m.toggleFullscreen())
		case m.mode == Fullscreen && !onRow:
			// Tapping the media area hides the controls again.
			m.hideSeq++
			m.controlsVisible = false
			return nil
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.player.SeekToFraction(bar.FractionAt(msg.X))
		}
	case tea.MouseActionRelease:
		m.dragging = false
	}
	return tea.Batch(cmds...)
}

func (m *Model) toggleFullscreen() tea.Cmd {
	if m.mode == Fullscreen {
		return emit(ExitFullscreenMsg{})
	}
	return emit(FullscreenRequestedMsg{})
}

// showControls shows the overlay and restarts the hide timer. Earlier timers
// become stale.
func (m *Model) showControls() tea.Cmd {
	m.controlsVisible = true
	m.hideSeq++
	seq := m.hideSeq
	return tea.Tick(HideAfter, func(time.Time) tea.Msg {
		return hideControlsMsg{seq: seq}
	})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Rendering

func (m *Model) height() int {
	return max(m.rows, 3)
}

// controlsRow is the row of the progress bar: second to last, above the
// help line.
func (m *Model) controlsRow() int {
	return m.height() - 2
}

func (m *Model) layout() playerbar.Layout {
	return playerbar.NewLayout(m.snap, m.caps, m.width, m.mode == Fullscreen)
}

// View renders the surface as exactly Height lines.
func (m *Model) View() string {
	width, height := m.width, m.height()
	lines := make([]string, height)
	blank := m.styles.Background.Render(render.Blank(width))
	for i := range lines {
		lines[i] = blank
	}

	if m.mode == Fullscreen && !m.controlsVisible {
		m.drawCaption(lines)
		return strings.Join(lines, "\n")
	}

	lines[0] = fill(m.styles.Title.Render(render.Fit(" "+m.title(), width)), width)
	boxed := m.help.ShowAll && m.mode == Fullscreen
	if m.help.ShowAll && !boxed {
		m.drawHelp(lines)
	} else {
		m.drawCaption(lines)
	}
	lines[height-2] = m.layout().Render(m.styles)
	lines[height-1] = fill(" "+m.help.ShortHelpView(m.keys.ShortHelp()), width)

	if boxed {
		// The media area is rows 1 to height-3.
		area := strings.Join(lines[1:height-2], "\n")
		h := m.help
		h.Width = width - 4
		box := m.styles.Panel.Padding(0, 1).Render(h.View(m.keys))
		if placed, ok := overlay.Center(area, box, width, height-3); ok {
			copy(lines[1:], strings.Split(placed, "\n"))
		} else {
			m.drawHelp(lines)
		}
	}
	return strings.Join(lines, "\n")
}

// drawHelp lists the full help in the media area.
func (m *Model) drawHelp(lines []string) {
	width, height := m.width, len(lines)
	for i := 1; i < height-2; i++ {
		lines[i] = m.styles.Background.Render(render.Blank(width))
	}
	for i, l := range strings.Split(m.help.View(m.keys), "\n") {
		if 1+i >= height-2 {
			break
		}
		lines[1+i] = fill(" "+ansi.Truncate(l, width-1, "…"), width)
	}
}

func (m *Model) drawCaption(lines []string) {
	mid := (len(lines) - 2) / 2
	if mid > 0 && m.caption != "" {
		lines[mid] = m.styles.Background.Render(render.Center(m.caption, m.width))
	}
}

// fill pads a styled line with spaces up to width cells, truncating it when
// it is wider.
func fill(s string, width int) string {
	if lipgloss.Width(s) > width {
		return ansi.Truncate(s, width, "")
	}
	return s + render.Blank(width-lipgloss.Width(s))
}

func (m *Model) title() string {
	if !m.snap.HasItem() {
		return "nothing loaded"
	}
	title := m.snap.Item.DisplayTitle()
	if m.snap.Seeking {
		title += "  (seeking)"
	}
	return title
}

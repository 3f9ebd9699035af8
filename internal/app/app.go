// internal/app/app.go
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/capability"
	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/lastfm"
	"github.com/llehouerou/reel/internal/notify"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/transport"
	"github.com/llehouerou/reel/internal/ui/layout"
	"github.com/llehouerou/reel/internal/ui/styles"
	"github.com/llehouerou/reel/internal/ui/surface"
)

// Player is the playback handle the application drives.
// playback.Controller satisfies it.
type Player interface {
	surface.Player
	Load(ctx context.Context, item transport.Item) error
	Subscribe() *playback.Subscription
}

// Fullscreener is implemented by transports that own a window, so that the
// fullscreen surface can be mirrored on it.
type Fullscreener interface {
	SetFullscreen(on bool) error
}

// Options configures the application model.
type Options struct {
	Player       Player
	Item         transport.Item
	Capabilities capability.Set
	Theme        capability.Theme
	State        state.Interface // nil disables resume
	Autoplay     bool
	Resume       bool
	Caption      string // shown in the media area
	Window       Fullscreener

	Notifier      notify.Notifier // nil disables notifications
	Notifications config.NotificationsConfig

	Scrobbler     lastfm.Submitter    // nil disables scrobbling
	ScrobbleQueue state.ScrobbleQueue // failed scrobbles are queued here
}

// Model is the root application model.
type Model struct {
	player Player
	sub    *playback.Subscription
	item   transport.Item
	caps   capability.Set
	styles styles.Styles
	keys   *keymap.Resolver
	state  state.Interface
	window Fullscreener

	autoplay bool
	resume   bool

	notifier            notify.Notifier
	notificationsConfig config.NotificationsConfig
	lastNowPlayingID    uint32
	announced           bool

	scrobbler     lastfm.Submitter
	scrobbleQueue state.ScrobbleQueue
	scrobble      *scrobbleState
	clock         func() time.Time

	embedded   *surface.Model
	fullscreen *surface.Model
	isFull     bool

	snap      playback.Snapshot
	lastSaved *state.Position
	status    string
	errorMsg  string
	closed    bool

	width, height int
}

// New creates the application model. Both surfaces share opts.Player.
func New(opts Options) *Model {
	embedded := surface.New(opts.Player, surface.Embedded, opts.Capabilities, opts.Theme)
	fullscreen := surface.New(opts.Player, surface.Fullscreen, opts.Capabilities, opts.Theme)
	embedded.SetCaption(opts.Caption)
	fullscreen.SetCaption(opts.Caption)

	return &Model{
		player:     opts.Player,
		sub:        opts.Player.Subscribe(),
		item:       opts.Item,
		caps:       opts.Capabilities,
		styles:     styles.New(opts.Theme),
		keys:       keymap.ForCapabilities(opts.Capabilities),
		state:      opts.State,
		window:     opts.Window,
		autoplay:   opts.Autoplay,
		resume:     opts.Resume,
		embedded:   embedded,
		fullscreen: fullscreen,
		snap:       opts.Player.Snapshot(),

		notifier:            opts.Notifier,
		notificationsConfig: opts.Notifications,

		scrobbler:     opts.Scrobbler,
		scrobbleQueue: opts.ScrobbleQueue,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{watchSubscription(m.sub), WatchStderr(), m.embedded.Init(), m.retryScrobbles()}
	if !m.item.IsZero() {
		m.status = "loading " + m.item.DisplayTitle()
		cmds = append(cmds, loadCmd(m.player, m.state, m.item))
	}
	return tea.Batch(cmds...)
}

// IsFullscreen reports whether the fullscreen surface is shown.
func (m *Model) IsFullscreen() bool { return m.isFull }

// Snapshot returns the last snapshot received from the subscription.
func (m *Model) Snapshot() playback.Snapshot { return m.snap }

// Status returns the footer message.
func (m *Model) Status() string { return m.status }

// Error returns the current error message, if any.
func (m *Model) Error() string { return m.errorMsg }

func (m *Model) active() *surface.Model {
	if m.isFull {
		return m.fullscreen
	}
	return m.embedded
}

// activeRect is the screen area of the active surface.
func (m *Model) activeRect() layout.Rect {
	if m.isFull {
		return layout.Fullscreen(m.width, m.height)
	}
	return layout.Embedded(m.width, m.height)
}

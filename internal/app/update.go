// internal/app/update.go
package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/reel/internal/capability"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/lastfm"
	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/timefmt"
	"github.com/llehouerou/reel/internal/ui/layout"
	"github.com/llehouerou/reel/internal/ui/surface"
)

// Update handles messages and returns updated model and commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case LoadedMsg:
		return m, m.handleLoaded(msg)

	case SnapshotMsg:
		m.applySnapshot(playback.Snapshot(msg))
		return m, tea.Batch(watchSubscription(m.sub), m.checkScrobble())

	case StatusChangedMsg:
		log.Debugf("status %s -> %s", msg.Previous, msg.Current)
		var cmd tea.Cmd
		switch msg.Current {
		case playback.StatusPaused:
			m.savePosition(true)
		case playback.StatusPlaying:
			if !m.announced {
				m.announced = true
				m.sendNowPlayingNotification(m.item)
				cmd = m.startScrobble()
			}
		}
		return m, tea.Batch(watchSubscription(m.sub), cmd)

	case EndedMsg:
		m.handleEnded(msg)
		return m, watchSubscription(m.sub)

	case lastfm.ScrobbleResultMsg:
		m.handleScrobbleResult(msg)
		return m, nil

	case lastfm.NowPlayingResultMsg:
		if msg.Err != nil {
			log.Warnf("now playing: %v", msg.Err)
		}
		return m, nil

	case lastfm.RetryResultMsg:
		if msg.Err != nil {
			log.Warnf("retry scrobbles: %v", msg.Err)
		} else if msg.Result.Succeeded+msg.Result.Failed > 0 {
			log.Infof("retried scrobbles: %d sent, %d failed", msg.Result.Succeeded, msg.Result.Failed)
		}
		return m, nil

	case SubscriptionClosedMsg:
		m.closed = true
		return m, nil

	case StderrMsg:
		if strings.Contains(strings.ToLower(msg.Line), "error") {
			m.status = msg.Line
		}
		return m, WatchStderr()

	case surface.FullscreenRequestedMsg:
		return m, m.enterFullscreen()

	case surface.ExitFullscreenMsg:
		m.exitFullscreen()
		return m, nil

	case tea.KeyMsg:
		if m.keys.Resolve(msg.String()) == keymap.ActionQuit {
			return m, m.quit()
		}
		return m, m.active().Update(msg)

	case tea.MouseMsg:
		r := m.activeRect()
		msg.X, msg.Y = r.Local(msg.X, msg.Y)
		return m, m.active().Update(msg)
	}

	// Timers and anything else the surfaces schedule.
	return m, tea.Batch(m.embedded.Update(msg), m.fullscreen.Update(msg))
}

func (m *Model) resize() {
	e := layout.Embedded(m.width, m.height)
	m.embedded.SetSize(e.Width, e.Height)
	f := layout.Fullscreen(m.width, m.height)
	m.fullscreen.SetSize(f.Width, f.Height)
}

func (m *Model) handleLoaded(msg LoadedMsg) tea.Cmd {
	if msg.Err != nil {
		m.status = ""
		m.errorMsg = errmsg.FormatWith(errmsg.OpItemLoad, msg.Item.DisplayTitle(), msg.Err)
		log.WithField("uri", msg.Item.URI).Errorf("load failed: %v", msg.Err)
		return nil
	}

	m.status = ""
	m.announced = false
	m.scrobble = nil
	if m.resume && msg.Resume != nil {
		if at, ok := msg.Resume.ResumeAt(); ok {
			m.player.SeekTo(at)
			m.status = fmt.Sprintf("resumed at %s, last watched %s",
				timefmt.Duration(at), humanize.Time(msg.Resume.UpdatedAt))
		}
	}
	if m.autoplay {
		m.player.Play()
	}
	return nil
}

func (m *Model) applySnapshot(s playback.Snapshot) {
	m.snap = s
	m.embedded.SetSnapshot(s)
	m.fullscreen.SetSnapshot(s)
	m.savePosition(false)
}

func (m *Model) handleEnded(e EndedMsg) {
	m.status = "finished " + e.Item.DisplayTitle()
	m.lastSaved = nil
	m.announced = false
	m.sendFinishedNotification(e.Item)
	if m.state == nil {
		return
	}
	if err := m.state.ForgetPosition(e.Item.URI); err != nil {
		m.errorMsg = errmsg.Format(errmsg.OpPositionSave, err)
	}
}

func (m *Model) enterFullscreen() tea.Cmd {
	if m.isFull || !m.caps.Has(capability.Fullscreen) {
		return nil
	}
	m.isFull = true
	m.setWindowFullscreen(true)
	return m.fullscreen.Init()
}

func (m *Model) exitFullscreen() {
	if !m.isFull {
		return
	}
	m.isFull = false
	m.setWindowFullscreen(false)
}

func (m *Model) setWindowFullscreen(on bool) {
	if m.window == nil {
		return
	}
	if err := m.window.SetFullscreen(on); err != nil {
		log.Warnf("set window fullscreen %v: %v", on, err)
	}
}

func (m *Model) quit() tea.Cmd {
	m.savePosition(true)
	return tea.Quit
}

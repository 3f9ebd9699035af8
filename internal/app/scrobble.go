package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/lastfm"
	"github.com/llehouerou/reel/internal/log"
)

// scrobbleState tracks the current play of a tagged item.
type scrobbleState struct {
	track lastfm.Track
	done  bool
}

// startScrobble begins tracking a play and announces it.
func (m *Model) startScrobble() tea.Cmd {
	m.scrobble = nil
	if m.scrobbler == nil {
		return nil
	}
	t, ok := lastfm.FromItem(m.item, m.snap.Duration, m.now())
	if !ok {
		return nil
	}
	m.scrobble = &scrobbleState{track: t}
	return lastfm.NowPlayingCmd(m.scrobbler, t)
}

// checkScrobble submits the play once the playhead passed the threshold.
func (m *Model) checkScrobble() tea.Cmd {
	if m.scrobble == nil || m.scrobble.done {
		return nil
	}
	duration := m.snap.Duration
	threshold, ok := lastfm.Threshold(duration)
	if !ok || m.snap.Position < threshold {
		return nil
	}
	m.scrobble.done = true
	t := m.scrobble.track
	t.Duration = duration
	return lastfm.ScrobbleCmd(m.scrobbler, t)
}

func (m *Model) handleScrobbleResult(msg lastfm.ScrobbleResultMsg) {
	if msg.Err == nil {
		log.Infof("scrobbled %s - %s", msg.Track.Artist, msg.Track.Title)
		return
	}
	log.Warnf("scrobble %s - %s: %v", msg.Track.Artist, msg.Track.Title, msg.Err)
	if m.scrobbleQueue == nil {
		return
	}
	if err := m.scrobbleQueue.QueueScrobble(lastfm.Pending(msg.Track, msg.Err)); err != nil {
		log.Errorf("queue scrobble: %v", err)
	}
}

// retryScrobbles submits plays queued by earlier sessions.
func (m *Model) retryScrobbles() tea.Cmd {
	if m.scrobbler == nil || m.scrobbleQueue == nil {
		return nil
	}
	return lastfm.RetryCmd(m.scrobbler, m.scrobbleQueue)
}

func (m *Model) now() time.Time {
	if m.clock != nil {
		return m.clock()
	}
	return time.Now()
}

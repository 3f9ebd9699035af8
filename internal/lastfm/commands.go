package lastfm

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/state"
)

// NowPlayingResultMsg reports the outcome of a now playing update.
type NowPlayingResultMsg struct {
	Err error
}

// ScrobbleResultMsg reports the outcome of a scrobble.
type ScrobbleResultMsg struct {
	Track Track
	Err   error
}

// RetryResultMsg reports a retry pass over the queue.
type RetryResultMsg struct {
	Result RetryResult
	Err    error
}

// NowPlayingCmd announces t.
func NowPlayingCmd(s Submitter, t Track) tea.Cmd {
	return func() tea.Msg {
		return NowPlayingResultMsg{Err: s.UpdateNowPlaying(t)}
	}
}

// ScrobbleCmd submits t.
func ScrobbleCmd(s Submitter, t Track) tea.Cmd {
	return func() tea.Msg {
		return ScrobbleResultMsg{Track: t, Err: s.Scrobble(t)}
	}
}

// RetryCmd submits the queued plays.
func RetryCmd(s Submitter, q state.ScrobbleQueue) tea.Cmd {
	return func() tea.Msg {
		res, err := Retry(s, q)
		return RetryResultMsg{Result: res, Err: err}
	}
}

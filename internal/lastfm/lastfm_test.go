package lastfm

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/transport"
)

type fakeSubmitter struct {
	nowPlaying []Track
	scrobbled  []Track
	err        error
}

func (f *fakeSubmitter) UpdateNowPlaying(t Track) error {
	f.nowPlaying = append(f.nowPlaying, t)
	return f.err
}

func (f *fakeSubmitter) Scrobble(t Track) error {
	if f.err != nil {
		return f.err
	}
	f.scrobbled = append(f.scrobbled, t)
	return nil
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     time.Duration
		ok       bool
	}{
		{0, 0, false},
		{29 * time.Second, 0, false},
		{30 * time.Second, 15 * time.Second, true},
		{3 * time.Minute, 90 * time.Second, true},
		{2 * time.Hour, 4 * time.Minute, true},
	}
	for _, tt := range tests {
		got, ok := Threshold(tt.duration)
		assert.Equal(t, tt.ok, ok, "duration %v", tt.duration)
		assert.Equal(t, tt.want, got, "duration %v", tt.duration)
	}
}

func TestFromItem(t *testing.T) {
	started := time.Unix(1_700_000_000, 0)

	_, ok := FromItem(transport.Item{URI: "/videos/clip.mkv", Title: "Clip"}, time.Minute, started)
	assert.False(t, ok, "no artist")

	tr, ok := FromItem(transport.Item{URI: "/m/a.flac", Title: "Song", Artist: "Band", Album: "Record"},
		3*time.Minute, started)
	require.True(t, ok)
	assert.Equal(t, Track{Artist: "Band", Title: "Song", Album: "Record", Duration: 3 * time.Minute, StartedAt: started}, tr)
}

func TestTrackParams(t *testing.T) {
	p := Track{Artist: "Band", Title: "Song"}.params()
	assert.Equal(t, "Band", p["artist"])
	assert.Equal(t, "Song", p["track"])
	assert.NotContains(t, p, "album")
	assert.NotContains(t, p, "duration")

	p = Track{Artist: "Band", Title: "Song", Album: "Record", Duration: 185 * time.Second}.params()
	assert.Equal(t, "Record", p["album"])
	assert.Equal(t, 185, p["duration"])
}

func TestClient_RequiresSession(t *testing.T) {
	c := New("key", "secret")
	assert.False(t, c.IsAuthenticated())
	assert.ErrorIs(t, c.UpdateNowPlaying(Track{}), ErrNotAuthenticated)
	assert.ErrorIs(t, c.Scrobble(Track{}), ErrNotAuthenticated)

	c.SetSessionKey("session")
	assert.True(t, c.IsAuthenticated())
}

func TestClient_AuthURL(t *testing.T) {
	u, err := url.Parse(New("my key", "secret").AuthURL("tok"))
	require.NoError(t, err)
	assert.Equal(t, "www.last.fm", u.Host)
	assert.Equal(t, "my key", u.Query().Get("api_key"))
	assert.Equal(t, "tok", u.Query().Get("token"))
}

func TestPending(t *testing.T) {
	tr := Track{Artist: "Band", Title: "Song", Duration: time.Minute, StartedAt: time.Unix(10, 0)}
	p := Pending(tr, errors.New("offline"))
	assert.Equal(t, "Band", p.Artist)
	assert.Equal(t, "Song", p.Title)
	assert.Equal(t, time.Minute, p.Duration)
	assert.Equal(t, "offline", p.LastError)
	assert.Empty(t, Pending(tr, nil).LastError)
}

func TestRetry(t *testing.T) {
	q := state.NewMock()
	require.NoError(t, q.QueueScrobble(state.PendingScrobble{Artist: "Band", Title: "One"}))
	require.NoError(t, q.QueueScrobble(state.PendingScrobble{Artist: "Band", Title: "Stuck", Attempts: maxAttempts}))

	s := &fakeSubmitter{}
	res, err := Retry(s, q)
	require.NoError(t, err)
	assert.Equal(t, RetryResult{Succeeded: 1}, res)
	require.Len(t, s.scrobbled, 1)
	assert.Equal(t, "One", s.scrobbled[0].Title)

	left, _ := q.PendingScrobbles()
	require.Len(t, left, 1)
	assert.Equal(t, "Stuck", left[0].Title, "exhausted entries are skipped and kept")
}

func TestRetry_Failure(t *testing.T) {
	q := state.NewMock()
	require.NoError(t, q.QueueScrobble(state.PendingScrobble{Artist: "Band", Title: "One"}))

	res, err := Retry(&fakeSubmitter{err: errors.New("503")}, q)
	require.NoError(t, err)
	assert.Equal(t, RetryResult{Failed: 1}, res)

	left, _ := q.PendingScrobbles()
	require.Len(t, left, 1)
	assert.Equal(t, 1, left[0].Attempts)
	assert.Equal(t, "503", left[0].LastError)
}

func TestCommands(t *testing.T) {
	s := &fakeSubmitter{}
	tr := Track{Artist: "Band", Title: "Song"}

	msg := NowPlayingCmd(s, tr)()
	assert.Equal(t, NowPlayingResultMsg{}, msg)
	assert.Len(t, s.nowPlaying, 1)

	msg = ScrobbleCmd(s, tr)()
	assert.Equal(t, ScrobbleResultMsg{Track: tr}, msg)

	msg = RetryCmd(s, state.NewMock())()
	assert.Equal(t, RetryResultMsg{}, msg)
}

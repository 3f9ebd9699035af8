package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/lastfm"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/transport"
)

var taggedItem = transport.Item{URI: "/music/song.flac", Title: "Song", Artist: "Band", Album: "Record"}

type fakeSubmitter struct {
	nowPlaying []lastfm.Track
	scrobbled  []lastfm.Track
	err        error
}

func (f *fakeSubmitter) UpdateNowPlaying(t lastfm.Track) error {
	f.nowPlaying = append(f.nowPlaying, t)
	return nil
}

func (f *fakeSubmitter) Scrobble(t lastfm.Track) error {
	f.scrobbled = append(f.scrobbled, t)
	return f.err
}

func newScrobbleHarness(t *testing.T, item transport.Item, sub *fakeSubmitter) *harness {
	t.Helper()
	h := newHarness(t, func(o *Options) {
		o.Item = item
		o.Scrobbler = sub
	})
	h.model.scrobbleQueue = h.state
	h.model.clock = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return h
}

func TestScrobble_StartsWhenPlaybackStarts(t *testing.T) {
	sub := &fakeSubmitter{}
	h := newScrobbleHarness(t, taggedItem, sub)
	h.load()
	assert.Nil(t, h.model.scrobble, "nothing tracked while paused")

	h.model.player.Play()
	h.drain()

	require.NotNil(t, h.model.scrobble)
	assert.Equal(t, lastfm.Track{
		Artist:    "Band",
		Title:     "Song",
		Album:     "Record",
		Duration:  100 * time.Second,
		StartedAt: time.Unix(1_700_000_000, 0),
	}, h.model.scrobble.track)
}

func TestScrobble_NowPlayingCommand(t *testing.T) {
	sub := &fakeSubmitter{}
	h := newScrobbleHarness(t, taggedItem, sub)
	h.load()

	cmd := h.model.startScrobble()
	require.NotNil(t, cmd)
	assert.Equal(t, lastfm.NowPlayingResultMsg{}, cmd())
	require.Len(t, sub.nowPlaying, 1)
	assert.Equal(t, "Song", sub.nowPlaying[0].Title)
}

func TestScrobble_UntaggedItemIsIgnored(t *testing.T) {
	h := newScrobbleHarness(t, testItem, &fakeSubmitter{})
	h.load()

	assert.Nil(t, h.model.startScrobble())
	assert.Nil(t, h.model.scrobble)
	assert.Nil(t, h.model.checkScrobble())
}

func TestScrobble_AfterThreshold(t *testing.T) {
	sub := &fakeSubmitter{}
	h := newScrobbleHarness(t, taggedItem, sub)
	h.load()
	h.model.startScrobble()

	snap := h.model.Snapshot()
	snap.Position = 49 * time.Second
	h.model.applySnapshot(snap)
	assert.Nil(t, h.model.checkScrobble(), "half of 100s not reached")

	snap.Position = 50 * time.Second
	h.model.applySnapshot(snap)
	cmd := h.model.checkScrobble()
	require.NotNil(t, cmd)
	msg, ok := cmd().(lastfm.ScrobbleResultMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	require.Len(t, sub.scrobbled, 1)

	snap.Position = 90 * time.Second
	h.model.applySnapshot(snap)
	assert.Nil(t, h.model.checkScrobble(), "one scrobble per play")
}

func TestScrobble_FailureIsQueued(t *testing.T) {
	h := newScrobbleHarness(t, taggedItem, &fakeSubmitter{})
	track := lastfm.Track{Artist: "Band", Title: "Song", StartedAt: time.Unix(5, 0)}

	h.model.Update(lastfm.ScrobbleResultMsg{Track: track, Err: errors.New("offline")})

	pending, err := h.state.PendingScrobbles()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, state.PendingScrobble{
		ID:        1,
		Artist:    "Band",
		Title:     "Song",
		StartedAt: time.Unix(5, 0),
		LastError: "offline",
	}, pending[0])
}

func TestScrobble_SuccessIsNotQueued(t *testing.T) {
	h := newScrobbleHarness(t, taggedItem, &fakeSubmitter{})

	h.model.Update(lastfm.ScrobbleResultMsg{Track: lastfm.Track{Artist: "Band", Title: "Song"}})

	pending, _ := h.state.PendingScrobbles()
	assert.Empty(t, pending)
}

func TestScrobble_RetryNeedsScrobbler(t *testing.T) {
	h := newHarness(t, nil)
	h.model.scrobbleQueue = h.state
	assert.Nil(t, h.model.retryScrobbles())

	sh := newScrobbleHarness(t, taggedItem, &fakeSubmitter{})
	assert.NotNil(t, sh.model.retryScrobbles())
}

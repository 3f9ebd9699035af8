package lastfm

import (
	"time"

	"github.com/llehouerou/reel/internal/transport"
)

const (
	// minDuration is the shortest item Last.fm accepts.
	minDuration = 30 * time.Second
	// maxThreshold caps the play time needed to scrobble long items.
	maxThreshold = 4 * time.Minute
	// MaxAge is how old a queued scrobble may get before Last.fm rejects it.
	MaxAge = 14 * 24 * time.Hour
	// maxAttempts bounds retries of a queued scrobble.
	maxAttempts = 10
)

// Track is one play of a tagged item.
type Track struct {
	Artist    string
	Title     string
	Album     string
	Duration  time.Duration
	StartedAt time.Time
}

// Submitter sends plays to Last.fm. *Client satisfies it.
type Submitter interface {
	UpdateNowPlaying(t Track) error
	Scrobble(t Track) error
}

var _ Submitter = (*Client)(nil)

// FromItem builds a track for item. Items without artist and title tags
// cannot be scrobbled.
func FromItem(item transport.Item, duration time.Duration, startedAt time.Time) (Track, bool) {
	if item.Artist == "" || item.Title == "" {
		return Track{}, false
	}
	return Track{
		Artist:    item.Artist,
		Title:     item.Title,
		Album:     item.Album,
		Duration:  duration,
		StartedAt: startedAt,
	}, true
}

// Threshold returns the playhead position after which an item of the given
// duration counts as played: half of it, at most four minutes. Items shorter
// than 30 seconds never count.
func Threshold(duration time.Duration) (time.Duration, bool) {
	if duration < minDuration {
		return 0, false
	}
	return min(duration/2, maxThreshold), true
}

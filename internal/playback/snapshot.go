package playback

import (
	"time"

	"github.com/llehouerou/reel/internal/transport"
)

// Snapshot is an immutable copy of the store's state plus the values derived
// from it. Surfaces render exclusively from snapshots.
type Snapshot struct {
	Item             transport.Item
	Status           Status
	Position         time.Duration
	Duration         time.Duration
	Playing          bool
	Seeking          bool
	RewindOnNextPlay bool

	// Progress is Position/Duration in [0,1], or 0 while Duration is unknown.
	Progress float64
	// CurrentTime and TotalTime are Position and Duration as clock strings.
	CurrentTime string
	TotalTime   string
}

// HasItem reports whether an item is loaded.
func (s Snapshot) HasItem() bool {
	return !s.Item.IsZero()
}

// CanSeek reports whether a seek would have any effect.
func (s Snapshot) CanSeek() bool {
	return s.HasItem() && s.Duration > 0
}

// Remaining returns the time left until the end of the item.
func (s Snapshot) Remaining() time.Duration {
	return max(s.Duration-s.Position, 0)
}

package playback

import (
	"context"
	"time"

	"github.com/llehouerou/reel/internal/transport"
)

// Service is the playback contract offered to presentation surfaces that
// run outside the event loop.
type Service interface {
	// Load blocks until the item is bound and returns the transport error,
	// if any.
	Load(ctx context.Context, item transport.Item) error
	Play()
	Pause()
	Toggle()
	SeekToFraction(f float64)
	SeekTo(pos time.Duration)
	SeekBy(delta time.Duration)

	// Snapshot returns the latest published state.
	Snapshot() Snapshot
	Subscribe() *Subscription
}

// Runner executes functions on the event loop. loop.Loop satisfies it.
type Runner interface {
	Post(fn func()) bool
	Do(ctx context.Context, fn func()) error
}

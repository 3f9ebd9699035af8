package playback

import (
	"time"

	"github.com/llehouerou/reel/internal/transport"
)

// StatusChange is emitted when the derived Status changes.
type StatusChange struct {
	Previous Status
	Current  Status
}

// EndedEvent is emitted when the transport reports the end of the item.
// The next Play rewinds to the start.
type EndedEvent struct {
	Item     transport.Item
	Duration time.Duration
}

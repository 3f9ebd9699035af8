package app

import (
	"time"

	"github.com/llehouerou/reel/internal/state"
)

// saveInterval is how far the playhead must move before it is saved again.
const saveInterval = 5 * time.Second

// savePosition records the playhead for resume. Unless force is set, it
// skips saves while seeking and until the playhead has moved far enough.
func (m *Model) savePosition(force bool) {
	if m.state == nil || !m.resume || !m.snap.HasItem() || m.snap.Item != m.item {
		return
	}
	if m.snap.RewindOnNextPlay {
		// Ended: nothing worth resuming.
		return
	}
	if !force {
		if m.snap.Seeking {
			return
		}
		if m.lastSaved != nil && absDuration(m.snap.Position-m.lastSaved.Position) < saveInterval {
			return
		}
	}

	p := state.Position{
		URI:      m.snap.Item.URI,
		Title:    m.snap.Item.Label(),
		Position: m.snap.Position,
		Duration: m.snap.Duration,
	}
	m.state.SavePosition(p)
	m.lastSaved = &p
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Package app contains the root bubbletea model: it loads the item, wires
// the playback subscription to the embedded and fullscreen surfaces and
// persists the resume position.
package app

import (
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/transport"
)

// LoadedMsg reports the outcome of loading the item. Resume is the saved
// position, if any.
type LoadedMsg struct {
	Item   transport.Item
	Err    error
	Resume *state.Position
}

// SnapshotMsg carries a republished snapshot.
type SnapshotMsg playback.Snapshot

// StatusChangedMsg carries a status transition.
type StatusChangedMsg playback.StatusChange

// EndedMsg reports the end of the item.
type EndedMsg playback.EndedEvent

// SubscriptionClosedMsg is sent once the store is closed.
type SubscriptionClosedMsg struct{}

// StderrMsg contains a line captured from C library stderr output.
type StderrMsg struct {
	Line string
}

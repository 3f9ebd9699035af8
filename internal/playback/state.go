// internal/playback/state.go
package playback

// Status represents the playback state machine.
//
//	┌──────┐  load   ┌────────┐  play   ┌─────────┐
//	│ Idle │ ──────▶ │ Paused │ ──────▶ │ Playing │
//	└──────┘         └────────┘ ◀────── └─────────┘
//	                     ▲        pause      │
//	                     └───── end of item ─┘
//
// Seeking is reported while a seek is in flight. It overlays the play/pause
// intent rather than replacing it: Snapshot.Playing keeps the intent and the
// transport resumes advancing once the seek completes.
type Status int

const (
	StatusIdle Status = iota
	StatusPaused
	StatusPlaying
	StatusSeeking
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusPaused:
		return "Paused"
	case StatusPlaying:
		return "Playing"
	case StatusSeeking:
		return "Seeking"
	default:
		return "Unknown"
	}
}

// HasItem returns true once an item is loaded.
func (s Status) HasItem() bool {
	return s == StatusPaused || s == StatusPlaying || s == StatusSeeking
}

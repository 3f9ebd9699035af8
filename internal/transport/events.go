package transport

import "time"

// EventKind identifies what a transport Event carries.
type EventKind int

const (
	// EventTick carries a periodic playhead Position.
	EventTick EventKind = iota
	// EventStatus carries a change of Playing.
	EventStatus
	// EventDuration carries a newly known Duration.
	EventDuration
	// EventEnded reports that playback reached the end of the item.
	EventEnded
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "Tick"
	case EventStatus:
		return "Status"
	case EventDuration:
		return "Duration"
	case EventEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Event is a notification from the transport to its subscribers.
type Event struct {
	Kind     EventKind
	Position time.Duration
	Duration time.Duration
	Playing  bool
}

// Tick builds a position tick.
func Tick(pos time.Duration) Event {
	return Event{Kind: EventTick, Position: pos}
}

// StatusChanged builds a play/pause status change.
func StatusChanged(playing bool) Event {
	return Event{Kind: EventStatus, Playing: playing}
}

// DurationChanged builds a duration update.
func DurationChanged(d time.Duration) Event {
	return Event{Kind: EventDuration, Duration: d}
}

// Ended builds an end-of-item notification.
func Ended() Event {
	return Event{Kind: EventEnded}
}

// Package transport defines the contract between the playback store and the
// engine that actually plays media.
package transport

import (
	"math"
	"path/filepath"
	"time"
)

// Item identifies a loadable media resource. The store treats it as an
// opaque handle; only the transport interprets URI.
type Item struct {
	URI    string
	Title  string
	Artist string
	Album  string
}

// IsZero reports whether no item is set.
func (i Item) IsZero() bool {
	return i.URI == ""
}

// Label returns "Artist - Title", the bare title when the artist is
// unknown, or "" without a title.
func (i Item) Label() string {
	if i.Title == "" || i.Artist == "" {
		return i.Title
	}
	return i.Artist + " - " + i.Title
}

// DisplayTitle returns Label, falling back to the base name of URI.
func (i Item) DisplayTitle() string {
	if l := i.Label(); l != "" {
		return l
	}
	if i.URI == "" {
		return ""
	}
	return filepath.Base(i.URI)
}

// Dispatcher delivers a transport callback onto the thread that owns the
// store. loop.Loop.Post satisfies it.
type Dispatcher func(fn func()) bool

// Direct runs callbacks synchronously on the caller's goroutine.
func Direct(fn func()) bool {
	fn()
	return true
}

// Transport is the engine the store drives. Implementations deliver every
// callback (seek completion and subscribed events) through the Dispatcher
// they were built with, never concurrently.
type Transport interface {
	// Load replaces the current item. The transport is left paused.
	Load(item Item) error
	Play()
	Pause()
	// Seek moves the playhead to pos and calls done once the move has been
	// applied. Callers issue at most one seek per item before done runs;
	// after a Load a new seek may be issued while one for the previous item
	// is outstanding. Seeks of the previous item must then be completed or
	// dropped, never applied to the new one.
	Seek(pos time.Duration, done func())
	// Duration returns the length of the current item, or 0 while unknown.
	Duration() time.Duration
	// Position returns the last known playhead position.
	Position() time.Duration
	// Subscribe registers fn for position ticks, status changes, duration
	// changes and end-of-item notifications.
	Subscribe(fn func(Event))
	Close() error
}

// FromSeconds converts a transport-native floating point time to a
// duration. NaN, infinite and negative values map to 0.
func FromSeconds(s float64) time.Duration {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

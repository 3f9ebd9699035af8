// internal/playback/store.go
package playback

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/timefmt"
	"github.com/llehouerou/reel/internal/transport"
)

// Store is the single authoritative holder of playback state. Commands
// (Load, Play, Pause, seeks) are the only write path; every change is
// republished to listeners and subscriptions.
//
// A Store is confined to one goroutine, the event loop: its commands,
// HandleEvent and the transport callbacks must all run there. Latest and
// Subscribe are the only methods safe to call from elsewhere.
type Store struct {
	transport transport.Transport
	format    timefmt.Formatter
	seeker    *seekCoalescer

	item             transport.Item
	position         time.Duration
	duration         time.Duration
	playing          bool
	rewindOnNextPlay bool

	lastStatus Status
	listeners  []listener
	nextID     int

	latest atomic.Pointer[Snapshot]

	subs   []*Subscription
	subsMu sync.RWMutex
	closed bool
}

type listener struct {
	id int
	fn func(Snapshot)
}

// Option configures a Store.
type Option func(*Store)

// WithFormatter sets the formatter used for CurrentTime and TotalTime.
func WithFormatter(f timefmt.Formatter) Option {
	return func(s *Store) { s.format = f }
}

// NewStore creates an empty store driving t and subscribes to its events.
func NewStore(t transport.Transport, opts ...Option) *Store {
	s := &Store{
		transport: t,
		format:    timefmt.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seeker = newSeekCoalescer(t, s.seekSettled)
	t.Subscribe(s.HandleEvent)

	snap := s.Snapshot()
	s.latest.Store(&snap)
	return s
}

// Load binds item to the transport, resets the playhead and all seek and
// rewind state, and leaves playback paused. A zero item unloads.
//
// A transport error leaves the store idle and is returned for display.
func (s *Store) Load(item transport.Item) error {
	s.seeker.reset()
	s.position = 0
	s.rewindOnNextPlay = false

	if item.IsZero() {
		s.unbind()
		s.publish()
		return nil
	}

	if err := s.transport.Load(item); err != nil {
		s.unbind()
		s.publish()
		return fmt.Errorf("load %s: %w", item.URI, err)
	}

	s.item = item
	s.duration = max(s.transport.Duration(), 0)
	s.playing = false
	s.transport.Pause()

	log.WithField("uri", item.URI).Infof("loaded item, duration %v", s.duration)
	s.publish()
	return nil
}

// unbind forgets the item. A transport that rejected a new item may still be
// playing the previous one, so it is paused first.
func (s *Store) unbind() {
	if s.playing {
		s.transport.Pause()
	}
	s.item = transport.Item{}
	s.duration = 0
	s.playing = false
}

// Play starts playback. After the item ended, it first rewinds to the start.
// Calling Play while already playing only performs the rewind check.
func (s *Store) Play() {
	if s.item.IsZero() {
		return
	}

	changed := false
	if s.rewindOnNextPlay {
		// Nothing is in flight once the item has ended, so this goes straight
		// to the transport.
		s.rewindOnNextPlay = false
		s.seeker.request(0)
		changed = true
	}
	if !s.playing {
		s.playing = true
		s.transport.Play()
		changed = true
	}
	if changed {
		s.publish()
	}
}

// Pause stops the playhead. It is a no-op when not playing.
func (s *Store) Pause() {
	if !s.playing {
		return
	}
	s.playing = false
	s.transport.Pause()
	s.publish()
}

// Toggle plays when paused and pauses when playing.
func (s *Store) Toggle() {
	if s.playing {
		s.Pause()
		return
	}
	s.Play()
}

// SeekToFraction seeks to duration × f. f is clamped to [0,1] since drag
// gestures may overshoot. Without an item or a known duration it does
// nothing.
func (s *Store) SeekToFraction(f float64) {
	if s.item.IsZero() || s.duration <= 0 {
		return
	}
	target := time.Duration(float64(s.duration) * clampFraction(f))
	s.requestSeek(target)
}

// SeekTo seeks to an absolute position, clamped to the item.
func (s *Store) SeekTo(pos time.Duration) {
	if s.item.IsZero() {
		return
	}
	s.requestSeek(s.clampPosition(pos))
}

// SeekBy seeks relative to the current playhead, or to the newest target
// while a seek is outstanding so repeated steps accumulate.
func (s *Store) SeekBy(delta time.Duration) {
	base := s.position
	if target, ok := s.seeker.latestTarget(); ok {
		base = target
	}
	s.SeekTo(base + delta)
}

func (s *Store) requestSeek(target time.Duration) {
	s.seeker.request(target)
	s.publish()
}

// seekSettled runs after each completed seek.
func (s *Store) seekSettled() {
	s.position = s.clampPosition(s.transport.Position())
	s.publish()
}

// HandleEvent applies a transport notification. Ticks are applied even while
// a seek is in flight.
func (s *Store) HandleEvent(e transport.Event) {
	if s.item.IsZero() {
		return
	}

	switch e.Kind {
	case transport.EventTick:
		s.position = s.clampPosition(e.Position)
	case transport.EventStatus:
		s.playing = e.Playing
	case transport.EventDuration:
		s.duration = max(e.Duration, 0)
		s.position = s.clampPosition(s.position)
	case transport.EventEnded:
		s.playing = false
		s.rewindOnNextPlay = true
		if s.duration > 0 {
			s.position = s.duration
		}
		log.WithField("uri", s.item.URI).Debugf("item ended")
		s.publish()
		s.broadcastEnded(EndedEvent{Item: s.item, Duration: s.duration})
		return
	default:
		return
	}
	s.publish()
}

func (s *Store) clampPosition(p time.Duration) time.Duration {
	if p < 0 {
		return 0
	}
	if s.duration > 0 && p > s.duration {
		return s.duration
	}
	return p
}

func clampFraction(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// Derived state

// Progress returns position/duration in [0,1], or 0 while duration is
// unknown.
func (s *Store) Progress() float64 {
	if s.duration <= 0 {
		return 0
	}
	return clampFraction(float64(s.position) / float64(s.duration))
}

// FormattedCurrentTime returns the playhead as a clock string.
func (s *Store) FormattedCurrentTime() string {
	return s.format.Duration(s.position)
}

// FormattedDuration returns the item length as a clock string.
func (s *Store) FormattedDuration() string {
	return s.format.Duration(s.duration)
}

// Status returns the current state machine status.
func (s *Store) Status() Status {
	switch {
	case s.item.IsZero():
		return StatusIdle
	case s.seeker.inFlight():
		return StatusSeeking
	case s.playing:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

func (s *Store) Item() transport.Item    { return s.item }
func (s *Store) Position() time.Duration { return s.position }
func (s *Store) Duration() time.Duration { return s.duration }
func (s *Store) IsPlaying() bool         { return s.playing }
func (s *Store) IsSeeking() bool         { return s.seeker.inFlight() }
func (s *Store) RewindOnNextPlay() bool  { return s.rewindOnNextPlay }

// PendingSeek returns the target queued behind the in-flight seek.
func (s *Store) PendingSeek() (time.Duration, bool) {
	return s.seeker.pendingTarget()
}

// Snapshot returns the current state and derived values.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Item:             s.item,
		Status:           s.Status(),
		Position:         s.position,
		Duration:         s.duration,
		Playing:          s.playing,
		Seeking:          s.seeker.inFlight(),
		RewindOnNextPlay: s.rewindOnNextPlay,
		Progress:         s.Progress(),
		CurrentTime:      s.FormattedCurrentTime(),
		TotalTime:        s.FormattedDuration(),
	}
}

// Latest returns the most recently published snapshot. Safe for concurrent
// use.
func (s *Store) Latest() Snapshot {
	return *s.latest.Load()
}

// Publishing

// AddListener registers fn to be called synchronously, on the event loop,
// after every change. The returned function removes it.
func (s *Store) AddListener(fn func(Snapshot)) (remove func()) {
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool {
			return l.id == id
		})
	}
}

// Subscribe creates a channel subscription seeded with the latest snapshot.
// Safe for concurrent use.
func (s *Store) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	if s.closed {
		sub.close()
		return sub
	}
	sub.sendUpdate(s.Latest())
	s.subs = append(s.subs, sub)
	return sub
}

func (s *Store) publish() {
	snap := s.Snapshot()
	s.latest.Store(&snap)

	for _, l := range slices.Clone(s.listeners) {
		l.fn(snap)
	}

	var change *StatusChange
	if snap.Status != s.lastStatus {
		change = &StatusChange{Previous: s.lastStatus, Current: snap.Status}
		s.lastStatus = snap.Status
	}

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendUpdate(snap)
		if change != nil {
			sub.sendStatus(*change)
		}
	}
}

func (s *Store) broadcastEnded(e EndedEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendEnded(e)
	}
}

// Close signals every subscription. The transport is owned by the caller
// and is not closed.
func (s *Store) Close() error {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.listeners = nil
	return nil
}

package transport

import "time"

// Mock is a test double for Transport. Seeks stay outstanding until
// CompleteSeek is called, unless auto-completion is enabled, and survive a
// Load so tests can deliver stale completions. Events are delivered
// synchronously.
type Mock struct {
	item      Item
	loadErr   error
	duration  time.Duration
	position  time.Duration
	playing   bool
	closed    bool
	listeners []func(Event)

	autoComplete bool
	outstanding  []pendingSeek

	loadCalls  []Item
	playCalls  int
	pauseCalls int
	seekCalls  []time.Duration
}

type pendingSeek struct {
	target time.Duration
	done   func()
}

// NewMock creates a mock transport with nothing loaded.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Load(item Item) error {
	m.loadCalls = append(m.loadCalls, item)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.item = item
	m.position = 0
	m.playing = false
	return nil
}

func (m *Mock) Play() {
	m.playCalls++
	m.playing = true
}

func (m *Mock) Pause() {
	m.pauseCalls++
	m.playing = false
}

func (m *Mock) Seek(pos time.Duration, done func()) {
	m.seekCalls = append(m.seekCalls, pos)
	if m.autoComplete {
		m.position = pos
		done()
		return
	}
	m.outstanding = append(m.outstanding, pendingSeek{target: pos, done: done})
}

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) Subscribe(fn func(Event)) {
	m.listeners = append(m.listeners, fn)
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetDuration(d time.Duration) { m.duration = d }

func (m *Mock) SetLoadError(err error) { m.loadErr = err }

// SetAutoComplete makes Seek apply and complete immediately.
func (m *Mock) SetAutoComplete(enabled bool) { m.autoComplete = enabled }

func (m *Mock) Item() Item { return m.item }

func (m *Mock) IsPlaying() bool { return m.playing }

func (m *Mock) IsClosed() bool { return m.closed }

func (m *Mock) LoadCalls() []Item { return m.loadCalls }

func (m *Mock) PlayCalls() int { return m.playCalls }

func (m *Mock) PauseCalls() int { return m.pauseCalls }

func (m *Mock) SeekCalls() []time.Duration { return m.seekCalls }

// Outstanding returns the number of seeks not yet completed.
func (m *Mock) Outstanding() int { return len(m.outstanding) }

// CompleteSeek applies and completes the oldest outstanding seek.
// It returns false if none is outstanding.
func (m *Mock) CompleteSeek() bool {
	if len(m.outstanding) == 0 {
		return false
	}
	s := m.outstanding[0]
	m.outstanding = m.outstanding[1:]
	m.position = s.target
	s.done()
	return true
}

// Emit delivers e to every subscriber.
func (m *Mock) Emit(e Event) {
	for _, fn := range m.listeners {
		fn(e)
	}
}

// SimulateTick moves the playhead and emits a tick.
func (m *Mock) SimulateTick(pos time.Duration) {
	m.position = pos
	m.Emit(Tick(pos))
}

// SimulateEnd moves the playhead to the end, stops and emits end-of-item.
func (m *Mock) SimulateEnd() {
	m.position = m.duration
	m.playing = false
	m.Emit(StatusChanged(false))
	m.Emit(Ended())
}

// Verify Mock implements Transport at compile time.
var _ Transport = (*Mock)(nil)

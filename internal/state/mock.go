// internal/state/mock.go
package state

import "slices"

// Mock is a test double for Manager.
type Mock struct {
	positions map[string]Position
	saves     int
	getErr    error
	closed    bool

	scrobbles []PendingScrobble
	nextID    int64
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{positions: make(map[string]Position)}
}

func (m *Mock) GetPosition(uri string) (*Position, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.positions[uri]
	if !ok {
		return nil, nil //nolint:nilnil // mirrors Manager
	}
	return &p, nil
}

func (m *Mock) SavePosition(p Position) {
	m.saves++
	m.positions[p.URI] = p
}

func (m *Mock) ForgetPosition(uri string) error {
	delete(m.positions, uri)
	return nil
}

func (m *Mock) ListRecent(limit int) ([]Position, error) {
	var out []Position
	for _, p := range m.positions {
		if len(out) == limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *Mock) Flush() error { return nil }

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

func (m *Mock) QueueScrobble(s PendingScrobble) error {
	m.nextID++
	s.ID = m.nextID
	m.scrobbles = append(m.scrobbles, s)
	return nil
}

func (m *Mock) PendingScrobbles() ([]PendingScrobble, error) {
	return slices.Clone(m.scrobbles), nil
}

func (m *Mock) DeletePendingScrobble(id int64) error {
	m.scrobbles = slices.DeleteFunc(m.scrobbles, func(s PendingScrobble) bool { return s.ID == id })
	return nil
}

func (m *Mock) MarkScrobbleAttempt(id int64, errMsg string) error {
	for i := range m.scrobbles {
		if m.scrobbles[i].ID == id {
			m.scrobbles[i].Attempts++
			m.scrobbles[i].LastError = errMsg
		}
	}
	return nil
}

// Test helpers

func (m *Mock) SetPosition(p Position) { m.positions[p.URI] = p }

func (m *Mock) SetGetError(err error) { m.getErr = err }

func (m *Mock) Saves() int { return m.saves }

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements both interfaces at compile time.
var (
	_ Interface     = (*Mock)(nil)
	_ ScrobbleQueue = (*Mock)(nil)
)

package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/reel/internal/log"
)

const (
	appName      = "reel"
	dbFileName   = "reel.db"
	saveDebounce = 2 * time.Second
)

// Manager persists playback positions. Saves are debounced and batched.
type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   map[string]Position
}

// Open opens the database at path, or at the XDG data location when path
// is empty.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = getDBPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	return newManager(db)
}

func newManager(db *sql.DB) (*Manager, error) {
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db, pending: make(map[string]Position)}, nil
}

func (m *Manager) Close() error {
	flushErr := m.Flush()
	if err := m.db.Close(); err != nil {
		return err
	}
	return flushErr
}

// GetPosition returns the saved position of uri, or nil if none was saved.
// A save still waiting for the debounce wins over the database.
func (m *Manager) GetPosition(uri string) (*Position, error) {
	m.saveMu.Lock()
	p, ok := m.pending[uri]
	m.saveMu.Unlock()
	if ok {
		return &p, nil
	}
	return getPosition(m.db, uri)
}

// SavePosition schedules p to be written. Saves for the same item within
// the debounce window collapse into one write.
func (m *Manager) SavePosition(p Position) {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending[p.URI] = p

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		if err := m.Flush(); err != nil {
			log.Warnf("state: saving positions: %v", err)
		}
	})
}

// Flush writes pending saves now.
func (m *Manager) Flush() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	batch := make([]Position, 0, len(m.pending))
	for _, p := range m.pending {
		batch = append(batch, p)
	}
	clear(m.pending)
	m.saveMu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return savePositions(m.db, batch)
}

// ForgetPosition drops the saved position of uri.
func (m *Manager) ForgetPosition(uri string) error {
	m.saveMu.Lock()
	delete(m.pending, uri)
	m.saveMu.Unlock()
	return deletePosition(m.db, uri)
}

// ListRecent returns up to limit saved positions, most recent first.
func (m *Manager) ListRecent(limit int) ([]Position, error) {
	if err := m.Flush(); err != nil {
		return nil, err
	}
	return listRecent(m.db, limit)
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

package state

import (
	"database/sql"
	"errors"
	"time"
)

// LastfmSession is the linked Last.fm account.
type LastfmSession struct {
	Username   string
	SessionKey string
	LinkedAt   time.Time
}

// PendingScrobble is a play that could not be submitted yet.
type PendingScrobble struct {
	ID        int64
	Artist    string
	Title     string
	Album     string
	Duration  time.Duration
	StartedAt time.Time
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// LastfmSession returns the linked account, or nil when none is linked.
func (m *Manager) LastfmSession() (*LastfmSession, error) {
	var s LastfmSession
	var linkedAt int64
	err := m.db.QueryRow(`
		SELECT username, session_key, linked_at FROM lastfm_session WHERE id = 1
	`).Scan(&s.Username, &s.SessionKey, &linkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no session means not linked
	}
	if err != nil {
		return nil, err
	}
	s.LinkedAt = time.Unix(linkedAt, 0)
	return &s, nil
}

// SaveLastfmSession links an account, replacing any previous one.
func (m *Manager) SaveLastfmSession(username, sessionKey string) error {
	_, err := m.db.Exec(`
		INSERT INTO lastfm_session (id, username, session_key, linked_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			session_key = excluded.session_key,
			linked_at = excluded.linked_at
	`, username, sessionKey, time.Now().Unix())
	return err
}

// DeleteLastfmSession unlinks the account.
func (m *Manager) DeleteLastfmSession() error {
	_, err := m.db.Exec(`DELETE FROM lastfm_session WHERE id = 1`)
	return err
}

// QueueScrobble stores a play for a later retry.
func (m *Manager) QueueScrobble(s PendingScrobble) error {
	_, err := m.db.Exec(`
		INSERT INTO pending_scrobbles
			(artist, title, album, duration_s, started_at, attempts, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.Artist, s.Title, s.Album, int64(s.Duration.Seconds()), s.StartedAt.Unix(),
		s.Attempts, s.LastError, time.Now().Unix())
	return err
}

// PendingScrobbles returns queued plays, oldest first.
func (m *Manager) PendingScrobbles() ([]PendingScrobble, error) {
	rows, err := m.db.Query(`
		SELECT id, artist, title, album, duration_s, started_at, attempts, last_error, created_at
		FROM pending_scrobbles
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingScrobble
	for rows.Next() {
		var s PendingScrobble
		var album, lastError sql.NullString
		var durationS, startedAt, createdAt int64
		if err := rows.Scan(&s.ID, &s.Artist, &s.Title, &album, &durationS,
			&startedAt, &s.Attempts, &lastError, &createdAt); err != nil {
			return nil, err
		}
		s.Album = album.String
		s.LastError = lastError.String
		s.Duration = time.Duration(durationS) * time.Second
		s.StartedAt = time.Unix(startedAt, 0)
		s.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeletePendingScrobble removes a play once it was submitted.
func (m *Manager) DeletePendingScrobble(id int64) error {
	_, err := m.db.Exec(`DELETE FROM pending_scrobbles WHERE id = ?`, id)
	return err
}

// MarkScrobbleAttempt records a failed retry.
func (m *Manager) MarkScrobbleAttempt(id int64, errMsg string) error {
	_, err := m.db.Exec(`
		UPDATE pending_scrobbles SET attempts = attempts + 1, last_error = ? WHERE id = ?
	`, errMsg, id)
	return err
}

// PrunePendingScrobbles drops queued plays older than maxAge. Last.fm
// rejects scrobbles more than two weeks old.
func (m *Manager) PrunePendingScrobbles(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge).Unix()
	_, err := m.db.Exec(`DELETE FROM pending_scrobbles WHERE started_at < ?`, cutoff)
	return err
}

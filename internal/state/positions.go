package state

import (
	"database/sql"
	"errors"
	"time"
)

// resumeMargin keeps resume from landing right at the start or the end.
const resumeMargin = 5 * time.Second

// Position is the last known playhead of an item.
type Position struct {
	URI       string
	Title     string
	Position  time.Duration
	Duration  time.Duration
	UpdatedAt time.Time
}

// ResumeAt returns where playback should pick up, or false when the saved
// position is too close to either end to be worth restoring.
func (p Position) ResumeAt() (time.Duration, bool) {
	if p.Position < resumeMargin {
		return 0, false
	}
	if p.Duration > 0 && p.Duration-p.Position <= resumeMargin {
		return 0, false
	}
	return p.Position, true
}

func getPosition(db *sql.DB, uri string) (*Position, error) {
	row := db.QueryRow(`
		SELECT uri, title, position_ms, duration_ms, updated_at
		FROM positions WHERE uri = ?
	`, uri)

	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nothing saved for this item yet
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func savePositions(db *sql.DB, positions []Position) error {
	return withTx(db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO positions (uri, title, position_ms, duration_ms, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(uri) DO UPDATE SET
				title = excluded.title,
				position_ms = excluded.position_ms,
				duration_ms = excluded.duration_ms,
				updated_at = excluded.updated_at
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range positions {
			updated := p.UpdatedAt
			if updated.IsZero() {
				updated = time.Now()
			}
			if _, err := stmt.Exec(p.URI, p.Title, p.Position.Milliseconds(),
				p.Duration.Milliseconds(), updated.Unix()); err != nil {
				return err
			}
		}
		return nil
	})
}

func deletePosition(db *sql.DB, uri string) error {
	_, err := db.Exec(`DELETE FROM positions WHERE uri = ?`, uri)
	return err
}

func listRecent(db *sql.DB, limit int) ([]Position, error) {
	rows, err := db.Query(`
		SELECT uri, title, position_ms, duration_ms, updated_at
		FROM positions
		ORDER BY updated_at DESC, uri
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, *p)
	}
	return positions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPosition(s scanner) (*Position, error) {
	var p Position
	var title sql.NullString
	var positionMS, durationMS, updatedAt int64
	if err := s.Scan(&p.URI, &title, &positionMS, &durationMS, &updatedAt); err != nil {
		return nil, err
	}
	p.Title = title.String
	p.Position = time.Duration(positionMS) * time.Millisecond
	p.Duration = time.Duration(durationMS) * time.Millisecond
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

// withTx runs fn in a transaction, committing only if it succeeds.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS positions (
			uri TEXT PRIMARY KEY,
			title TEXT,
			position_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_positions_updated_at ON positions(updated_at DESC);

		CREATE TABLE IF NOT EXISTS lastfm_session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			username TEXT NOT NULL,
			session_key TEXT NOT NULL,
			linked_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pending_scrobbles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			artist TEXT NOT NULL,
			title TEXT NOT NULL,
			album TEXT,
			duration_s INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			last_error TEXT,
			created_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}

package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// whole list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL UNIQUE,
		template     TEXT NOT NULL DEFAULT '',
		file_name    TEXT NOT NULL DEFAULT '',
		last_request TEXT NOT NULL DEFAULT '',
		memory_json  TEXT NOT NULL,
		turn_count   INTEGER NOT NULL DEFAULT 0 CHECK(turn_count >= 0),
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at)`,

	`CREATE TABLE IF NOT EXISTS snapshot_substitutions (
		snapshot_id      TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		position         INTEGER NOT NULL,
		giorno           TEXT NOT NULL,
		ora              INTEGER NOT NULL,
		reparto          TEXT NOT NULL,
		assente          TEXT NOT NULL,
		cappello_assente TEXT,
		sostituto        TEXT NOT NULL,
		regola_applicata TEXT NOT NULL,
		reasoning        TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (snapshot_id, position)
	)`,
}

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS project (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    instructions TEXT NOT NULL DEFAULT '',
    initial_clue TEXT NOT NULL DEFAULT '',
    participant_scoring TEXT NOT NULL DEFAULT '',
    homescreen_display TEXT NOT NULL DEFAULT 'display-all-locations',
    is_published BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS location (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL REFERENCES project(id) ON DELETE CASCADE,
    location_name TEXT NOT NULL,
    location_content TEXT NOT NULL DEFAULT '',
    location_position TEXT NOT NULL,
    score_points INTEGER NOT NULL DEFAULT 0,
    clue TEXT NOT NULL DEFAULT ''
);

-- No uniqueness constraint on (project_id, location_id,
-- participant_username); the hosted backend has none, dedup happens
-- client-side.
CREATE TABLE IF NOT EXISTS tracking (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    location_id INTEGER NOT NULL,
    participant_username TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// InitSQLite opens (creating if needed) the sqlite database at dsn and
// applies the schema.
func InitSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

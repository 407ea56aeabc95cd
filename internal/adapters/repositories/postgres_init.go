package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitPostgresSchema creates the dispatch tables on a Postgres database.
// Used by cmd/dbtool for shared server deployments; the SQLite schema in
// InitSchema covers local runs.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS tasks (
		task_id TEXT PRIMARY KEY,
		required_skills TEXT NOT NULL,
		priority TEXT NOT NULL,
		duration_min INTEGER NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		address TEXT,
		preferred_time TEXT,
		status TEXT NOT NULL DEFAULT 'open',
		technician_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS technicians (
		technician_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		skills TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		address TEXT,
		assigned INTEGER NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		remaining INTEGER NOT NULL DEFAULT 0,
		completion_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		on_time_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		shift_start_min INTEGER NOT NULL DEFAULT 480,
		shift_end_min INTEGER NOT NULL DEFAULT 960,
		on_duty BOOLEAN NOT NULL DEFAULT TRUE
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		duration_min INTEGER NOT NULL,
		alternatives INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (origin, destination)
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_tasks_status_technician
	ON tasks(status, technician_id);
	`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		title          TEXT NOT NULL,
		priority       INTEGER NOT NULL DEFAULT 4
		               CHECK(priority BETWEEN 1 AND 4),
		is_must        INTEGER NOT NULL DEFAULT 0,
		is_important   INTEGER NOT NULL DEFAULT 0,
		estimate_min   INTEGER NOT NULL DEFAULT 0,
		cognitive_load INTEGER NOT NULL DEFAULT 3
		               CHECK(cognitive_load BETWEEN 1 AND 5),
		context_type   TEXT NOT NULL DEFAULT '',
		due_date       TEXT,
		completed      INTEGER NOT NULL DEFAULT 0,
		completed_at   TEXT,
		postpone_count INTEGER NOT NULL DEFAULT 0,
		subtasks       TEXT NOT NULL DEFAULT '[]',
		position       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_context ON tasks(context_type)`,

	`CREATE TABLE IF NOT EXISTS behavior_profiles (
		user_id                TEXT PRIMARY KEY,
		peak_start_hour        INTEGER NOT NULL DEFAULT 9,
		peak_end_hour          INTEGER NOT NULL DEFAULT 12,
		preferred_duration_min INTEGER NOT NULL DEFAULT 30,
		switch_sensitivity     REAL NOT NULL DEFAULT 0.5
		                       CHECK(switch_sensitivity BETWEEN 0 AND 1),
		postpone_patterns      TEXT NOT NULL DEFAULT '{}',
		energy_patterns        TEXT NOT NULL DEFAULT '[]',
		streaks                TEXT NOT NULL DEFAULT '[]',
		updated_at             TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS proposals (
		id             TEXT PRIMARY KEY,
		type           TEXT NOT NULL,
		reason         TEXT NOT NULL DEFAULT '',
		primary_action TEXT NOT NULL,
		alternatives   TEXT NOT NULL DEFAULT '[]',
		status         TEXT NOT NULL DEFAULT 'pending'
		               CHECK(status IN ('pending','accepted','rejected','expired')),
		created_at     TEXT NOT NULL,
		expires_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals(status)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_expires ON proposals(expires_at)`,

	// Added after the initial schema shipped; re-runs hit the duplicate
	// column guard above.
	`ALTER TABLE tasks ADD COLUMN actual_min INTEGER NOT NULL DEFAULT 0`,
}

package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// full list re-runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS criteria (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		type       TEXT NOT NULL
		           CHECK(type IN ('countable','boolean','text')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS containers (
		id          TEXT PRIMARY KEY,
		parent_id   TEXT REFERENCES containers(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_containers_parent ON containers(parent_id)`,

	// role_id '' is the default (no-role) weight entry. No FK on role_id
	// because of the sentinel; role deletion is guarded by an explicit
	// dependents check instead.
	`CREATE TABLE IF NOT EXISTS container_criteria (
		container_id TEXT NOT NULL REFERENCES containers(id) ON DELETE CASCADE,
		criterion_id TEXT NOT NULL REFERENCES criteria(id),
		role_id      TEXT NOT NULL DEFAULT '',
		weight       REAL NOT NULL DEFAULT 1 CHECK(weight >= 0),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (container_id, criterion_id, role_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_container_criteria_criterion ON container_criteria(criterion_id)`,

	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS roles (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_container_roles (
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		container_id TEXT NOT NULL REFERENCES containers(id) ON DELETE CASCADE,
		role_id      TEXT NOT NULL REFERENCES roles(id),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (user_id, container_id)
	)`,

	// container_id NULL scopes a record user-globally. The unique index on
	// the (user, criterion, container) key is the enforcement point for the
	// one-record-per-tuple invariant; get-or-create relies on it.
	`CREATE TABLE IF NOT EXISTS user_criteria (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		criterion_id TEXT NOT NULL REFERENCES criteria(id),
		container_id TEXT REFERENCES containers(id) ON DELETE CASCADE,
		count_value  INTEGER NOT NULL DEFAULT 0 CHECK(count_value >= 0),
		is_fulfilled INTEGER NOT NULL DEFAULT 0,
		reviewed     INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_criteria_key
		ON user_criteria(user_id, criterion_id, COALESCE(container_id, ''))`,

	`CREATE INDEX IF NOT EXISTS idx_user_criteria_container ON user_criteria(container_id)`,

	// AUTOINCREMENT keeps ids strictly increasing so the history tie-break
	// (same created_at) stays deterministic.
	`CREATE TABLE IF NOT EXISTS text_entries (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		user_criterion_id TEXT NOT NULL REFERENCES user_criteria(id) ON DELETE CASCADE,
		value             TEXT NOT NULL,
		active            INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_text_entries_record ON text_entries(user_criterion_id)`,

	`CREATE TABLE IF NOT EXISTS user_comments (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		container_id TEXT NOT NULL REFERENCES containers(id) ON DELETE CASCADE,
		body         TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_comments_scope ON user_comments(user_id, container_id)`,
}

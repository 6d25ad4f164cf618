package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT     PRIMARY KEY,
		name       TEXT     NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		id         TEXT     PRIMARY KEY,
		project_id TEXT     NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		username   TEXT     NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (project_id, username)
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id         TEXT     PRIMARY KEY,
		project_id TEXT     NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title      TEXT     NOT NULL,
		status     TEXT     NOT NULL DEFAULT 'todo' CHECK (status IN ('todo', 'in_progress', 'done')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id           TEXT     PRIMARY KEY,
		project_id   TEXT     NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id      TEXT     REFERENCES tasks(id) ON DELETE CASCADE,
		parent_id    TEXT,
		author_id    TEXT     NOT NULL DEFAULT '',
		content      TEXT     NOT NULL,
		mentions     TEXT     NOT NULL DEFAULT '[]',
		linked_tasks TEXT     NOT NULL DEFAULT '[]',
		is_edited    INTEGER  NOT NULL DEFAULT 0,
		is_deleted   INTEGER  NOT NULL DEFAULT 0,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_scope ON comments (project_id, task_id)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	// Column additions (idempotent, checks if column exists first)
	columnMigrations := []struct {
		table, column, definition string
	}{
		{"members", "display_name", "TEXT NOT NULL DEFAULT ''"},
	}

	for _, cm := range columnMigrations {
		if err := addColumnIfNotExists(db, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(db *sql.DB, table, column, definition string) error {
	exists, err := columnExists(db, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("checking table info: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			slog.Warn("closing rows", "error", cerr)
		}
	}()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("scanning column info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterating columns: %w", err)
	}

	return false, nil
}

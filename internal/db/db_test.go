package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates new database",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "threadline.db")
			},
		},
		{
			name: "creates nested directories",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "a", "b", "threadline.db")
			},
		},
		{
			name: "opens existing database",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "threadline.db")
				d, err := Open(path)
				if err != nil {
					t.Fatalf("setup: %v", err)
				}
				if err := d.Close(); err != nil {
					t.Fatalf("setup close: %v", err)
				}
				return path
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			d, err := Open(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() {
				if err := d.Close(); err != nil {
					t.Errorf("close: %v", err)
				}
			}()

			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Error("database file was not created")
			}
		})
	}
}

func TestWALMode(t *testing.T) {
	d := openTestDB(t)

	var mode string
	if err := d.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestForeignKeys(t *testing.T) {
	d := openTestDB(t)

	var fk int
	if err := d.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestMigrations(t *testing.T) {
	tests := []struct {
		name  string
		table string
		cols  []string
	}{
		{
			name:  "projects table exists",
			table: "projects",
			cols:  []string{"id", "name", "created_at"},
		},
		{
			name:  "members table exists",
			table: "members",
			cols:  []string{"id", "project_id", "username", "created_at", "display_name"},
		},
		{
			name:  "tasks table exists",
			table: "tasks",
			cols:  []string{"id", "project_id", "title", "status", "created_at", "updated_at"},
		},
		{
			name:  "comments table exists",
			table: "comments",
			cols: []string{
				"id", "project_id", "task_id", "parent_id", "author_id", "content",
				"mentions", "linked_tasks", "is_edited", "is_deleted", "created_at", "updated_at",
			},
		},
	}

	d := openTestDB(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := tableColumns(t, d, tt.table)
			if len(cols) != len(tt.cols) {
				t.Fatalf("got %d columns, want %d: %v", len(cols), len(tt.cols), cols)
			}
			for i, want := range tt.cols {
				if cols[i] != want {
					t.Errorf("column %d = %q, want %q", i, cols[i], want)
				}
			}
		})
	}
}

func TestTaskStatusConstraint(t *testing.T) {
	d := openTestDB(t)
	insertProject(t, d, "p1")

	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{"todo is valid", "todo", false},
		{"in_progress is valid", "in_progress", false},
		{"done is valid", "done", false},
		{"blocked is invalid", "blocked", true},
		{"empty is invalid", "", true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Exec(
				`INSERT INTO tasks (id, project_id, title, status) VALUES (?, ?, ?, ?)`,
				fmt.Sprintf("t-%d", i), "p1", "Task", tt.status,
			)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUniqueUsernamePerProject(t *testing.T) {
	d := openTestDB(t)
	insertProject(t, d, "p1")
	insertProject(t, d, "p2")

	insert := `INSERT INTO members (id, project_id, username) VALUES (?, ?, ?)`
	if _, err := d.Exec(insert, "m1", "p1", "alice"); err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if _, err := d.Exec(insert, "m2", "p2", "alice"); err != nil {
		t.Errorf("same username in another project: %v", err)
	}
	if _, err := d.Exec(insert, "m3", "p1", "alice"); err == nil {
		t.Error("expected unique violation for duplicate username in project")
	}
}

func TestCascadeDelete(t *testing.T) {
	d := openTestDB(t)
	insertProject(t, d, "p1")

	if _, err := d.Exec(`INSERT INTO tasks (id, project_id, title) VALUES ('t1', 'p1', 'Setup CI')`); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	for i := 0; i < 3; i++ {
		_, err := d.Exec(
			`INSERT INTO comments (id, project_id, content) VALUES (?, ?, ?)`,
			fmt.Sprintf("c%d", i), "p1", fmt.Sprintf("comment %d", i),
		)
		if err != nil {
			t.Fatalf("insert comment %d: %v", i, err)
		}
	}

	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM comments WHERE project_id = 'p1'`).Scan(&count); err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 comments, got %d", count)
	}

	if _, err := d.Exec(`DELETE FROM projects WHERE id = 'p1'`); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	for _, table := range []string{"comments", "tasks"} {
		if err := d.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE project_id = 'p1'`, table)).Scan(&count); err != nil {
			t.Fatalf("count %s after delete: %v", table, err)
		}
		if count != 0 {
			t.Errorf("expected 0 %s after cascade delete, got %d", table, count)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threadline.db")

	// Open twice; migrations should not fail on second run
	d1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := d1.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	d2, err := Open(path)
	if err != nil {
		t.Fatalf("second open (idempotency): %v", err)
	}
	if err := d2.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(p) != "threadline.db" {
		t.Errorf("expected filename threadline.db, got %s", filepath.Base(p))
	}

	dir := filepath.Base(filepath.Dir(p))
	if dir != "tl" {
		t.Errorf("expected directory tl, got %s", dir)
	}
}

// openTestDB creates a temporary database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "threadline.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return d
}

func insertProject(t *testing.T, d *sql.DB, id string) {
	t.Helper()
	if _, err := d.Exec(`INSERT INTO projects (id, name) VALUES (?, ?)`, id, "Project "+id); err != nil {
		t.Fatalf("insert project %s: %v", id, err)
	}
}

// tableColumns returns column names for a table using PRAGMA table_info.
func tableColumns(t *testing.T, d *sql.DB, table string) []string {
	t.Helper()
	rows, err := d.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		t.Fatalf("pragma table_info(%s): %v", table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			t.Errorf("close rows: %v", err)
		}
	}()

	var cols []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notnull int
		var dflt *string
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}

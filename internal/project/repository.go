package project

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a project does not exist.
var ErrNotFound = errors.New("project not found")

// Repository provides CRUD operations for projects.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a project repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Add creates a project.
func (r *Repository) Add(name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	id := uuid.NewString()
	if _, err := r.db.Exec(
		"INSERT INTO projects (id, name, created_at) VALUES (?, ?, ?)",
		id, name, time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("inserting project: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a project by its ID.
func (r *Repository) GetByID(id string) (*Project, error) {
	var p Project
	err := r.db.QueryRow(
		"SELECT id, name, created_at FROM projects WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying project %s: %w", id, err)
	}
	return &p, nil
}

// List returns all projects, oldest first.
func (r *Repository) List() ([]*Project, error) {
	rows, err := r.db.Query("SELECT id, name, created_at FROM projects ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	projects := []*Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	return projects, nil
}

// Delete removes a project along with its members, tasks and comments.
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

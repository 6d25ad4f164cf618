package task

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// Repository provides CRUD operations for tasks.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a task repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, project_id, title, status, created_at, updated_at`

// Add creates a task in the todo state.
func (r *Repository) Add(projectID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.Exec(
		"INSERT INTO tasks (id, project_id, title, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, projectID, title, string(Todo), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a task by its ID.
func (r *Repository) GetByID(id string) (*Task, error) {
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM tasks WHERE id = ?", selectColumns), id)

	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying task %s: %w", id, err)
	}

	return &t, nil
}

// ListByProject returns a project's tasks in creation order.
func (r *Repository) ListByProject(projectID string) ([]*Task, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM tasks WHERE project_id = ? ORDER BY rowid", selectColumns),
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	tasks := []*Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// SetStatus moves a task to a new status.
func (r *Repository) SetStatus(id string, status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status %q", status)
	}

	result, err := r.db.Exec(
		"UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
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

package member

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a member does not exist.
	ErrNotFound = errors.New("member not found")
	// ErrDuplicate is returned when a username is already taken in a project.
	ErrDuplicate = errors.New("username already exists in project")
)

// Store manages project members in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a member store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add creates a new member in a project.
func (s *Store) Add(projectID, username, displayName string) (*Member, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)

	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if !ValidUsername(username) {
		return nil, fmt.Errorf("invalid username %q: only letters, digits and underscore are allowed", username)
	}
	if displayName == "" {
		displayName = username
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO members (id, project_id, username, display_name, created_at) VALUES (?, ?, ?, ?, ?)",
		id, projectID, username, displayName, time.Now().UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, username)
		}
		return nil, fmt.Errorf("adding member: %w", err)
	}

	return s.GetByID(id)
}

// ListByProject returns a project's members in the order they joined.
func (s *Store) ListByProject(projectID string) ([]*Member, error) {
	rows, err := s.db.Query(
		"SELECT id, project_id, username, display_name, created_at FROM members WHERE project_id = ? ORDER BY rowid",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	members := []*Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Username, &m.DisplayName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}

// GetByID returns a member by ID.
func (s *Store) GetByID(id string) (*Member, error) {
	var m Member
	err := s.db.QueryRow(
		"SELECT id, project_id, username, display_name, created_at FROM members WHERE id = ?", id,
	).Scan(&m.ID, &m.ProjectID, &m.Username, &m.DisplayName, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying member: %w", err)
	}
	return &m, nil
}

// Delete removes a member by ID. Comments they wrote keep their author ID.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec("DELETE FROM members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

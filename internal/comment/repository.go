package comment

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a comment does not exist.
var ErrNotFound = errors.New("comment not found")

// Repository provides data access for comments.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a comment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, project_id, task_id, parent_id, author_id, content, mentions, linked_tasks, is_edited, is_deleted, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Insert stores a new comment. ID and timestamps are assigned here.
func (r *Repository) Insert(c *Comment) (*Comment, error) {
	mentions, linked, err := encodeRefs(c)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = r.db.Exec(
		`INSERT INTO comments (id, project_id, task_id, parent_id, author_id, content, mentions, linked_tasks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.ProjectID, c.TaskID, c.ParentID, c.AuthorID, c.Content, mentions, linked, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a comment by ID.
func (r *Repository) GetByID(id string) (*Comment, error) {
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM comments WHERE id = ?", selectColumns), id)

	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading comment %s: %w", id, err)
	}

	return c, nil
}

// ListByScope returns every comment in a thread, soft-deleted ones
// included, in the order they were created.
func (r *Repository) ListByScope(s Scope) ([]*Comment, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM comments WHERE project_id = ? AND IFNULL(task_id, '') = ? ORDER BY rowid", selectColumns),
		s.ProjectID, s.TaskID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			slog.Warn("closing rows", "error", cerr)
		}
	}()

	comments := []*Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

// Update writes the mutable fields of c: content, references and flags.
func (r *Repository) Update(c *Comment) error {
	mentions, linked, err := encodeRefs(c)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(
		`UPDATE comments SET content = ?, mentions = ?, linked_tasks = ?, is_edited = ?, is_deleted = ?, updated_at = ?
		WHERE id = ?`,
		c.Content, mentions, linked, c.IsEdited, c.IsDeleted, time.Now().UTC(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating comment: %w", err)
	}

	return checkAffected(result, c.ID)
}

// SoftDelete marks a comment deleted and clears its content and references.
// The row stays so replies keep their parent.
func (r *Repository) SoftDelete(id string) error {
	result, err := r.db.Exec(
		`UPDATE comments SET is_deleted = 1, content = '', mentions = '[]', linked_tasks = '[]', updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	return checkAffected(result, id)
}

func checkAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func encodeRefs(c *Comment) (string, string, error) {
	mentions, err := json.Marshal(nonNil(c.Mentions))
	if err != nil {
		return "", "", fmt.Errorf("encoding mentions: %w", err)
	}
	linked, err := json.Marshal(nonNil(c.LinkedTasks))
	if err != nil {
		return "", "", fmt.Errorf("encoding linked tasks: %w", err)
	}
	return string(mentions), string(linked), nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func scanComment(row rowScanner) (*Comment, error) {
	var (
		c                Comment
		taskID, parentID sql.NullString
		mentions, linked string
	)
	err := row.Scan(
		&c.ID, &c.ProjectID, &taskID, &parentID, &c.AuthorID, &c.Content,
		&mentions, &linked, &c.IsEdited, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if taskID.Valid {
		c.TaskID = &taskID.String
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}

	if err := json.Unmarshal([]byte(mentions), &c.Mentions); err != nil {
		return nil, fmt.Errorf("decoding mentions: %w", err)
	}
	if err := json.Unmarshal([]byte(linked), &c.LinkedTasks); err != nil {
		return nil, fmt.Errorf("decoding linked tasks: %w", err)
	}

	return &c, nil
}

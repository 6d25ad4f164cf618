// Package comment provides threaded comments on projects and tasks: the
// domain model, data access, the service that resolves references at save
// time, and the tree builder used to display threads.
package comment

import "time"

// Comment is a user-authored message on a project or on one of its tasks,
// optionally replying to another comment.
type Comment struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	TaskID      *string   `json:"task_id,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	AuthorID    string    `json:"author_id"`
	Content     string    `json:"content"`
	Mentions    []string  `json:"mentions"`
	LinkedTasks []string  `json:"linked_tasks"`
	IsEdited    bool      `json:"is_edited"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Scope identifies the thread a comment belongs to. An empty TaskID means
// the project-level thread.
type Scope struct {
	ProjectID string
	TaskID    string
}

// ScopeOf returns the thread scope of c.
func ScopeOf(c *Comment) Scope {
	s := Scope{ProjectID: c.ProjectID}
	if c.TaskID != nil {
		s.TaskID = *c.TaskID
	}
	return s
}

// taskIDPtr returns nil for the project-level thread.
func (s Scope) taskIDPtr() *string {
	if s.TaskID == "" {
		return nil
	}
	id := s.TaskID
	return &id
}

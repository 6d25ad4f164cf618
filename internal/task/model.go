// Package task provides the task domain model and data access. Tasks are the
// targets of #task references in comments.
package task

import "time"

// Status is the workflow state of a task.
type Status string

const (
	Todo       Status = "todo"
	InProgress Status = "in_progress"
	Done       Status = "done"
)

// ValidStatuses is the set of allowed task statuses.
var ValidStatuses = []Status{Todo, InProgress, Done}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case Todo:
		return "To do"
	case InProgress:
		return "In progress"
	case Done:
		return "Done"
	default:
		return string(s)
	}
}

// Task is a unit of work inside a project.
type Task struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

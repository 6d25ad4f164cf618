package comment

// EventType names a change to a comment thread.
type EventType string

const (
	EventCreated EventType = "comment.created"
	EventEdited  EventType = "comment.edited"
	EventDeleted EventType = "comment.deleted"
)

// Event tells subscribers that a thread changed and should be re-fetched.
type Event struct {
	Type      EventType `json:"type"`
	ProjectID string    `json:"project_id"`
	TaskID    string    `json:"task_id,omitempty"`
	CommentID string    `json:"comment_id"`
}

// Publisher receives thread change events. Delivery is best effort.
type Publisher interface {
	Publish(Event)
}

func newEvent(t EventType, c *Comment) Event {
	s := ScopeOf(c)
	return Event{Type: t, ProjectID: s.ProjectID, TaskID: s.TaskID, CommentID: c.ID}
}

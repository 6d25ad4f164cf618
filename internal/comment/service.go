package comment

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/evcraddock/threadline/internal/member"
	"github.com/evcraddock/threadline/internal/mention"
	"github.com/evcraddock/threadline/internal/metrics"
	"github.com/evcraddock/threadline/internal/task"
)

var (
	// ErrEmptyContent is returned when a comment has no text.
	ErrEmptyContent = errors.New("comment content is required")
	// ErrInvalidParent is returned when a reply targets a comment outside its thread.
	ErrInvalidParent = errors.New("parent comment is not in this thread")
	// ErrInvalidTask is returned when a comment targets a task outside its project.
	ErrInvalidTask = errors.New("task is not in this project")
	// ErrUnknownAuthor is returned when the author is not a project member.
	ErrUnknownAuthor = errors.New("author is not a project member")
	// ErrDeleted is returned when editing a deleted comment.
	ErrDeleted = errors.New("comment has been deleted")
)

// MemberLister loads a project's roster for mention resolution.
type MemberLister interface {
	ListByProject(projectID string) ([]*member.Member, error)
}

// TaskLister loads a project's tasks for task-link resolution.
type TaskLister interface {
	ListByProject(projectID string) ([]*task.Task, error)
}

// NewComment is the input for creating a comment.
type NewComment struct {
	ProjectID string
	TaskID    string
	ParentID  string
	AuthorID  string
	Content   string
}

// Suggestions is the autocomplete state for a compose box.
type Suggestions struct {
	Trigger    mention.Trigger     `json:"trigger"`
	Candidates []mention.Candidate `json:"candidates"`
}

// Service resolves references in comment content and persists comments.
type Service struct {
	repo      *Repository
	members   MemberLister
	tasks     TaskLister
	publisher Publisher
}

// NewService creates a comment service.
func NewService(repo *Repository, members MemberLister, tasks TaskLister) *Service {
	return &Service{repo: repo, members: members, tasks: tasks}
}

// SetPublisher registers where change events are sent.
func (s *Service) SetPublisher(p Publisher) {
	s.publisher = p
}

// Create validates and stores a new comment, resolving its mentions and
// task links against the project's current roster and tasks.
func (s *Service) Create(in NewComment) (*Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyContent
	}

	members, tasks, err := s.rosters(in.ProjectID)
	if err != nil {
		return nil, err
	}

	scope := Scope{ProjectID: in.ProjectID, TaskID: in.TaskID}
	if scope.TaskID != "" && !hasTask(tasks, scope.TaskID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTask, scope.TaskID)
	}
	if in.AuthorID != "" && !hasMember(members, in.AuthorID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAuthor, in.AuthorID)
	}

	c := &Comment{
		ProjectID: in.ProjectID,
		TaskID:    scope.taskIDPtr(),
		AuthorID:  in.AuthorID,
		Content:   in.Content,
	}

	if in.ParentID != "" {
		parent, err := s.repo.GetByID(in.ParentID)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidParent, in.ParentID)
		}
		if err != nil {
			return nil, err
		}
		if ScopeOf(parent) != scope {
			return nil, fmt.Errorf("%w: %s", ErrInvalidParent, in.ParentID)
		}
		c.ParentID = &parent.ID
	}

	parsed := mention.Parse(in.Content, members, tasks)
	c.Mentions = parsed.Mentions
	c.LinkedTasks = parsed.LinkedTasks

	saved, err := s.repo.Insert(c)
	if err != nil {
		return nil, err
	}

	slog.Info("comment created",
		"id", saved.ID,
		"project_id", saved.ProjectID,
		"task_id", scope.TaskID,
		"mentions", len(saved.Mentions),
		"linked_tasks", len(saved.LinkedTasks),
	)
	metrics.RecordComment(metrics.ActionCreated, len(saved.Mentions), len(saved.LinkedTasks))
	s.publish(EventCreated, saved)

	return saved, nil
}

// Edit replaces a comment's content and re-resolves its references.
func (s *Service) Edit(id, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted {
		return nil, fmt.Errorf("%w: %s", ErrDeleted, id)
	}

	members, tasks, err := s.rosters(c.ProjectID)
	if err != nil {
		return nil, err
	}

	parsed := mention.Parse(content, members, tasks)
	c.Content = content
	c.Mentions = parsed.Mentions
	c.LinkedTasks = parsed.LinkedTasks
	c.IsEdited = true

	if err := s.repo.Update(c); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	slog.Info("comment edited", "id", id, "mentions", len(updated.Mentions), "linked_tasks", len(updated.LinkedTasks))
	metrics.RecordComment(metrics.ActionEdited, len(updated.Mentions), len(updated.LinkedTasks))
	s.publish(EventEdited, updated)

	return updated, nil
}

// Delete soft-deletes a comment. Deleting twice is not an error.
func (s *Service) Delete(id string) error {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if c.IsDeleted {
		return nil
	}

	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}

	slog.Info("comment deleted", "id", id)
	metrics.RecordComment(metrics.ActionDeleted, 0, 0)
	s.publish(EventDeleted, c)

	return nil
}

// Get returns a single comment.
func (s *Service) Get(id string) (*Comment, error) {
	return s.repo.GetByID(id)
}

// Thread returns a scope's comments arranged into reply trees.
func (s *Service) Thread(scope Scope) ([]*Node, error) {
	comments, err := s.repo.ListByScope(scope)
	if err != nil {
		return nil, err
	}
	return BuildTree(comments), nil
}

// Preview resolves references in content without saving anything.
func (s *Service) Preview(projectID, content string) (mention.Result, error) {
	members, tasks, err := s.rosters(projectID)
	if err != nil {
		return mention.Result{}, err
	}
	return mention.Parse(content, members, tasks), nil
}

// Suggest returns autocomplete candidates for the token at caret.
func (s *Service) Suggest(projectID, text string, caret int) (Suggestions, error) {
	trig := mention.DetectTrigger(text, caret)
	if !trig.Active() {
		return Suggestions{Trigger: trig, Candidates: []mention.Candidate{}}, nil
	}

	members, tasks, err := s.rosters(projectID)
	if err != nil {
		return Suggestions{}, err
	}

	return Suggestions{
		Trigger:    trig,
		Candidates: mention.Suggest(trig.Kind, trig.Query, members, tasks),
	}, nil
}

func (s *Service) rosters(projectID string) ([]*member.Member, []*task.Task, error) {
	members, err := s.members.ListByProject(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading members: %w", err)
	}
	tasks, err := s.tasks.ListByProject(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	return members, tasks, nil
}

func (s *Service) publish(t EventType, c *Comment) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(newEvent(t, c))
}

func hasTask(tasks []*task.Task, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func hasMember(members []*member.Member, id string) bool {
	for _, m := range members {
		if m.ID == id {
			return true
		}
	}
	return false
}

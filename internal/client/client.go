// Package client provides an HTTP client for the threadline REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evcraddock/threadline/internal/comment"
	"github.com/evcraddock/threadline/internal/member"
	"github.com/evcraddock/threadline/internal/mention"
	"github.com/evcraddock/threadline/internal/project"
	"github.com/evcraddock/threadline/internal/task"
)

// Client is an HTTP client for the threadline API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// ProjectDetail is the response from GET /api/projects/{id}.
type ProjectDetail struct {
	Project *project.Project `json:"project"`
	Members []*member.Member `json:"members"`
	Tasks   []*task.Task     `json:"tasks"`
}

// CommentInput is the body for posting a comment.
type CommentInput struct {
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty"`
	AuthorID string `json:"author_id,omitempty"`
}

// Preview is the parse result for draft content.
type Preview struct {
	mention.Result
	HTML string `json:"html"`
}

// ListProjects returns all projects.
func (c *Client) ListProjects() ([]*project.Project, error) {
	var projects []*project.Project
	if err := c.get("/api/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns a project with its members and tasks.
func (c *Client) GetProject(id string) (*ProjectDetail, error) {
	var resp ProjectDetail
	if err := c.get("/api/projects/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddProject creates a project.
func (c *Client) AddProject(name string) (*project.Project, error) {
	var p project.Project
	if err := c.post("/api/projects", map[string]string{"name": name}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project and everything in it.
func (c *Client) DeleteProject(id string) error {
	return c.doDelete("/api/projects/" + url.PathEscape(id))
}

// ListMembers returns a project's roster.
func (c *Client) ListMembers(projectID string) ([]*member.Member, error) {
	var members []*member.Member
	if err := c.get(projectPath(projectID, "members"), &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember adds a member to a project.
func (c *Client) AddMember(projectID, username, displayName string) (*member.Member, error) {
	body := map[string]string{"username": username, "display_name": displayName}
	var m member.Member
	if err := c.post(projectPath(projectID, "members"), body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMember removes a member.
func (c *Client) DeleteMember(id string) error {
	return c.doDelete("/api/members/" + url.PathEscape(id))
}

// ListTasks returns a project's tasks.
func (c *Client) ListTasks(projectID string) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := c.get(projectPath(projectID, "tasks"), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// AddTask creates a task.
func (c *Client) AddTask(projectID, title string) (*task.Task, error) {
	var t task.Task
	if err := c.post(projectPath(projectID, "tasks"), map[string]string{"title": title}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SetTaskStatus moves a task to a new status.
func (c *Client) SetTaskStatus(id string, status task.Status) (*task.Task, error) {
	var t task.Task
	path := "/api/tasks/" + url.PathEscape(id) + "/status"
	if err := c.post(path, map[string]string{"status": string(status)}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Thread returns a thread as a reply tree. An empty taskID selects the
// project-level thread.
func (c *Client) Thread(projectID, taskID string) ([]*comment.Node, error) {
	var tree []*comment.Node
	if err := c.get(commentsPath(projectID, taskID), &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// AddComment posts a comment or reply.
func (c *Client) AddComment(projectID, taskID string, in CommentInput) (*comment.Comment, error) {
	var comm comment.Comment
	if err := c.post(commentsPath(projectID, taskID), in, &comm); err != nil {
		return nil, err
	}
	return &comm, nil
}

// EditComment replaces a comment's content.
func (c *Client) EditComment(id, content string) (*comment.Comment, error) {
	var comm comment.Comment
	path := "/api/comments/" + url.PathEscape(id)
	if err := c.send(http.MethodPatch, path, map[string]string{"content": content}, &comm); err != nil {
		return nil, err
	}
	return &comm, nil
}

// DeleteComment soft-deletes a comment.
func (c *Client) DeleteComment(id string) error {
	return c.doDelete("/api/comments/" + url.PathEscape(id))
}

// Preview parses draft content without saving it.
func (c *Client) Preview(projectID, content string) (*Preview, error) {
	var p Preview
	if err := c.post(projectPath(projectID, "preview"), map[string]string{"content": content}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Suggest returns autocomplete candidates. A nil caret means end of text.
func (c *Client) Suggest(projectID, text string, caret *int) (*comment.Suggestions, error) {
	body := map[string]any{"text": text}
	if caret != nil {
		body["caret"] = *caret
	}
	var s comment.Suggestions
	if err := c.post(projectPath(projectID, "suggest"), body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Apply inserts a candidate at caret and returns the new text and caret.
func (c *Client) Apply(projectID, text string, caret *int, cand mention.Candidate) (string, int, error) {
	body := map[string]any{"text": text, "candidate": cand}
	if caret != nil {
		body["caret"] = *caret
	}
	var resp struct {
		Text  string `json:"text"`
		Caret int    `json:"caret"`
	}
	if err := c.post(projectPath(projectID, "suggest/apply"), body, &resp); err != nil {
		return "", 0, err
	}
	return resp.Text, resp.Caret, nil
}

func projectPath(projectID, suffix string) string {
	return "/api/projects/" + url.PathEscape(projectID) + "/" + suffix
}

func commentsPath(projectID, taskID string) string {
	if taskID == "" {
		return projectPath(projectID, "comments")
	}
	return projectPath(projectID, "tasks/"+url.PathEscape(taskID)+"/comments")
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body, result any) error {
	return c.send(http.MethodPost, path, body, result)
}

func (c *Client) send(method, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// doDelete performs a DELETE request.
func (c *Client) doDelete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// do executes an HTTP request and handles errors.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := "server error: " + http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/evcraddock/threadline/internal/comment"
	"github.com/evcraddock/threadline/internal/mention"
	"github.com/evcraddock/threadline/internal/project"
	"github.com/evcraddock/threadline/internal/task"
)

func jsonServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func writeJSON(t *testing.T, w http.ResponseWriter, code int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("read body: %v", err)
		return nil
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Errorf("unmarshal body %q: %v", data, err)
	}
	return body
}

func TestListProjects(t *testing.T) {
	c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects" {
			t.Errorf("path = %q, want /api/projects", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, []*project.Project{{ID: "p1", Name: "Threadline"}})
	})

	projects, err := c.ListProjects()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Threadline" {
		t.Errorf("projects = %+v", projects)
	}
}

func TestAddComment(t *testing.T) {
	c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/projects/p1/tasks/t1/comments" {
			t.Errorf("path = %q", r.URL.Path)
		}
		body := readBody(t, r)
		if body["content"] != "@alice hi" || body["parent_id"] != "c0" {
			t.Errorf("body = %v", body)
		}
		if _, ok := body["author_id"]; ok {
			t.Error("empty author_id should be omitted")
		}
		writeJSON(t, w, http.StatusCreated, comment.Comment{ID: "c1", Content: "@alice hi", Mentions: []string{"u1"}})
	})

	got, err := c.AddComment("p1", "t1", CommentInput{Content: "@alice hi", ParentID: "c0"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if diff := cmp.Diff([]string{"u1"}, got.Mentions); diff != "" {
		t.Errorf("mentions mismatch (-want +got):\n%s", diff)
	}
}

func TestThreadProjectLevel(t *testing.T) {
	c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/p1/comments" {
			t.Errorf("path = %q", r.URL.Path)
		}
		root := &comment.Node{Comment: comment.Comment{ID: "a"}}
		root.Replies = []*comment.Node{{Comment: comment.Comment{ID: "b"}}}
		writeJSON(t, w, http.StatusOK, []*comment.Node{root})
	})

	tree, err := c.Thread("p1", "")
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(tree) != 1 || len(tree[0].Replies) != 1 || tree[0].Replies[0].ID != "b" {
		t.Errorf("tree = %+v", tree)
	}
}

func TestEditCommentUsesPatch(t *testing.T) {
	c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/comments/c1" {
			t.Errorf("%s %s, want PATCH /api/comments/c1", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, comment.Comment{ID: "c1", IsEdited: true})
	})

	got, err := c.EditComment("c1", "new")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !got.IsEdited {
		t.Error("expected is_edited")
	}
}

func TestSetTaskStatus(t *testing.T) {
	c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/t1/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if body := readBody(t, r); body["status"] != "done" {
			t.Errorf("body = %v", body)
		}
		writeJSON(t, w, http.StatusOK, task.Task{ID: "t1", Status: task.Done})
	})

	got, err := c.SetTaskStatus("t1", task.Done)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if got.Status != task.Done {
		t.Errorf("status = %q", got.Status)
	}
}

func TestSuggestCaret(t *testing.T) {
	tests := []struct {
		name      string
		caret     *int
		wantCaret bool
	}{
		{"omitted", nil, false},
		{"explicit", intPtr(3), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
				body := readBody(t, r)
				if _, ok := body["caret"]; ok != tt.wantCaret {
					t.Errorf("caret present = %v, want %v", ok, tt.wantCaret)
				}
				writeJSON(t, w, http.StatusOK, comment.Suggestions{
					Trigger:    mention.Trigger{Kind: mention.TriggerMention, Query: "al"},
					Candidates: []mention.Candidate{{Kind: mention.TriggerMention, ID: "u1", Label: "alice"}},
				})
			})

			s, err := c.Suggest("p1", "@al", tt.caret)
			if err != nil {
				t.Fatalf("suggest: %v", err)
			}
			if len(s.Candidates) != 1 || s.Candidates[0].Label != "alice" {
				t.Errorf("candidates = %+v", s.Candidates)
			}
		})
	}
}

func TestApply(t *testing.T) {
	c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/p1/suggest/apply" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"text": "hi @alice ", "caret": 10})
	})

	text, caret, err := c.Apply("p1", "hi @al", nil, mention.Candidate{Kind: mention.TriggerMention, Label: "alice"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if text != "hi @alice " || caret != 10 {
		t.Errorf("got %q/%d", text, caret)
	}
}

func TestErrorResponse(t *testing.T) {
	c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "project not found: p9"})
	})

	_, err := c.GetProject("p9")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "project not found: p9" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestErrorResponseWithoutBody(t *testing.T) {
	c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.DeleteProject("p1")
	if err == nil || err.Error() != "server error: Bad Gateway" {
		t.Errorf("err = %v", err)
	}
}

func TestPathEscaping(t *testing.T) {
	c := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/projects/a%2Fb/members" {
			t.Errorf("escaped path = %q", r.URL.EscapedPath())
		}
		writeJSON(t, w, http.StatusOK, []any{})
	})

	if _, err := c.ListMembers("a/b"); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func intPtr(i int) *int { return &i }

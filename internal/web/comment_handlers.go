package web

import (
	"net/http"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/evcraddock/threadline/internal/comment"
	"github.com/evcraddock/threadline/internal/mention"
)

type addCommentRequest struct {
	Content  string `json:"content" validate:"required,max=10000"`
	ParentID string `json:"parent_id"`
	AuthorID string `json:"author_id"`
}

type editCommentRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

type previewRequest struct {
	Content string `json:"content" validate:"max=10000"`
}

// previewResponse adds rendered HTML to the parse result.
type previewResponse struct {
	mention.Result
	HTML string `json:"html"`
}

type suggestRequest struct {
	Text string `json:"text" validate:"max=10000"`
	// Caret is a rune offset; omitted means the end of text.
	Caret *int `json:"caret"`
}

func (r *suggestRequest) caret() int {
	if r.Caret == nil {
		return utf8.RuneCountInString(r.Text)
	}
	return *r.Caret
}

type applyRequest struct {
	suggestRequest
	Candidate mention.Candidate `json:"candidate"`
}

type applyResponse struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

// commentScope resolves the thread addressed by {id} and optional {taskID},
// writing a 404 when either does not exist or the task is in another project.
func (s *Server) commentScope(w http.ResponseWriter, r *http.Request) (comment.Scope, bool) {
	vars := mux.Vars(r)
	p, ok := s.requireProject(w, vars["id"])
	if !ok {
		return comment.Scope{}, false
	}

	scope := comment.Scope{ProjectID: p.ID}
	taskID, hasTask := vars["taskID"]
	if !hasTask {
		return scope, true
	}

	t, err := s.tasks.GetByID(taskID)
	if err != nil {
		writeServiceError(w, "loading task", err)
		return comment.Scope{}, false
	}
	if t.ProjectID != p.ID {
		apiError(w, "task not found in project", http.StatusNotFound)
		return comment.Scope{}, false
	}
	scope.TaskID = t.ID
	return scope, true
}

// apiThread returns a thread as a reply tree.
func (s *Server) apiThread(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.commentScope(w, r)
	if !ok {
		return
	}

	tree, err := s.comments.Thread(scope)
	if err != nil {
		writeServiceError(w, "loading comments", err)
		return
	}
	apiJSON(w, tree, http.StatusOK)
}

// apiAddComment posts a comment or reply to a thread.
func (s *Server) apiAddComment(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.commentScope(w, r)
	if !ok {
		return
	}
	var req addCommentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	c, err := s.comments.Create(comment.NewComment{
		ProjectID: scope.ProjectID,
		TaskID:    scope.TaskID,
		ParentID:  req.ParentID,
		AuthorID:  req.AuthorID,
		Content:   req.Content,
	})
	if err != nil {
		writeServiceError(w, "adding comment", err)
		return
	}
	apiJSON(w, c, http.StatusCreated)
}

// apiEditComment replaces a comment's content.
func (s *Server) apiEditComment(w http.ResponseWriter, r *http.Request) {
	var req editCommentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	c, err := s.comments.Edit(mux.Vars(r)["id"], req.Content)
	if err != nil {
		writeServiceError(w, "editing comment", err)
		return
	}
	apiJSON(w, c, http.StatusOK)
}

// apiDeleteComment soft-deletes a comment.
func (s *Server) apiDeleteComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.comments.Delete(id); err != nil {
		writeServiceError(w, "deleting comment", err)
		return
	}
	apiJSON(w, map[string]any{"id": id, "removed": true}, http.StatusOK)
}

// apiPreview parses draft content without saving it.
func (s *Server) apiPreview(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requireProject(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	var req previewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := s.comments.Preview(p.ID, req.Content)
	if err != nil {
		writeServiceError(w, "previewing comment", err)
		return
	}
	apiJSON(w, previewResponse{Result: res, HTML: res.Annotated.HTML()}, http.StatusOK)
}

// apiSuggest returns autocomplete candidates for the token at the caret.
func (s *Server) apiSuggest(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requireProject(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	var req suggestRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sugg, err := s.comments.Suggest(p.ID, req.Text, req.caret())
	if err != nil {
		writeServiceError(w, "suggesting", err)
		return
	}
	apiJSON(w, sugg, http.StatusOK)
}

// apiApplySuggestion inserts a chosen candidate at the caret.
func (s *Server) apiApplySuggestion(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireProject(w, mux.Vars(r)["id"]); !ok {
		return
	}
	var req applyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Candidate.Label == "" {
		apiError(w, "candidate.label is required", http.StatusBadRequest)
		return
	}

	text, caret := mention.Apply(req.Text, req.caret(), req.Candidate)
	apiJSON(w, applyResponse{Text: text, Caret: caret}, http.StatusOK)
}

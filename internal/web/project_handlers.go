package web

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/evcraddock/threadline/internal/member"
	"github.com/evcraddock/threadline/internal/project"
	"github.com/evcraddock/threadline/internal/task"
)

type addProjectRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

func (r *addProjectRequest) normalize() { r.Name = strings.TrimSpace(r.Name) }

type addMemberRequest struct {
	Username    string `json:"username" validate:"required,max=64,username"`
	DisplayName string `json:"display_name" validate:"max=200"`
}

func (r *addMemberRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
}

type addTaskRequest struct {
	Title string `json:"title" validate:"required,max=500"`
}

func (r *addTaskRequest) normalize() { r.Title = strings.TrimSpace(r.Title) }

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress done"`
}

// apiListProjects returns all projects.
func (s *Server) apiListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List()
	if err != nil {
		writeServiceError(w, "listing projects", err)
		return
	}
	apiJSON(w, projects, http.StatusOK)
}

// apiAddProject creates a project.
func (s *Server) apiAddProject(w http.ResponseWriter, r *http.Request) {
	var req addProjectRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	p, err := s.projects.Add(req.Name)
	if err != nil {
		writeServiceError(w, "adding project", err)
		return
	}
	apiJSON(w, p, http.StatusCreated)
}

// apiGetProject returns a project with its members and tasks.
func (s *Server) apiGetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requireProject(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	members, err := s.members.ListByProject(p.ID)
	if err != nil {
		writeServiceError(w, "loading members", err)
		return
	}
	tasks, err := s.tasks.ListByProject(p.ID)
	if err != nil {
		writeServiceError(w, "loading tasks", err)
		return
	}

	type response struct {
		Project *project.Project `json:"project"`
		Members []*member.Member `json:"members"`
		Tasks   []*task.Task     `json:"tasks"`
	}
	apiJSON(w, response{Project: p, Members: members, Tasks: tasks}, http.StatusOK)
}

// apiDeleteProject removes a project and everything in it.
func (s *Server) apiDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.projects.Delete(id); err != nil {
		writeServiceError(w, "deleting project", err)
		return
	}
	apiJSON(w, map[string]any{"id": id, "removed": true}, http.StatusOK)
}

// apiListMembers returns a project's roster.
func (s *Server) apiListMembers(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requireProject(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	members, err := s.members.ListByProject(p.ID)
	if err != nil {
		writeServiceError(w, "listing members", err)
		return
	}
	apiJSON(w, members, http.StatusOK)
}

// apiAddMember adds a member to a project.
func (s *Server) apiAddMember(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requireProject(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	var req addMemberRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	m, err := s.members.Add(p.ID, req.Username, req.DisplayName)
	if err != nil {
		writeServiceError(w, "adding member", err)
		return
	}
	apiJSON(w, m, http.StatusCreated)
}

// apiDeleteMember removes a member.
func (s *Server) apiDeleteMember(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.members.Delete(id); err != nil {
		writeServiceError(w, "deleting member", err)
		return
	}
	apiJSON(w, map[string]any{"id": id, "removed": true}, http.StatusOK)
}

// apiListTasks returns a project's tasks.
func (s *Server) apiListTasks(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requireProject(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	tasks, err := s.tasks.ListByProject(p.ID)
	if err != nil {
		writeServiceError(w, "listing tasks", err)
		return
	}
	apiJSON(w, tasks, http.StatusOK)
}

// apiAddTask creates a task in a project.
func (s *Server) apiAddTask(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requireProject(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	var req addTaskRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	t, err := s.tasks.Add(p.ID, req.Title)
	if err != nil {
		writeServiceError(w, "adding task", err)
		return
	}
	apiJSON(w, t, http.StatusCreated)
}

// apiSetTaskStatus moves a task to a new status.
func (s *Server) apiSetTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req setStatusRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.tasks.SetStatus(id, task.Status(req.Status)); err != nil {
		writeServiceError(w, "updating status", err)
		return
	}

	t, err := s.tasks.GetByID(id)
	if err != nil {
		writeServiceError(w, "loading task", err)
		return
	}
	apiJSON(w, t, http.StatusOK)
}

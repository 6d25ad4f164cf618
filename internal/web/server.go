// Package web provides the HTTP API and WebSocket feed for threadline.
package web

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/evcraddock/threadline/internal/comment"
	"github.com/evcraddock/threadline/internal/config"
	"github.com/evcraddock/threadline/internal/logging"
	"github.com/evcraddock/threadline/internal/member"
	"github.com/evcraddock/threadline/internal/metrics"
	"github.com/evcraddock/threadline/internal/project"
	"github.com/evcraddock/threadline/internal/task"
)

// Server is the threadline HTTP server.
type Server struct {
	projects *project.Repository
	members  *member.Store
	tasks    *task.Repository
	comments *comment.Service
	hub      *Hub
	upgrader websocket.Upgrader
	validate *validator.Validate
	router   *mux.Router
	handler  http.Handler
}

// NewServer creates a server backed by db.
func NewServer(db *sql.DB, cfg config.Config) (*Server, error) {
	validate, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("creating validator: %w", err)
	}

	members := member.NewStore(db)
	tasks := task.NewRepository(db)
	hub := NewHub()

	comments := comment.NewService(comment.NewRepository(db), members, tasks)
	comments.SetPublisher(hub)

	s := &Server{
		projects: project.NewRepository(db),
		members:  members,
		tasks:    tasks,
		comments: comments,
		hub:      hub,
		upgrader: newUpgrader(cfg.AllowedOrigins),
		validate: validate,
		router:   mux.NewRouter(),
	}
	s.routes()

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
		Debug:          false,
	})
	s.handler = logging.RequestLogger(c.Handler(s.router))

	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(observeRequests)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)

	r.HandleFunc("/api/projects", s.apiListProjects).Methods(http.MethodGet)
	r.HandleFunc("/api/projects", s.apiAddProject).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}", s.apiGetProject).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}", s.apiDeleteProject).Methods(http.MethodDelete)

	r.HandleFunc("/api/projects/{id}/members", s.apiListMembers).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}/members", s.apiAddMember).Methods(http.MethodPost)
	r.HandleFunc("/api/members/{id}", s.apiDeleteMember).Methods(http.MethodDelete)

	r.HandleFunc("/api/projects/{id}/tasks", s.apiListTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}/tasks", s.apiAddTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}/status", s.apiSetTaskStatus).Methods(http.MethodPost)

	r.HandleFunc("/api/projects/{id}/comments", s.apiThread).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}/comments", s.apiAddComment).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/tasks/{taskID}/comments", s.apiThread).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}/tasks/{taskID}/comments", s.apiAddComment).Methods(http.MethodPost)
	r.HandleFunc("/api/comments/{id}", s.apiEditComment).Methods(http.MethodPatch)
	r.HandleFunc("/api/comments/{id}", s.apiDeleteComment).Methods(http.MethodDelete)

	r.HandleFunc("/api/projects/{id}/preview", s.apiPreview).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/suggest", s.apiSuggest).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/suggest/apply", s.apiApplySuggestion).Methods(http.MethodPost)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Hub returns the event hub feeding /ws.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// observeRequests records request latency under the matched route template.
func observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		start := time.Now()
		sw := logging.WrapWriter(w)
		next.ServeHTTP(sw, r)
		metrics.ObserveRequest(route, r.Method, sw.Status, time.Since(start))
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

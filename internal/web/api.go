package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/evcraddock/threadline/internal/comment"
	"github.com/evcraddock/threadline/internal/member"
	"github.com/evcraddock/threadline/internal/project"
	"github.com/evcraddock/threadline/internal/task"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"error": msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// newValidator returns a validator that reports JSON field names and knows
// the username rule.
func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return member.ValidUsername(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	return v, nil
}

// normalizer is implemented by request bodies that trim their fields
// before validation.
type normalizer interface {
	normalize()
}

// decodeJSON reads a JSON body into dst and validates it. On failure it
// writes a 400 and returns false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := s.validate.Struct(dst); err != nil {
		apiError(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "username":
			msgs = append(msgs, fmt.Sprintf("%s may only contain letters, digits and underscore", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// writeServiceError maps domain errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, project.ErrNotFound),
		errors.Is(err, member.ErrNotFound),
		errors.Is(err, task.ErrNotFound),
		errors.Is(err, comment.ErrNotFound):
		apiError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, member.ErrDuplicate):
		apiError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, comment.ErrEmptyContent),
		errors.Is(err, comment.ErrInvalidParent),
		errors.Is(err, comment.ErrInvalidTask),
		errors.Is(err, comment.ErrUnknownAuthor),
		errors.Is(err, comment.ErrDeleted):
		apiError(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error(action, "error", err)
		apiError(w, fmt.Sprintf("%s: %v", action, err), http.StatusInternalServerError)
	}
}

// requireProject loads the {id} project or writes a 404.
func (s *Server) requireProject(w http.ResponseWriter, id string) (*project.Project, bool) {
	p, err := s.projects.GetByID(id)
	if err != nil {
		writeServiceError(w, "loading project", err)
		return nil, false
	}
	return p, true
}

// Package member provides the project membership roster used to resolve
// @mentions.
package member

import (
	"regexp"
	"time"
)

// Member is a user who belongs to a project.
type Member struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// usernamePattern matches the characters an @mention token can carry.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{Nd}_]+$`)

// ValidUsername reports whether name can be written as an @mention.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

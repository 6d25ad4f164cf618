// Package project provides the project domain model and data access.
package project

import "time"

// Project groups members, tasks and the comments attached to them.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

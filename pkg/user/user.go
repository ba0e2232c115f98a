// Package user implements the User aggregate: the global record of a
// human operator, keyed by the external subject claim their token carries.
package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a global (not organisation-scoped) operator record.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Sub       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnsureCommand is the input to Service.EnsureExists, the get-or-create
// operation performed on first login: a valid token with a Sub the users
// table hasn't seen yet provisions a row so organisation membership has
// something to reference.
type EnsureCommand struct {
	Sub   string
	Email string
	Name  string
}

// Response is the JSON shape returned for a user.
type Response struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts u into its wire representation.
func (u User) ToResponse() Response {
	return Response{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

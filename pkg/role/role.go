// Package role implements the Role aggregate and the permission resolver
// that joins an identity's role names against stored roles for an
// organisation.
package role

import (
	"time"

	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/pkg/permission"
)

// Role is a named, organisation-scoped (or global, when OrganisationID is
// nil) set of permissions.
type Role struct {
	ID             uuid.UUID
	Name           string
	Permissions    permission.Permissions
	OrganisationID *uuid.UUID
	Color          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateCommand is the input to Create.
type CreateCommand struct {
	Name           string
	Permissions    permission.Permissions
	OrganisationID uuid.UUID
	Color          string
}

// UpdateCommand is the input to Update.
type UpdateCommand struct {
	Name        *string
	Permissions *permission.Permissions
	Color       *string
}

// Response is the JSON shape returned for a role.
type Response struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Permissions    uint64     `json:"permissions"`
	PermissionList []string   `json:"permission_list"`
	OrganisationID *uuid.UUID `json:"organisation_id,omitempty"`
	Color          string     `json:"color"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToResponse converts a Role into its wire representation.
func (r Role) ToResponse() Response {
	return Response{
		ID:             r.ID,
		Name:           r.Name,
		Permissions:    uint64(r.Permissions),
		PermissionList: r.Permissions.ToVec(),
		OrganisationID: r.OrganisationID,
		Color:          r.Color,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

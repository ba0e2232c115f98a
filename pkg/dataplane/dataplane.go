// Package dataplane implements the DataPlane aggregate and the
// least-loaded placement algorithm create_deployment relies on.
package dataplane

import (
	"time"

	"github.com/google/uuid"
)

// Mode selects whether a DataPlane accepts placements from multiple
// organisations (Shared) or is reserved for one (Dedicated).
type Mode string

const (
	ModeShared    Mode = "shared"
	ModeDedicated Mode = "dedicated"
)

// Status is the operational state of a DataPlane.
type Status string

const (
	StatusActive   Status = "active"
	StatusDraining Status = "draining"
	StatusDisabled Status = "disabled"
)

// DataPlane is a regional execution environment that hosts Deployments.
type DataPlane struct {
	ID        uuid.UUID
	Mode      Mode
	Region    string
	Status    Status
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AcceptsPlacement reports whether this plane may receive new deployments:
// only Active + Shared planes are eligible, per spec §4.3.
func (d DataPlane) AcceptsPlacement() bool {
	return d.Status == StatusActive && d.Mode == ModeShared
}

// CreateCommand is the input to Service.Create.
type CreateCommand struct {
	Mode     Mode
	Region   string
	Capacity int
}

// Response is the JSON shape returned for a data plane.
type Response struct {
	ID        uuid.UUID `json:"id"`
	Mode      Mode      `json:"mode"`
	Region    string    `json:"region"`
	Status    Status    `json:"status"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts d into its wire representation.
func (d DataPlane) ToResponse() Response {
	return Response{
		ID: d.ID, Mode: d.Mode, Region: d.Region, Status: d.Status,
		Capacity: d.Capacity, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

// Package deployment implements the Deployment aggregate: an identity
// provider instance owned by exactly one Organisation and placed on exactly
// one DataPlane.
package deployment

import (
	"time"

	"github.com/google/uuid"
)

// Kind selects the identity provider image a Deployment runs.
type Kind string

const (
	KindKeycloak  Kind = "keycloak"
	KindFerrisKey Kind = "ferriskey"
)

// Status is the lifecycle state of a Deployment.
type Status string

const (
	StatusPending         Status = "pending"
	StatusScheduling      Status = "scheduling"
	StatusInProgress      Status = "in_progress"
	StatusSuccessful      Status = "successful"
	StatusFailed          Status = "failed"
	StatusMaintenance     Status = "maintenance"
	StatusUpgradeRequired Status = "upgrade_required"
	StatusUpgrading       Status = "upgrading"
)

// Deployment is an identity provider instance.
type Deployment struct {
	ID             uuid.UUID
	OrganisationID uuid.UUID
	DataPlaneID    uuid.UUID
	Name           string
	Kind           Kind
	Version        string
	Status         Status
	Namespace      string
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeployedAt     *time.Time
	DeletedAt      *time.Time
}

// IsDeleted reports whether d has been soft-deleted.
func (d Deployment) IsDeleted() bool { return d.DeletedAt != nil }

// ValidKind reports whether k is a recognised deployment kind.
func ValidKind(k Kind) bool {
	return k == KindKeycloak || k == KindFerrisKey
}

// CreateCommand is the input to Service.Create.
type CreateCommand struct {
	OrganisationID uuid.UUID
	Name           string
	Kind           Kind
	Version        string
	Namespace      string
	Region         string // placement hint; empty means any region
	CreatedBy      uuid.UUID
}

// Response is the JSON shape returned for a deployment.
type Response struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	DataPlaneID    uuid.UUID  `json:"dataplane_id"`
	Name           string     `json:"name"`
	Kind           Kind       `json:"kind"`
	Version        string     `json:"version"`
	Status         Status     `json:"status"`
	Namespace      string     `json:"namespace"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeployedAt     *time.Time `json:"deployed_at,omitempty"`
}

// ToResponse converts d into its wire representation.
func (d Deployment) ToResponse() Response {
	return Response{
		ID: d.ID, OrganisationID: d.OrganisationID, DataPlaneID: d.DataPlaneID,
		Name: d.Name, Kind: d.Kind, Version: d.Version, Status: d.Status,
		Namespace: d.Namespace, CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt, DeployedAt: d.DeployedAt,
	}
}

// Package action implements the Action aggregate: the append-only log of
// desired mutations Herald drains and publishes to the message bus.
package action

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TargetKind names the kind of object an Action mutates.
type TargetKind string

const (
	TargetDeployment TargetKind = "deployment"
	TargetRealm      TargetKind = "realm"
	TargetDatabase   TargetKind = "database"
	TargetUser       TargetKind = "user"
	// TargetCustom is the discriminator for an arbitrary caller-supplied
	// kind string, carried in Target.Custom.
	TargetCustom TargetKind = "custom"
)

// Target names the specific object an Action mutates.
type Target struct {
	Kind   TargetKind
	ID     string
	Custom string // populated only when Kind == TargetCustom
}

// SourceKind discriminates who originated an Action.
type SourceKind string

const (
	SourceUser   SourceKind = "user"
	SourceSystem SourceKind = "system"
	SourceAPI    SourceKind = "api"
)

// Source names who originated an Action.
type Source struct {
	Kind     SourceKind
	UserID   *uuid.UUID // set when Kind == SourceUser
	ClientID *string    // set when Kind == SourceAPI
}

// Constraints are optional scheduling hints attached to an Action.
type Constraints struct {
	NotAfter *time.Time
	Priority *int16
}

// StatusKind is the forward-progressing state of an Action. Leased absorbs
// the source's separate Pulled state: a claim sets Leased plus an optional
// AgentID, and the next terminal transition is either Published or Failed.
// See the design notes on this collapse.
type StatusKind string

const (
	StatusPending   StatusKind = "pending"
	StatusLeased    StatusKind = "leased"
	StatusPublished StatusKind = "published"
	StatusFailed    StatusKind = "failed"
)

// Status is the tagged current state of an Action.
type Status struct {
	Kind    StatusKind
	At      *time.Time // transition timestamp for Leased/Published/Failed
	AgentID *string     // Herald instance holding the lease, if known
	Reason  *string     // failure reason, set only when Kind == StatusFailed
}

// Action is a single append-only log entry.
type Action struct {
	ID          uuid.UUID
	DeploymentID uuid.UUID
	DataPlaneID  uuid.UUID
	ActionType   string
	Target       Target
	Payload      json.RawMessage
	Version      int
	Status       Status
	Source       Source
	Constraints  Constraints
	LeasedUntil  *time.Time
	CreatedAt    time.Time
}

// RecordCommand is the input to Service.Record.
type RecordCommand struct {
	DeploymentID uuid.UUID
	DataPlaneID  uuid.UUID
	ActionType   string
	Target       Target
	Payload      json.RawMessage
	Version      int
	Source       Source
	Constraints  Constraints
}

// ClaimCommand is the single unified claim_actions command, resolving
// spec §9's second open question: every caller, including Herald's
// process_deployment path, constructs the full command with LeaseSeconds set.
type ClaimCommand struct {
	DataPlaneID  uuid.UUID
	DeploymentID uuid.UUID
	Max          int
	LeaseSeconds int
}

// Response is the JSON shape returned for an action.
type Response struct {
	ID           uuid.UUID       `json:"id"`
	DeploymentID uuid.UUID       `json:"deployment_id"`
	DataPlaneID  uuid.UUID       `json:"dataplane_id"`
	ActionType   string          `json:"action_type"`
	TargetKind   TargetKind      `json:"target_kind"`
	TargetID     string          `json:"target_id"`
	Payload      json.RawMessage `json:"payload"`
	Version      int             `json:"version"`
	Status       StatusKind      `json:"status"`
	LeasedUntil  *time.Time      `json:"leased_until,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToResponse converts a into its wire representation.
func (a Action) ToResponse() Response {
	return Response{
		ID: a.ID, DeploymentID: a.DeploymentID, DataPlaneID: a.DataPlaneID,
		ActionType: a.ActionType, TargetKind: a.Target.Kind, TargetID: a.Target.ID,
		Payload: a.Payload, Version: a.Version, Status: a.Status.Kind,
		LeasedUntil: a.LeasedUntil, CreatedAt: a.CreatedAt,
	}
}

// Batch is the response shape for fetch_actions: a page of actions plus the
// keyset cursor to resume from.
type Batch struct {
	Actions    []Action
	NextCursor string // empty if the batch is empty
}

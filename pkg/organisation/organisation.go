// Package organisation implements the Organisation aggregate: the tenant
// root every Deployment, Role, and membership hangs off.
package organisation

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an Organisation.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

// Plan selects the resource limits an Organisation is entitled to.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanStarter    Plan = "starter"
	PlanBusiness   Plan = "business"
	PlanEnterprise Plan = "enterprise"
)

// Limits bounds an Organisation's resource usage. It is wholly derived from
// Plan — never set independently.
type Limits struct {
	MaxInstances int `json:"max_instances"`
	MaxUsers     int `json:"max_users"`
	MaxStorageGB int `json:"max_storage_gb"`
}

// limitsForPlan is the authoritative plan → limits table.
var limitsForPlan = map[Plan]Limits{
	PlanFree:       {MaxInstances: 1, MaxUsers: 2, MaxStorageGB: 1},
	PlanStarter:    {MaxInstances: 3, MaxUsers: 10, MaxStorageGB: 10},
	PlanBusiness:   {MaxInstances: 10, MaxUsers: 50, MaxStorageGB: 100},
	PlanEnterprise: {MaxInstances: 100, MaxUsers: 1000, MaxStorageGB: 1000},
}

// LimitsForPlan returns the resource limits a plan entitles an organisation to.
func LimitsForPlan(p Plan) Limits {
	l, ok := limitsForPlan[p]
	if !ok {
		return limitsForPlan[PlanFree]
	}
	return l
}

// MaxOrganisationsPerOwner is the cap create_organisation enforces on the
// number of active organisations a single owner may hold.
const MaxOrganisationsPerOwner = 10

// Organisation is the tenant aggregate root.
type Organisation struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	OwnerID   uuid.UUID
	Status    Status
	Plan      Plan
	Limits    Limits
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsDeleted reports whether o has been soft-deleted.
func (o Organisation) IsDeleted() bool { return o.Status == StatusDeleted }

// slugPattern matches spec §8's invariant: lowercase alphanumerics and
// hyphens, 3-50 chars, never starting or ending with a hyphen.
var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{1,48})[a-z0-9]$`)

// collapseHyphens squeezes runs of hyphens produced by non-alphanumeric
// mapping down to one.
var collapseHyphens = regexp.MustCompile(`-+`)

// nonAlphanumeric matches any rune that isn't a lowercase letter or digit.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// SlugFromName derives a slug by lowercasing name, mapping runs of
// non-alphanumeric characters to a single hyphen, and trimming leading and
// trailing hyphens.
func SlugFromName(name string) string {
	s := strings.ToLower(name)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = collapseHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

// ValidSlug reports whether slug satisfies the canonical slug shape.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// ValidName reports whether name satisfies the 3-100 trimmed-length rule.
func ValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return len(trimmed) >= 3 && len(trimmed) <= 100
}

// CreateCommand is the input to Service.Create.
type CreateCommand struct {
	Name    string
	Slug    string // optional; derived from Name if empty
	OwnerID uuid.UUID
	Plan    Plan // defaults to PlanFree if empty
}

// UpdateCommand is a partial update to an Organisation. At least one field
// must be non-nil.
type UpdateCommand struct {
	Name *string
	Slug *string
	Plan *Plan
}

// IsEmpty reports whether cmd carries no changes.
func (cmd UpdateCommand) IsEmpty() bool {
	return cmd.Name == nil && cmd.Slug == nil && cmd.Plan == nil
}

// Response is the JSON shape returned for an organisation.
type Response struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Status    Status     `json:"status"`
	Plan      Plan       `json:"plan"`
	Limits    Limits     `json:"limits"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// ToResponse converts o into its wire representation.
func (o Organisation) ToResponse() Response {
	return Response{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		OwnerID:   o.OwnerID,
		Status:    o.Status,
		Plan:      o.Plan,
		Limits:    o.Limits,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		DeletedAt: o.DeletedAt,
	}
}

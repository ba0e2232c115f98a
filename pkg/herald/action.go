// Package herald implements the data-plane-side worker that drains the
// action log and republishes each entry onto the message bus: the Go
// counterpart of aether-herald-core's sync_all_deployments/process_deployment
// tick algorithm.
package herald

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ControlPlaneAction is the wire shape Herald receives from fetch/claim.
type ControlPlaneAction struct {
	ID         uuid.UUID       `json:"id"`
	Resource   string          `json:"target_kind"`
	Kind       string          `json:"action_type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"created_at"`
}

// RoutingKey is the "{resource}.{kind}" topic a NormalizedAction publishes
// under.
type RoutingKey string

func newRoutingKey(resource, kind string) RoutingKey {
	return RoutingKey(fmt.Sprintf("%s.%s", strings.TrimSpace(resource), strings.TrimSpace(kind)))
}

// NormalizedAction is a ControlPlaneAction ready to hand to the message bus.
type NormalizedAction struct {
	ID         uuid.UUID
	RoutingKey RoutingKey
	Payload    json.RawMessage
	OccurredAt time.Time
}

// parseActionKind normalizes a raw action_type into the lowercase verb the
// message bus expects. Known synonyms collapse onto their canonical verb;
// anything else passes through lowercased and trimmed as a custom kind.
// Mirrors aether-herald-core's ActionKind::parse.
func parseActionKind(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", fmt.Errorf("action kind is empty")
	}
	switch normalized {
	case "create", "created":
		return "create", nil
	case "update", "updated":
		return "update", nil
	case "delete", "deleted":
		return "delete", nil
	case "upsert", "upserted":
		return "upsert", nil
	default:
		return normalized, nil
	}
}

// normalize validates a and builds the NormalizedAction the publisher sends.
// The control plane's single action_type column ("deployment.create") is
// split on its first '.' into a resource/kind pair before normalizing, since
// the routing key scheme needs both halves separately.
func (a ControlPlaneAction) normalize() (NormalizedAction, error) {
	resource, kind, ok := strings.Cut(a.Kind, ".")
	if !ok {
		resource, kind = a.Resource, a.Kind
	}
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return NormalizedAction{}, fmt.Errorf("resource is empty")
	}

	parsedKind, err := parseActionKind(kind)
	if err != nil {
		return NormalizedAction{}, err
	}

	return NormalizedAction{
		ID:         a.ID,
		RoutingKey: newRoutingKey(resource, parsedKind),
		Payload:    a.Payload,
		OccurredAt: a.OccurredAt,
	}, nil
}

package action

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aetherhq/control-plane/internal/telemetry"
	"github.com/aetherhq/control-plane/pkg/aethererr"
	"github.com/aetherhq/control-plane/pkg/identity"
)

// Service implements the action log's application commands: record_action,
// fetch_actions, claim_actions, and get_by_id per spec §4.2.
type Service struct {
	store *Store
}

// NewService creates an action Service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Record appends a new action. Only Deployment-targeted actions may be
// recorded in a deployment's stream; anything else is an internal error,
// since a caller that reaches this far should already have resolved a
// concrete deployment target.
func (s *Service) Record(ctx context.Context, cmd RecordCommand) (Action, error) {
	if cmd.Target.Kind != TargetDeployment {
		return Action{}, aethererr.Internal(nil, "action target kind must be deployment")
	}
	a, err := s.store.Insert(ctx, cmd)
	if err != nil {
		return Action{}, aethererr.Internal(err, "recording action")
	}
	telemetry.ActionsRecordedTotal.WithLabelValues(a.ActionType).Inc()
	return a, nil
}

// FetchActions returns the next page of actions for deploymentID, strictly
// after cursor. Only the Herald service identity may call this — it is the
// sole consumer of the raw action stream.
func (s *Service) FetchActions(ctx context.Context, id identity.Identity, deploymentID uuid.UUID, cursor string, limit int) (Batch, error) {
	if !id.IsService() {
		return Batch{}, aethererr.Forbidden("only the herald service may fetch actions")
	}

	afterCreatedAt := time.Time{}
	afterID := uuid.Nil
	if cursor != "" {
		ts, cid, err := DecodeCursor(cursor)
		if err != nil {
			return Batch{}, err
		}
		afterCreatedAt, afterID = ts, cid
	}

	items, err := s.store.List(ctx, deploymentID, afterCreatedAt, afterID, limit)
	if err != nil {
		return Batch{}, aethererr.Internal(err, "fetching actions")
	}

	batch := Batch{Actions: items}
	if len(items) > 0 {
		last := items[len(items)-1]
		batch.NextCursor = EncodeCursor(last.CreatedAt, last.ID)
	}
	return batch, nil
}

// ClaimActions atomically leases up to cmd.Max claimable actions. Never
// blocks: an empty result means nothing was claimable right now.
func (s *Service) ClaimActions(ctx context.Context, cmd ClaimCommand) ([]Action, error) {
	items, err := s.store.Claim(ctx, cmd)
	if err != nil {
		return nil, aethererr.Internal(err, "claiming actions")
	}
	if len(items) > 0 {
		telemetry.ActionsClaimedTotal.WithLabelValues(cmd.DataPlaneID.String()).Add(float64(len(items)))
	}
	return items, nil
}

// MarkPublished records that a claimed action was successfully published to
// the message bus. Best-effort from Herald's perspective: if this call
// itself fails, the action's lease simply expires and it is re-leased,
// giving at-least-once delivery rather than a hard failure.
func (s *Service) MarkPublished(ctx context.Context, id identity.Identity, deploymentID, actionID uuid.UUID) error {
	if !id.IsService() {
		return aethererr.Forbidden("only the herald service may mark actions published")
	}
	if err := s.store.MarkPublished(ctx, actionID); err != nil {
		if err == pgx.ErrNoRows {
			return aethererr.NotFound("action not found")
		}
		return aethererr.Internal(err, "marking action published")
	}
	return nil
}

// MarkFailed records that a claimed action could not be published.
func (s *Service) MarkFailed(ctx context.Context, id identity.Identity, deploymentID, actionID uuid.UUID, reason string) error {
	if !id.IsService() {
		return aethererr.Forbidden("only the herald service may mark actions failed")
	}
	if err := s.store.MarkFailed(ctx, actionID, reason); err != nil {
		if err == pgx.ErrNoRows {
			return aethererr.NotFound("action not found")
		}
		return aethererr.Internal(err, "marking action failed")
	}
	return nil
}

// GetByID returns a single action scoped to deploymentID.
func (s *Service) GetByID(ctx context.Context, deploymentID, actionID uuid.UUID) (Action, error) {
	a, err := s.store.GetByID(ctx, deploymentID, actionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Action{}, aethererr.NotFound("action not found")
		}
		return Action{}, aethererr.Internal(err, "fetching action")
	}
	return a, nil
}

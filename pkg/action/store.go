package action

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aetherhq/control-plane/internal/db"
)

// Store provides database operations for the action log.
type Store struct {
	dbtx db.DBTX
}

// NewStore creates an action Store backed by the given database connection.
func NewStore(dbtx db.DBTX) *Store {
	return &Store{dbtx: dbtx}
}

const actionColumns = `id, deployment_id, dataplane_id, action_type, target_kind, target_id, payload, version,
	status, status_at, status_agent_id, status_reason,
	source_type, source_user_id, source_client_id,
	constraints_not_after, constraints_priority, leased_until, created_at`

// actionColumnsQualified is actionColumns with each reference to the
// ambiguous "id" column qualified, for use in RETURNING clauses over
// UPDATE ... FROM joins where both sides expose an id column.
const actionColumnsQualified = `actions.id, deployment_id, dataplane_id, action_type, target_kind, target_id, payload, version,
	status, status_at, status_agent_id, status_reason,
	source_type, source_user_id, source_client_id,
	constraints_not_after, constraints_priority, leased_until, created_at`

func scanAction(row pgx.Row) (Action, error) {
	var a Action
	err := row.Scan(
		&a.ID, &a.DeploymentID, &a.DataPlaneID, &a.ActionType, &a.Target.Kind, &a.Target.ID, &a.Payload, &a.Version,
		&a.Status.Kind, &a.Status.At, &a.Status.AgentID, &a.Status.Reason,
		&a.Source.Kind, &a.Source.UserID, &a.Source.ClientID,
		&a.Constraints.NotAfter, &a.Constraints.Priority, &a.LeasedUntil, &a.CreatedAt,
	)
	// The schema carries a single target_id column; for Custom targets it
	// holds the caller-supplied kind string, not a resource identifier.
	if a.Target.Kind == TargetCustom {
		a.Target.Custom = a.Target.ID
	}
	return a, err
}

// Insert appends a new action with status Pending. Per spec §4.2, only
// targets of kind Deployment may be recorded in a deployment's action
// stream; any other target kind is rejected before reaching the database.
func (s *Store) Insert(ctx context.Context, cmd RecordCommand) (Action, error) {
	row := s.dbtx.QueryRow(ctx,
		`INSERT INTO actions (
			id, deployment_id, dataplane_id, action_type, target_kind, target_id, payload, version,
			status, status_at, status_agent_id, status_reason,
			source_type, source_user_id, source_client_id,
			constraints_not_after, constraints_priority, leased_until, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			'pending', NULL, NULL, NULL,
			$9, $10, $11,
			$12, $13, NULL, now()
		) RETURNING `+actionColumns,
		uuid.New(), cmd.DeploymentID, cmd.DataPlaneID, cmd.ActionType, cmd.Target.Kind, cmd.Target.ID, cmd.Payload, cmd.Version,
		cmd.Source.Kind, cmd.Source.UserID, cmd.Source.ClientID,
		cmd.Constraints.NotAfter, cmd.Constraints.Priority,
	)
	return scanAction(row)
}

// GetByID returns a single action scoped to deploymentID.
func (s *Store) GetByID(ctx context.Context, deploymentID, actionID uuid.UUID) (Action, error) {
	row := s.dbtx.QueryRow(ctx,
		`SELECT `+actionColumns+` FROM actions WHERE deployment_id = $1 AND id = $2`,
		deploymentID, actionID,
	)
	return scanAction(row)
}

// List returns actions for deploymentID ordered by (created_at, id)
// ascending, strictly greater than the given cursor position. Pass a zero
// time and uuid.Nil to start from the beginning.
func (s *Store) List(ctx context.Context, deploymentID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]Action, error) {
	rows, err := s.dbtx.Query(ctx,
		`SELECT `+actionColumns+` FROM actions
		 WHERE deployment_id = $1 AND (created_at, id) > ($2, $3)
		 ORDER BY created_at ASC, id ASC
		 LIMIT $4`,
		deploymentID, afterCreatedAt, afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning action row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Claim atomically selects up to cmd.Max claimable actions (Pending, or
// Leased with an expired lease) for cmd.DeploymentID, locks them with
// SELECT ... FOR UPDATE SKIP LOCKED so concurrent Heralds never double-claim,
// and transitions them to Leased with a fresh expiry. Ordering is
// (priority ASC NULLS LAST, created_at ASC) per spec §4.2.
func (s *Store) Claim(ctx context.Context, cmd ClaimCommand) ([]Action, error) {
	rows, err := s.dbtx.Query(ctx,
		`WITH claimable AS (
			SELECT id FROM actions
			WHERE deployment_id = $1
			  AND (status = 'pending' OR (status = 'leased' AND leased_until < now()))
			ORDER BY constraints_priority ASC NULLS LAST, created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE actions SET status = 'leased', status_at = now(), leased_until = now() + ($3 || ' seconds')::interval
		FROM claimable
		WHERE actions.id = claimable.id
		RETURNING `+actionColumnsQualified,
		cmd.DeploymentID, cmd.Max, cmd.LeaseSeconds,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming actions: %w", err)
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claimed action row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkPublished transitions a claimed action to Published. Best-effort:
// callers that fail to call this leave the action leased, to be re-claimed
// after expiry.
func (s *Store) MarkPublished(ctx context.Context, id uuid.UUID) error {
	tag, err := s.dbtx.Exec(ctx,
		`UPDATE actions SET status = 'published', status_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking action published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkFailed transitions an action to Failed with reason.
func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	tag, err := s.dbtx.Exec(ctx,
		`UPDATE actions SET status = 'failed', status_at = now(), status_reason = $2 WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("marking action failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

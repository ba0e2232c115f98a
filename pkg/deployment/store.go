package deployment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aetherhq/control-plane/internal/db"
)

// Store provides database operations for deployments.
type Store struct {
	dbtx db.DBTX
}

// NewStore creates a deployment Store backed by the given database connection.
func NewStore(dbtx db.DBTX) *Store {
	return &Store{dbtx: dbtx}
}

const deploymentColumns = `id, organisation_id, dataplane_id, name, kind, status, namespace, version, created_by, created_at, updated_at, deployed_at, deleted_at`

func scanDeployment(row pgx.Row) (Deployment, error) {
	var d Deployment
	err := row.Scan(
		&d.ID, &d.OrganisationID, &d.DataPlaneID, &d.Name, &d.Kind, &d.Status,
		&d.Namespace, &d.Version, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
		&d.DeployedAt, &d.DeletedAt,
	)
	return d, err
}

// Get returns a single deployment by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Deployment, error) {
	row := s.dbtx.QueryRow(ctx, `SELECT `+deploymentColumns+` FROM deployments WHERE id = $1`, id)
	return scanDeployment(row)
}

// ListByOrganisation returns every non-deleted deployment owned by organisationID.
func (s *Store) ListByOrganisation(ctx context.Context, organisationID uuid.UUID, limit, offset int) ([]Deployment, error) {
	rows, err := s.dbtx.Query(ctx,
		`SELECT `+deploymentColumns+` FROM deployments
		 WHERE organisation_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		organisationID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing deployments: %w", err)
	}
	defer rows.Close()

	var out []Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deployment row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByDataPlane returns every non-deleted deployment placed on dataPlaneID.
// This backs get_deployments_in_dataplane and Herald's list_deployments call.
func (s *Store) ListByDataPlane(ctx context.Context, dataPlaneID uuid.UUID) ([]Deployment, error) {
	rows, err := s.dbtx.Query(ctx,
		`SELECT `+deploymentColumns+` FROM deployments
		 WHERE dataplane_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at ASC`,
		dataPlaneID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing deployments by dataplane: %w", err)
	}
	defer rows.Close()

	var out []Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deployment row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CountByOrganisation counts non-deleted deployments owned by organisationID.
func (s *Store) CountByOrganisation(ctx context.Context, organisationID uuid.UUID) (int, error) {
	var count int
	err := s.dbtx.QueryRow(ctx,
		`SELECT count(*) FROM deployments WHERE organisation_id = $1 AND deleted_at IS NULL`, organisationID,
	).Scan(&count)
	return count, err
}

// Insert creates a new deployment row.
func (s *Store) Insert(ctx context.Context, d Deployment) (Deployment, error) {
	row := s.dbtx.QueryRow(ctx,
		`INSERT INTO deployments (id, organisation_id, dataplane_id, name, kind, status, namespace, version, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		 RETURNING `+deploymentColumns,
		d.ID, d.OrganisationID, d.DataPlaneID, d.Name, d.Kind, d.Status, d.Namespace, d.Version, d.CreatedBy,
	)
	return scanDeployment(row)
}

// SetStatus transitions a deployment's status.
func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status Status) (Deployment, error) {
	row := s.dbtx.QueryRow(ctx,
		`UPDATE deployments SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+deploymentColumns,
		id, status,
	)
	return scanDeployment(row)
}

// SoftDelete marks a deployment as deleted.
func (s *Store) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.dbtx.Exec(ctx,
		`UPDATE deployments SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft deleting deployment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package organisation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aetherhq/control-plane/internal/db"
)

// Store provides database operations for organisations.
type Store struct {
	dbtx db.DBTX
}

// NewStore creates an organisation Store backed by the given database connection.
func NewStore(dbtx db.DBTX) *Store {
	return &Store{dbtx: dbtx}
}

const orgColumns = `id, name, slug, owner_id, status, plan, max_instances, max_users, max_storage_gb, created_at, updated_at, deleted_at`

func scanOrganisation(row pgx.Row) (Organisation, error) {
	var o Organisation
	if err := row.Scan(
		&o.ID, &o.Name, &o.Slug, &o.OwnerID, &o.Status, &o.Plan,
		&o.Limits.MaxInstances, &o.Limits.MaxUsers, &o.Limits.MaxStorageGB,
		&o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	); err != nil {
		return Organisation{}, err
	}
	return o, nil
}

// Get returns a single organisation by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Organisation, error) {
	row := s.dbtx.QueryRow(ctx, `SELECT `+orgColumns+` FROM organisations WHERE id = $1`, id)
	return scanOrganisation(row)
}

// GetBySlug returns a single organisation by slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (Organisation, error) {
	row := s.dbtx.QueryRow(ctx, `SELECT `+orgColumns+` FROM organisations WHERE slug = $1`, slug)
	return scanOrganisation(row)
}

// SlugExists reports whether an active (non-deleted) organisation already
// uses slug.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.dbtx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM organisations WHERE slug = $1 AND status != 'deleted')`, slug,
	).Scan(&exists)
	return exists, err
}

// CountActiveByOwner counts non-deleted organisations owned by ownerID.
func (s *Store) CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := s.dbtx.QueryRow(ctx,
		`SELECT count(*) FROM organisations WHERE owner_id = $1 AND status != 'deleted'`, ownerID,
	).Scan(&count)
	return count, err
}

// Insert creates the organisations row. Callers run this inside the same
// transaction as the owner's membership insert (see Service.Create).
func (s *Store) Insert(ctx context.Context, o Organisation) (Organisation, error) {
	row := s.dbtx.QueryRow(ctx,
		`INSERT INTO organisations (id, name, slug, owner_id, status, plan, max_instances, max_users, max_storage_gb, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		 RETURNING `+orgColumns,
		o.ID, o.Name, o.Slug, o.OwnerID, o.Status, o.Plan,
		o.Limits.MaxInstances, o.Limits.MaxUsers, o.Limits.MaxStorageGB,
	)
	return scanOrganisation(row)
}

// InsertMember adds ownerID as a member of organisationID. Used by
// Service.Create within the same transaction as Insert.
func (s *Store) InsertMember(ctx context.Context, organisationID, userID uuid.UUID) error {
	_, err := s.dbtx.Exec(ctx,
		`INSERT INTO members (id, organisation_id, user_id, created_at, updated_at) VALUES ($1, $2, $3, now(), now())`,
		uuid.New(), organisationID, userID,
	)
	return err
}

// Update persists the editable fields of an organisation.
func (s *Store) Update(ctx context.Context, o Organisation) (Organisation, error) {
	row := s.dbtx.QueryRow(ctx,
		`UPDATE organisations SET name = $2, slug = $3, plan = $4, max_instances = $5, max_users = $6, max_storage_gb = $7, updated_at = now()
		 WHERE id = $1 RETURNING `+orgColumns,
		o.ID, o.Name, o.Slug, o.Plan, o.Limits.MaxInstances, o.Limits.MaxUsers, o.Limits.MaxStorageGB,
	)
	return scanOrganisation(row)
}

// SoftDelete marks an organisation as deleted.
func (s *Store) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.dbtx.Exec(ctx,
		`UPDATE organisations SET status = 'deleted', deleted_at = now(), updated_at = now() WHERE id = $1 AND status != 'deleted'`, id)
	if err != nil {
		return fmt.Errorf("soft deleting organisation: %w", err)
	}
	if rowsAffected(tag) == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetStatus transitions an organisation's status (e.g. active <-> suspended).
func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status Status) (Organisation, error) {
	row := s.dbtx.QueryRow(ctx,
		`UPDATE organisations SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+orgColumns,
		id, status,
	)
	return scanOrganisation(row)
}

// ListByMember returns every non-deleted organisation userID belongs to,
// joined through the members table.
func (s *Store) ListByMember(ctx context.Context, userID uuid.UUID) ([]Organisation, error) {
	rows, err := s.dbtx.Query(ctx,
		`SELECT o.id, o.name, o.slug, o.owner_id, o.status, o.plan, o.max_instances, o.max_users, o.max_storage_gb, o.created_at, o.updated_at, o.deleted_at
		 FROM organisations o
		 JOIN members m ON m.organisation_id = o.id
		 WHERE m.user_id = $1 AND o.status != 'deleted'
		 ORDER BY o.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing organisations by member: %w", err)
	}
	defer rows.Close()

	var out []Organisation
	for rows.Next() {
		o, err := scanOrganisation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning organisation row: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func rowsAffected(tag pgconn.CommandTag) int64 { return tag.RowsAffected() }

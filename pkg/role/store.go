package role

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aetherhq/control-plane/internal/db"
	"github.com/aetherhq/control-plane/pkg/permission"
)

// Store provides database operations for roles.
type Store struct {
	dbtx db.DBTX
}

// NewStore creates a role Store backed by the given database connection.
func NewStore(dbtx db.DBTX) *Store {
	return &Store{dbtx: dbtx}
}

const roleColumns = `id, name, permissions, organisation_id, color, created_at, updated_at`

func scanRole(row pgx.Row) (Role, error) {
	var r Role
	var orgID pgtype.UUID
	var perms int64
	if err := row.Scan(&r.ID, &r.Name, &perms, &orgID, &r.Color, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Role{}, err
	}
	r.Permissions = permission.Permissions(perms)
	if orgID.Valid {
		id := uuid.UUID(orgID.Bytes)
		r.OrganisationID = &id
	}
	return r, nil
}

// Get returns a single role by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Role, error) {
	row := s.dbtx.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	return scanRole(row)
}

// GetByName returns the role for an organisation matching the given name.
// organisationID may be uuid.Nil to look up a global/system role.
func (s *Store) GetByName(ctx context.Context, organisationID uuid.UUID, name string) (Role, error) {
	var row pgx.Row
	if organisationID == uuid.Nil {
		row = s.dbtx.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE organisation_id IS NULL AND name = $1`, name)
	} else {
		row = s.dbtx.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE organisation_id = $1 AND name = $2`, organisationID, name)
	}
	return scanRole(row)
}

// ListByNames returns every role belonging to organisationID whose name is
// in names. This is the join step of permission resolution: identity.roles
// ∩ organisation's roles.
func (s *Store) ListByNames(ctx context.Context, organisationID uuid.UUID, names []string) ([]Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	rows, err := s.dbtx.Query(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE organisation_id = $1 AND name = ANY($2::text[])`,
		organisationID, names,
	)
	if err != nil {
		return nil, fmt.Errorf("listing roles by name: %w", err)
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning role row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListByOrganisation returns every role defined for an organisation.
func (s *Store) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]Role, error) {
	rows, err := s.dbtx.Query(ctx, `SELECT `+roleColumns+` FROM roles WHERE organisation_id = $1 ORDER BY name`, organisationID)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning role row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Create inserts a new role.
func (s *Store) Create(ctx context.Context, cmd CreateCommand) (Role, error) {
	row := s.dbtx.QueryRow(ctx,
		`INSERT INTO roles (id, name, permissions, organisation_id, color, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 RETURNING `+roleColumns,
		uuid.New(), cmd.Name, int64(cmd.Permissions), cmd.OrganisationID, cmd.Color,
	)
	return scanRole(row)
}

// Update applies a partial update to an existing role.
func (s *Store) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (Role, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if cmd.Name != nil {
		current.Name = *cmd.Name
	}
	if cmd.Permissions != nil {
		current.Permissions = *cmd.Permissions
	}
	if cmd.Color != nil {
		current.Color = *cmd.Color
	}

	row := s.dbtx.QueryRow(ctx,
		`UPDATE roles SET name = $2, permissions = $3, color = $4, updated_at = now()
		 WHERE id = $1 RETURNING `+roleColumns,
		id, current.Name, int64(current.Permissions), current.Color,
	)
	return scanRole(row)
}

// Delete removes a role by ID.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.dbtx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ResolvePermissions computes the effective permission set for roleNames
// within organisationID: the bitwise union of every matching role's
// permissions field. Unknown role names are silently ignored, matching the
// source's join-based resolution (a role name with no matching row
// contributes nothing).
func (s *Store) ResolvePermissions(ctx context.Context, organisationID uuid.UUID, roleNames []string) (permission.Permissions, error) {
	roles, err := s.ListByNames(ctx, organisationID, roleNames)
	if err != nil {
		return 0, err
	}
	perms := make([]permission.Permissions, len(roles))
	for i, r := range roles {
		perms[i] = r.Permissions
	}
	return permission.UnionAll(perms), nil
}

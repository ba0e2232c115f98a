package organisation

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aetherhq/control-plane/internal/db"
	"github.com/aetherhq/control-plane/pkg/aethererr"
)

// Service orchestrates organisation lifecycle commands.
type Service struct {
	pool  *pgxpool.Pool
	store *Store
}

// NewService creates an organisation Service. store must be bound to pool
// (or a connection drawn from it) so Create can open a transaction while
// still sharing the same underlying database.
func NewService(pool *pgxpool.Pool, store *Store) *Service {
	return &Service{pool: pool, store: store}
}

// Get returns a single organisation by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Organisation, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Organisation{}, aethererr.NotFound("organisation not found")
		}
		return Organisation{}, aethererr.Internal(err, "fetching organisation")
	}
	return o, nil
}

// ListByMember returns every organisation the given user belongs to.
func (s *Service) ListByMember(ctx context.Context, userID uuid.UUID) ([]Organisation, error) {
	orgs, err := s.store.ListByMember(ctx, userID)
	if err != nil {
		return nil, aethererr.Internal(err, "listing organisations")
	}
	return orgs, nil
}

// Create runs the five-step create_organisation command in a single
// transaction per spec §4.4: limit check, slug derivation, uniqueness
// check, insert, owner membership insert.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (Organisation, error) {
	if !ValidName(cmd.Name) {
		return Organisation{}, aethererr.Validation("organisation name must be 3-100 characters")
	}
	if cmd.Plan == "" {
		cmd.Plan = PlanFree
	}

	var created Organisation
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		txStore := NewStore(tx)

		// 1. Reject if the owner already has too many active organisations.
		count, err := txStore.CountActiveByOwner(ctx, cmd.OwnerID)
		if err != nil {
			return aethererr.Internal(err, "counting owner organisations")
		}
		if count >= MaxOrganisationsPerOwner {
			return aethererr.Conflict("user has reached the maximum number of organisations")
		}

		// 2. Derive slug from name if absent.
		slug := cmd.Slug
		if slug == "" {
			slug = SlugFromName(cmd.Name)
		}
		if !ValidSlug(slug) {
			return aethererr.Validation("slug must be 3-50 lowercase alphanumeric characters or hyphens")
		}

		// 3. Check slug uniqueness.
		exists, err := txStore.SlugExists(ctx, slug)
		if err != nil {
			return aethererr.Internal(err, "checking slug uniqueness")
		}
		if exists {
			return aethererr.Conflict("an organisation with this slug already exists")
		}

		// 4. Insert organisation with plan-derived limits.
		o := Organisation{
			ID:      uuid.New(),
			Name:    cmd.Name,
			Slug:    slug,
			OwnerID: cmd.OwnerID,
			Status:  StatusActive,
			Plan:    cmd.Plan,
			Limits:  LimitsForPlan(cmd.Plan),
		}
		created, err = txStore.Insert(ctx, o)
		if err != nil {
			return aethererr.Internal(err, "inserting organisation")
		}

		// 5. Insert the owner's membership row.
		if err := txStore.InsertMember(ctx, created.ID, cmd.OwnerID); err != nil {
			return aethererr.Internal(err, "inserting owner membership")
		}

		return nil
	})
	if err != nil {
		return Organisation{}, err
	}
	return created, nil
}

// Update applies a partial update to an organisation. Deleted or suspended
// organisations reject all updates; slug uniqueness is re-checked if the
// slug changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (Organisation, error) {
	if cmd.IsEmpty() {
		return Organisation{}, aethererr.Validation("update must change at least one field")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return Organisation{}, err
	}
	if current.Status == StatusDeleted {
		return Organisation{}, aethererr.Conflict("cannot update a deleted organisation")
	}
	if current.Status == StatusSuspended {
		return Organisation{}, aethererr.Conflict("cannot update a suspended organisation")
	}

	if cmd.Name != nil {
		if !ValidName(*cmd.Name) {
			return Organisation{}, aethererr.Validation("organisation name must be 3-100 characters")
		}
		current.Name = *cmd.Name
	}
	if cmd.Slug != nil && *cmd.Slug != current.Slug {
		if !ValidSlug(*cmd.Slug) {
			return Organisation{}, aethererr.Validation("slug must be 3-50 lowercase alphanumeric characters or hyphens")
		}
		exists, err := s.store.SlugExists(ctx, *cmd.Slug)
		if err != nil {
			return Organisation{}, aethererr.Internal(err, "checking slug uniqueness")
		}
		if exists {
			return Organisation{}, aethererr.Conflict("an organisation with this slug already exists")
		}
		current.Slug = *cmd.Slug
	}
	if cmd.Plan != nil {
		current.Plan = *cmd.Plan
		current.Limits = LimitsForPlan(*cmd.Plan)
	}

	updated, err := s.store.Update(ctx, current)
	if err != nil {
		return Organisation{}, aethererr.Internal(err, "updating organisation")
	}
	return updated, nil
}

// Suspend transitions an organisation to StatusSuspended. Already-suspended
// or deleted organisations reject.
func (s *Service) Suspend(ctx context.Context, id uuid.UUID) (Organisation, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Organisation{}, err
	}
	if current.Status == StatusDeleted {
		return Organisation{}, aethererr.Conflict("cannot suspend a deleted organisation")
	}
	if current.Status == StatusSuspended {
		return Organisation{}, aethererr.Conflict("organisation is already suspended")
	}
	updated, err := s.store.SetStatus(ctx, id, StatusSuspended)
	if err != nil {
		return Organisation{}, aethererr.Internal(err, "suspending organisation")
	}
	return updated, nil
}

// Activate transitions a suspended organisation back to StatusActive.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (Organisation, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Organisation{}, err
	}
	if current.Status == StatusDeleted {
		return Organisation{}, aethererr.Conflict("cannot activate a deleted organisation")
	}
	updated, err := s.store.SetStatus(ctx, id, StatusActive)
	if err != nil {
		return Organisation{}, aethererr.Internal(err, "activating organisation")
	}
	return updated, nil
}

// Delete soft-deletes an organisation. Already-deleted organisations reject.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == StatusDeleted {
		return aethererr.Conflict("organisation is already deleted")
	}
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return aethererr.Internal(err, "deleting organisation")
	}
	return nil
}

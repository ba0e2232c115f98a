package dataplane

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aetherhq/control-plane/pkg/aethererr"
)

// Service orchestrates data plane registration and placement lookups.
type Service struct {
	store *Store
}

// NewService creates a data plane Service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Get returns a single data plane by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (DataPlane, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return DataPlane{}, aethererr.NotFound("data plane not found")
		}
		return DataPlane{}, aethererr.Internal(err, "fetching data plane")
	}
	return d, nil
}

// List returns every registered data plane.
func (s *Service) List(ctx context.Context) ([]DataPlane, error) {
	planes, err := s.store.List(ctx)
	if err != nil {
		return nil, aethererr.Internal(err, "listing data planes")
	}
	return planes, nil
}

// Create registers a new data plane.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (DataPlane, error) {
	if cmd.Capacity < 1 {
		return DataPlane{}, aethererr.Validation("capacity must be at least 1")
	}
	if cmd.Mode != ModeShared && cmd.Mode != ModeDedicated {
		return DataPlane{}, aethererr.Validation("mode must be shared or dedicated")
	}
	created, err := s.store.Create(ctx, cmd)
	if err != nil {
		return DataPlane{}, aethererr.Internal(err, "creating data plane")
	}
	return created, nil
}

// FindAvailable picks a placement target for a new deployment: the
// least-loaded Active+Shared plane in region with enough spare capacity.
// Returns a NotFound domain error ("No available data plane found.") if
// none qualify, matching spec §4.3's literal create_deployment failure.
func (s *Service) FindAvailable(ctx context.Context, region string, requiredCapacity int) (DataPlane, error) {
	d, err := s.store.FindAvailable(ctx, region, requiredCapacity)
	if err != nil {
		if err == pgx.ErrNoRows {
			return DataPlane{}, aethererr.NotFound("No available data plane found.")
		}
		return DataPlane{}, aethererr.Internal(err, "finding available data plane")
	}
	return d, nil
}

package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aetherhq/control-plane/pkg/aethererr"
)

// Service implements the user aggregate's application commands.
type Service struct {
	store *Store
}

// NewService creates a user Service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Get returns a single user by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := s.store.Get(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return User{}, aethererr.NotFound("user not found")
		}
		return User{}, aethererr.Internal(err, "fetching user")
	}
	return u, nil
}

// EnsureExists returns the user matching cmd.Sub, creating one on first
// sight. The (out of scope) token validator never creates a row itself —
// every authenticated request whose subject isn't yet known is provisioned
// here, lazily, rather than through a separate registration flow.
func (s *Service) EnsureExists(ctx context.Context, cmd EnsureCommand) (User, error) {
	u, err := s.store.GetBySub(ctx, cmd.Sub)
	if err == nil {
		return u, nil
	}
	if err != pgx.ErrNoRows {
		return User{}, aethererr.Internal(err, "looking up user by subject")
	}

	u, err = s.store.Insert(ctx, cmd)
	if err != nil {
		return User{}, aethererr.Internal(err, "creating user")
	}
	return u, nil
}

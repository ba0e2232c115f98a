package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aetherhq/control-plane/internal/db"
)

// Store provides database operations for users.
type Store struct {
	dbtx db.DBTX
}

// NewStore creates a user Store backed by the given database connection.
func NewStore(dbtx db.DBTX) *Store {
	return &Store{dbtx: dbtx}
}

const userColumns = `id, email, name, sub, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Sub, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Get returns a single user by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.dbtx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetBySub returns the user matching the external subject claim, if any.
func (s *Store) GetBySub(ctx context.Context, sub string) (User, error) {
	row := s.dbtx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE sub = $1`, sub)
	return scanUser(row)
}

// Insert creates a new user row.
func (s *Store) Insert(ctx context.Context, cmd EnsureCommand) (User, error) {
	row := s.dbtx.QueryRow(ctx,
		`INSERT INTO users (id, email, name, sub, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING `+userColumns,
		uuid.New(), cmd.Email, cmd.Name, cmd.Sub,
	)
	return scanUser(row)
}

// Update applies a partial profile update, keyed by id.
func (s *Store) Update(ctx context.Context, id uuid.UUID, email, name string) (User, error) {
	row := s.dbtx.QueryRow(ctx,
		`UPDATE users SET email = $2, name = $3, updated_at = now()
		 WHERE id = $1 RETURNING `+userColumns,
		id, email, name,
	)
	u, err := scanUser(row)
	if err != nil {
		return User{}, fmt.Errorf("updating user: %w", err)
	}
	return u, nil
}

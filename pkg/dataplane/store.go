package dataplane

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aetherhq/control-plane/internal/db"
)

// Store provides database operations for data planes.
type Store struct {
	dbtx db.DBTX
}

// NewStore creates a data plane Store backed by the given database connection.
func NewStore(dbtx db.DBTX) *Store {
	return &Store{dbtx: dbtx}
}

const dataplaneColumns = `id, mode, region, status, capacity, created_at, updated_at`

func scanDataPlane(row pgx.Row) (DataPlane, error) {
	var d DataPlane
	err := row.Scan(&d.ID, &d.Mode, &d.Region, &d.Status, &d.Capacity, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// Get returns a single data plane by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (DataPlane, error) {
	row := s.dbtx.QueryRow(ctx, `SELECT `+dataplaneColumns+` FROM data_planes WHERE id = $1`, id)
	return scanDataPlane(row)
}

// List returns every registered data plane.
func (s *Store) List(ctx context.Context) ([]DataPlane, error) {
	rows, err := s.dbtx.Query(ctx, `SELECT `+dataplaneColumns+` FROM data_planes ORDER BY region, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing data planes: %w", err)
	}
	defer rows.Close()

	var out []DataPlane
	for rows.Next() {
		d, err := scanDataPlane(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning data plane row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create inserts a new data plane.
func (s *Store) Create(ctx context.Context, cmd CreateCommand) (DataPlane, error) {
	row := s.dbtx.QueryRow(ctx,
		`INSERT INTO data_planes (id, mode, region, status, capacity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 RETURNING `+dataplaneColumns,
		uuid.New(), cmd.Mode, cmd.Region, StatusActive, cmd.Capacity,
	)
	return scanDataPlane(row)
}

// FindAvailable implements spec §4.3's placement algorithm: among Active +
// Shared planes in region (or every region if region is empty), left-join
// with non-deleted deployments, filter where capacity - count(deployments)
// >= requiredCapacity, order by count ascending, return the first match.
// Returns pgx.ErrNoRows if none qualify.
func (s *Store) FindAvailable(ctx context.Context, region string, requiredCapacity int) (DataPlane, error) {
	query := `
		SELECT dp.id, dp.mode, dp.region, dp.status, dp.capacity, dp.created_at, dp.updated_at
		FROM data_planes dp
		LEFT JOIN deployments d ON d.dataplane_id = dp.id AND d.deleted_at IS NULL
		WHERE dp.status = 'active' AND dp.mode = 'shared'
		  AND ($1 = '' OR dp.region = $1)
		GROUP BY dp.id
		HAVING dp.capacity - count(d.id) >= $2
		ORDER BY count(d.id) ASC
		LIMIT 1`

	row := s.dbtx.QueryRow(ctx, query, region, requiredCapacity)
	return scanDataPlane(row)
}

// ActiveDeploymentCount returns the number of non-deleted deployments
// currently placed on a data plane.
func (s *Store) ActiveDeploymentCount(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := s.dbtx.QueryRow(ctx,
		`SELECT count(*) FROM deployments WHERE dataplane_id = $1 AND deleted_at IS NULL`, id,
	).Scan(&count)
	return count, err
}

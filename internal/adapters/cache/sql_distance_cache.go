package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkagd/technik-sub005/internal/platform/obs"
	"github.com/mkagd/technik-sub005/internal/ports"
)

// SQLDistanceCache is the Postgres-backed variant of the distance cache,
// used for server deployments where the cache is shared between
// instances.
type SQLDistanceCache struct {
	DB *sql.DB
}

func NewSQLDistanceCache(db *sql.DB) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db}
}

// Get returns the cached result for a pair, or nil on a miss.
func (s *SQLDistanceCache) Get(
	ctx context.Context,
	origin, destination string,
) (_ *ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}
	if origin == "" || destination == "" {
		return nil, errors.New("get distance cache: origin and destination must not be empty")
	}

	q := `
	SELECT distance_km, duration_min, alternatives
	FROM distance_cache
	WHERE origin = $1 AND destination = $2;
	`

	var km float64
	var min, alt int
	err = s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&km, &min, &alt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}

	return &ports.DistanceResult{
		DistanceKm:            km,
		DurationMin:           min,
		IsExact:               true,
		AlternativeRouteCount: alt,
	}, nil
}

// Put stores one pair result, overwriting any previous value.
func (s *SQLDistanceCache) Put(
	ctx context.Context,
	origin, destination string,
	r ports.DistanceResult,
) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if origin == "" || destination == "" {
		return errors.New("insert distance cache: origin and destination must not be empty")
	}
	if !r.IsExact {
		return nil
	}

	q := `
	INSERT INTO distance_cache (origin, destination, distance_km, duration_min, alternatives)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_min = EXCLUDED.duration_min,
		alternatives = EXCLUDED.alternatives;
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, r.DistanceKm, r.DurationMin, r.AlternativeRouteCount); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}

package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkagd/technik-sub005/internal/ports"
)

// SQLite-backed cache for origin->destination distance results.
// Keys are rounded coordinate strings produced by CoordKey; the caller
// is expected to key consistently.
type SqliteDistanceCache struct {
	DB *sql.DB
}

func NewSqliteDistanceCache(db *sql.DB) *SqliteDistanceCache {
	return &SqliteDistanceCache{DB: db}
}

// Get returns the cached result for a pair, or nil on a miss.
func (s *SqliteDistanceCache) Get(
	ctx context.Context,
	origin, destination string,
) (*ports.DistanceResult, error) {
	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}
	if origin == "" || destination == "" {
		return nil, errors.New("get distance cache: origin and destination must not be empty")
	}

	q := `
	SELECT distance_km, duration_min, alternatives
	FROM distance_cache
	WHERE origin = ? AND destination = ?;
	`

	var km float64
	var min, alt int
	err := s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&km, &min, &alt)
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
// Only exact provider results are worth caching; estimates are cheap to
// recompute and are skipped.
func (s *SqliteDistanceCache) Put(
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
	INSERT OR REPLACE INTO distance_cache (
		origin,
		destination,
		distance_km,
		duration_min,
		alternatives
	)
	VALUES (?, ?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, r.DistanceKm, r.DurationMin, r.AlternativeRouteCount); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}

package ports

import (
	"context"

	"github.com/mkagd/technik-sub005/internal/domain"
)

// Optional extension of DistanceProvider that supports batched lookups.
// Results align index-for-index with destinations.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from one origin to many destinations.
	DistancesFrom(ctx context.Context, origin domain.Coordinate, destinations []domain.Coordinate) ([]DistanceResult, error)
}

package ports

import (
	"context"

	"github.com/mkagd/technik-sub005/internal/domain"
)

// DistanceResult is the travel cost between two coordinates.
// IsExact reports whether the values came from a routing provider;
// estimated (fallback) results have IsExact=false and no alternatives.
type DistanceResult struct {
	DistanceKm            float64
	DurationMin           int
	IsExact               bool
	AlternativeRouteCount int
}

// DistanceProvider is the contract for travel distance/duration lookup
// between two coordinates. Implementations must be safe for concurrent
// use on independent coordinate pairs.
type DistanceProvider interface {
	Distance(ctx context.Context, origin, destination domain.Coordinate) (DistanceResult, error)
}

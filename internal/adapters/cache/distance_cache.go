package cache

import (
	"context"
	"fmt"

	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/ports"
)

// DistanceCache is the contract the routing provider uses to avoid
// repeated external matrix calls. A nil cache is valid and means
// "always miss".
type DistanceCache interface {
	// Get returns the cached result for a pair, or nil on a miss.
	Get(ctx context.Context, origin, destination string) (*ports.DistanceResult, error)
	// Put stores one pair result, overwriting any previous value.
	Put(ctx context.Context, origin, destination string, r ports.DistanceResult) error
}

// CoordKey renders a coordinate as a stable cache key. Rounding to five
// decimal places (~1 m) keeps keys consistent across float jitter.
func CoordKey(c domain.Coordinate) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

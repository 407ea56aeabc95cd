package distance

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/mkagd/technik-sub005/internal/adapters/cache"
	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/ports"
)

// DefaultOSRMBaseURL is the public OSRM demo instance. Production
// deployments point OSRM_BASE_URL at a self-hosted router.
const DefaultOSRMBaseURL = "https://router.project-osrm.org"

// OSRMProvider implements DistanceProvider against an OSRM instance.
//
// It coordinates:
//   - Persistent distance caching keyed by rounded coordinates
//   - Single-pair lookups via /route (supplies alternative-route counts)
//   - One-to-many lookups via /table
//   - External calls with retry/backoff
//
// The provider is safe for concurrent use. It never estimates: failures
// surface as errors and the FallbackProvider decorator decides what to do
// with them.
type OSRMProvider struct {
	client  *http.Client
	baseURL string
	profile string
	cache   cache.DistanceCache
}

func NewOSRMProvider(baseURL string, distanceCache cache.DistanceCache) *OSRMProvider {
	if baseURL == "" {
		baseURL = DefaultOSRMBaseURL
	}

	return &OSRMProvider{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
		profile: "driving",
		cache:   distanceCache,
	}
}

// Distance returns the road distance and duration for one pair, with the
// number of alternative routes the router found.
func (o *OSRMProvider) Distance(
	ctx context.Context,
	origin, destination domain.Coordinate,
) (ports.DistanceResult, error) {
	// Same point to same point is zero; rounding matches the cache key
	// precision (~1 m).
	originKey := cache.CoordKey(origin)
	destKey := cache.CoordKey(destination)
	if originKey == destKey {
		return ports.DistanceResult{IsExact: true}, nil
	}

	if o.cache != nil {
		cached, err := o.cache.Get(ctx, originKey, destKey)
		if err != nil {
			return ports.DistanceResult{}, err
		}
		if cached != nil {
			return *cached, nil
		}
	}

	result, err := o.fetchRoute(ctx, origin, destination)
	if err != nil {
		return ports.DistanceResult{}, err
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, originKey, destKey, result); err != nil {
			log.Printf("distance cache write failed: %v", err)
		}
	}

	return result, nil
}

// DistancesFrom returns results from one origin to many destinations,
// aligned index-for-index. Cache misses are fetched in a single table
// call.
func (o *OSRMProvider) DistancesFrom(
	ctx context.Context,
	origin domain.Coordinate,
	destinations []domain.Coordinate,
) ([]ports.DistanceResult, error) {
	if len(destinations) == 0 {
		return []ports.DistanceResult{}, nil
	}

	originKey := cache.CoordKey(origin)
	out := make([]ports.DistanceResult, len(destinations))

	missIdx := make([]int, 0, len(destinations))
	for i, d := range destinations {
		destKey := cache.CoordKey(d)
		if destKey == originKey {
			out[i] = ports.DistanceResult{IsExact: true}
			continue
		}

		if o.cache != nil {
			cached, err := o.cache.Get(ctx, originKey, destKey)
			if err != nil {
				return nil, err
			}
			if cached != nil {
				out[i] = *cached
				continue
			}
		}
		missIdx = append(missIdx, i)
	}

	if len(missIdx) == 0 {
		return out, nil
	}

	missing := make([]domain.Coordinate, 0, len(missIdx))
	for _, i := range missIdx {
		missing = append(missing, destinations[i])
	}

	fetched, err := o.fetchTableRow(ctx, origin, missing)
	if err != nil {
		return nil, err
	}

	for n, i := range missIdx {
		out[i] = fetched[n]

		if o.cache != nil {
			if err := o.cache.Put(ctx, originKey, cache.CoordKey(destinations[i]), fetched[n]); err != nil {
				log.Printf("distance cache write failed: %v", err)
			}
		}
	}

	return out, nil
}

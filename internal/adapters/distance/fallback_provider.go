package distance

import (
	"context"
	"log"
	"time"

	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/geo"
	"github.com/mkagd/technik-sub005/internal/ports"
)

// DefaultProviderTimeout bounds each external routing call. A timed-out
// call falls back to the straight-line estimate instead of retrying
// indefinitely.
const DefaultProviderTimeout = 5 * time.Second

// FallbackProvider decorates a routing provider with the mandatory
// two-tier policy: any provider error or timeout degrades to a haversine
// distance and speed-based duration marked IsExact=false. Scheduling must
// never hard-fail just because the network call did.
//
// Invalid coordinates are still hard errors; only recoverable external
// failures are swallowed.
type FallbackProvider struct {
	inner    ports.DistanceProvider
	timeout  time.Duration
	speedKmh float64
}

// NewFallbackProvider wraps inner. A nil inner yields a pure estimator,
// which is a valid configuration for offline or test deployments.
// Zero timeout/speed select the documented defaults.
func NewFallbackProvider(inner ports.DistanceProvider, timeout time.Duration, speedKmh float64) *FallbackProvider {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	if speedKmh <= 0 {
		speedKmh = geo.DefaultAverageSpeedKmh
	}
	return &FallbackProvider{inner: inner, timeout: timeout, speedKmh: speedKmh}
}

func (f *FallbackProvider) estimate(origin, destination domain.Coordinate) ports.DistanceResult {
	km := geo.HaversineKm(origin, destination)
	return ports.DistanceResult{
		DistanceKm:  km,
		DurationMin: geo.EstimateTravelMinutes(km, f.speedKmh),
		IsExact:     false,
	}
}

// Distance attempts the wrapped provider first and falls back to the
// straight-line estimate on any failure. The only errors returned are
// input validation errors.
func (f *FallbackProvider) Distance(
	ctx context.Context,
	origin, destination domain.Coordinate,
) (ports.DistanceResult, error) {
	if err := origin.Validate(); err != nil {
		return ports.DistanceResult{}, err
	}
	if err := destination.Validate(); err != nil {
		return ports.DistanceResult{}, err
	}

	if f.inner == nil {
		return f.estimate(origin, destination), nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	result, err := f.inner.Distance(ctx, origin, destination)
	if err != nil {
		log.Printf("distance provider failed, using estimate: err=%v", err)
		return f.estimate(origin, destination), nil
	}

	return result, nil
}

// DistancesFrom batches through the wrapped provider when it supports
// matrix lookups; a failed batch degrades every pair to an estimate.
func (f *FallbackProvider) DistancesFrom(
	ctx context.Context,
	origin domain.Coordinate,
	destinations []domain.Coordinate,
) ([]ports.DistanceResult, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	for _, d := range destinations {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	estimateAll := func() []ports.DistanceResult {
		out := make([]ports.DistanceResult, len(destinations))
		for i, d := range destinations {
			out[i] = f.estimate(origin, d)
		}
		return out
	}

	mp, ok := f.inner.(ports.DistanceMatrixProvider)
	if !ok {
		if f.inner == nil {
			return estimateAll(), nil
		}

		out := make([]ports.DistanceResult, len(destinations))
		for i, d := range destinations {
			r, err := f.Distance(ctx, origin, d)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	results, err := mp.DistancesFrom(ctx, origin, destinations)
	if err != nil || len(results) != len(destinations) {
		log.Printf("distance matrix provider failed, using estimates: err=%v", err)
		return estimateAll(), nil
	}

	return results, nil
}

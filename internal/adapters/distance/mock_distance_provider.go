package distance

import (
	"context"
	"fmt"
	"sync"

	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/geo"
	"github.com/mkagd/technik-sub005/internal/ports"
)

// MockPair fixes the result for one origin->destination lookup.
type MockPair struct {
	From, To     domain.Coordinate
	Km           float64
	Min          int
	Alternatives int
}

// MockProvider is a deterministic in-memory DistanceProvider for tests.
// Pairs without an explicit fixture fall back to haversine geometry so
// route-shape tests can use real coordinates without enumerating every
// pair. Err, when set, fails every call.
//
// The route optimizer issues lookups from concurrent goroutines, so the
// call counter is mutex-guarded; the fixture map is read-only after
// construction.
type MockProvider struct {
	m   map[string]ports.DistanceResult
	Err error

	mu    sync.Mutex
	calls int
}

func NewMockProvider(pairs []MockPair) *MockProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[pairKey(p.From, p.To)] = ports.DistanceResult{
			DistanceKm:            p.Km,
			DurationMin:           p.Min,
			IsExact:               true,
			AlternativeRouteCount: p.Alternatives,
		}
	}
	return &MockProvider{m: m}
}

func pairKey(a, b domain.Coordinate) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", a.Lat, a.Lng, b.Lat, b.Lng)
}

// Calls reports how many lookups the provider has served.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *MockProvider) Distance(ctx context.Context, origin, destination domain.Coordinate) (ports.DistanceResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.Err != nil {
		return ports.DistanceResult{}, p.Err
	}

	if r, ok := p.m[pairKey(origin, destination)]; ok {
		return r, nil
	}

	km := geo.HaversineKm(origin, destination)
	return ports.DistanceResult{
		DistanceKm:  km,
		DurationMin: geo.EstimateTravelMinutes(km, geo.DefaultAverageSpeedKmh),
		IsExact:     true,
	}, nil
}

package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/ports"
)

// RouteMode selects the minimization criterion for route optimization.
type RouteMode string

const (
	// ModeShortest minimizes travel distance (default).
	ModeShortest RouteMode = "shortest"
	// ModeFastest minimizes travel duration.
	ModeFastest RouteMode = "fastest"
)

// maxConcurrentDistanceCalls bounds parallel provider lookups during
// matrix prefetch to respect external rate limits.
const maxConcurrentDistanceCalls = 5

// Stop is one candidate visit for route optimization. Coord is nil when
// the underlying task has no resolved location.
type Stop struct {
	ID    string
	Coord *domain.Coordinate
}

// OptimizeRouteRequest describes one optimization run.
// Destination, when set, appends a synthetic return leg after the last
// stop; it may equal Origin for a return-to-base route.
type OptimizeRouteRequest struct {
	TechnicianID string
	Origin       domain.Coordinate
	Stops        []Stop
	Mode         RouteMode
	Destination  *domain.Coordinate
}

// OptimizeRoute sequences stops with a greedy nearest-neighbor heuristic.
//
// At each step it visits the remaining stop with the smallest travel cost
// from the current point, ties broken by input order (first occurrence
// wins) so results are deterministic. It does not attempt global route
// optimization (e.g., TSP or VRP solvers); for same-day dispatch with
// small stop counts the tradeoff is deliberate.
//
// Distance lookups are O(n²) and prefetched concurrently with bounded
// parallelism; the resulting ordering does not depend on call completion
// order.
func OptimizeRoute(
	ctx context.Context,
	req OptimizeRouteRequest,
	provider ports.DistanceProvider,
) (*domain.RoutePlan, error) {
	if err := req.Origin.Validate(); err != nil {
		return nil, fmt.Errorf("optimize route: origin: %w", err)
	}

	for _, s := range req.Stops {
		if s.Coord == nil {
			return nil, fmt.Errorf("optimize route: stop %q: %w", s.ID, domain.ErrMissingCoordinates)
		}
		if err := s.Coord.Validate(); err != nil {
			return nil, fmt.Errorf("optimize route: stop %q: %w", s.ID, err)
		}
	}

	if req.Destination != nil {
		if err := req.Destination.Validate(); err != nil {
			return nil, fmt.Errorf("optimize route: destination: %w", err)
		}
	}

	if len(req.Stops) == 0 {
		return &domain.RoutePlan{
			TechnicianID:     req.TechnicianID,
			Stops:            []domain.RouteStop{},
			TotalDistanceKm:  0,
			TotalDurationMin: 0,
		}, nil
	}

	// Point layout: index 0 is the origin, 1..n the stops in input order,
	// and optionally n+1 the destination.
	points := make([]domain.Coordinate, 0, len(req.Stops)+2)
	points = append(points, req.Origin)
	for _, s := range req.Stops {
		points = append(points, *s.Coord)
	}
	destIdx := -1
	if req.Destination != nil {
		points = append(points, *req.Destination)
		destIdx = len(points) - 1
	}

	matrix, err := prefetchDistances(ctx, points, len(req.Stops), provider)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	remaining := make([]int, 0, len(req.Stops))
	for i := 1; i <= len(req.Stops); i++ {
		remaining = append(remaining, i)
	}

	current := 0
	position := 0
	totalKm := 0.0
	totalMin := 0
	estimated := false

	stops := make([]domain.RouteStop, 0, len(req.Stops)+1)

	for len(remaining) > 0 {
		// Greedy step: strictly-smaller comparison over input order keeps
		// tie-breaking deterministic (first occurrence wins).
		bestIdx := -1
		for i, cand := range remaining {
			if bestIdx == -1 || metric(matrix[current][cand], req.Mode) < metric(matrix[current][remaining[bestIdx]], req.Mode) {
				bestIdx = i
			}
		}

		next := remaining[bestIdx]
		leg := matrix[current][next]

		totalKm += leg.DistanceKm
		totalMin += leg.DurationMin
		if !leg.IsExact {
			estimated = true
		}

		stops = append(stops, domain.RouteStop{
			StopID:                req.Stops[next-1].ID,
			Position:              position,
			Coord:                 points[next],
			LegDistanceKm:         leg.DistanceKm,
			LegDurationMin:        leg.DurationMin,
			CumulativeDistanceKm:  totalKm,
			CumulativeDurationMin: totalMin,
		})

		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		current = next
		position++
	}

	// Synthetic return leg when a final destination was requested.
	if destIdx >= 0 {
		leg := matrix[current][destIdx]
		totalKm += leg.DistanceKm
		totalMin += leg.DurationMin
		if !leg.IsExact {
			estimated = true
		}

		stops = append(stops, domain.RouteStop{
			StopID:                domain.ReturnStopID,
			Position:              position,
			Coord:                 points[destIdx],
			LegDistanceKm:         leg.DistanceKm,
			LegDurationMin:        leg.DurationMin,
			CumulativeDistanceKm:  totalKm,
			CumulativeDurationMin: totalMin,
			Return:                true,
		})
	}

	return &domain.RoutePlan{
		TechnicianID:     req.TechnicianID,
		Stops:            stops,
		TotalDistanceKm:  totalKm,
		TotalDurationMin: totalMin,
		Estimated:        estimated,
	}, nil
}

func metric(r ports.DistanceResult, mode RouteMode) float64 {
	if mode == ModeFastest {
		return float64(r.DurationMin)
	}
	return r.DistanceKm
}

// prefetchDistances fills a full travel-cost matrix for the origin and all
// stops (rows 0..stopCount) against every point, issuing provider calls
// with bounded parallelism. Rows are written at fixed indexes, so the
// matrix content is independent of goroutine completion order.
func prefetchDistances(
	ctx context.Context,
	points []domain.Coordinate,
	stopCount int,
	provider ports.DistanceProvider,
) ([][]ports.DistanceResult, error) {
	matrix := make([][]ports.DistanceResult, len(points))
	for i := range matrix {
		matrix[i] = make([]ports.DistanceResult, len(points))
	}

	mp, hasMatrix := provider.(ports.DistanceMatrixProvider)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDistanceCalls)

	// Only rows we depart from are needed: origin and each stop.
	for row := 0; row <= stopCount; row++ {
		row := row
		g.Go(func() error {
			if hasMatrix {
				targets := make([]domain.Coordinate, 0, len(points)-1)
				idx := make([]int, 0, len(points)-1)
				for col := range points {
					if col != row {
						targets = append(targets, points[col])
						idx = append(idx, col)
					}
				}

				results, err := mp.DistancesFrom(ctx, points[row], targets)
				if err != nil {
					return fmt.Errorf("distances from point %d: %w", row, err)
				}
				if len(results) != len(targets) {
					return fmt.Errorf("distances from point %d: got %d results, want %d", row, len(results), len(targets))
				}
				for i, col := range idx {
					matrix[row][col] = results[i]
				}
				return nil
			}

			for col := range points {
				if col == row {
					continue
				}
				r, err := provider.Distance(ctx, points[row], points[col])
				if err != nil {
					return fmt.Errorf("distance from point %d to %d: %w", row, col, err)
				}
				matrix[row][col] = r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return matrix, nil
}

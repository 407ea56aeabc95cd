package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/ports"
)

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

type osrmTableResponse struct {
	Code      string       `json:"code"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// OSRM expects lng,lat pairs in the URL path.
func coordPath(coords ...domain.Coordinate) string {
	s := ""
	for i, c := range coords {
		if i > 0 {
			s += ";"
		}
		s += fmt.Sprintf("%f,%f", c.Lng, c.Lat)
	}
	return s
}

// fetchRoute retrieves a single origin->destination result from the OSRM
// route endpoint. Alternatives are requested so the result can report how
// many distinct routes the router found.
func (o *OSRMProvider) fetchRoute(
	ctx context.Context,
	origin, destination domain.Coordinate,
) (ports.DistanceResult, error) {
	url := fmt.Sprintf(
		"%s/route/v1/%s/%s?alternatives=true&overview=false",
		o.baseURL, o.profile, coordPath(origin, destination),
	)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, url)
	})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var rr osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("decode route response: %w", err)
	}

	if rr.Code != "Ok" || len(rr.Routes) == 0 {
		return ports.DistanceResult{}, fmt.Errorf("route response code=%q routes=%d", rr.Code, len(rr.Routes))
	}

	best := rr.Routes[0]
	return ports.DistanceResult{
		DistanceKm:            best.Distance / 1000,
		DurationMin:           int(math.Round(best.Duration / 60)),
		IsExact:               true,
		AlternativeRouteCount: len(rr.Routes) - 1,
	}, nil
}

// fetchTableRow retrieves one origin->many results from the OSRM table
// endpoint. Results align index-for-index with destinations.
func (o *OSRMProvider) fetchTableRow(
	ctx context.Context,
	origin domain.Coordinate,
	destinations []domain.Coordinate,
) ([]ports.DistanceResult, error) {
	if len(destinations) == 0 {
		return []ports.DistanceResult{}, nil
	}

	coords := append([]domain.Coordinate{origin}, destinations...)

	dests := ""
	for i := 1; i <= len(destinations); i++ {
		if i > 1 {
			dests += ";"
		}
		dests += fmt.Sprintf("%d", i)
	}

	url := fmt.Sprintf(
		"%s/table/v1/%s/%s?sources=0&destinations=%s&annotations=distance,duration",
		o.baseURL, o.profile, coordPath(coords...), dests,
	)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("table request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr osrmTableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode table response: %w", err)
	}

	if tr.Code != "Ok" || len(tr.Distances) != 1 || len(tr.Durations) != 1 {
		return nil, fmt.Errorf(
			"table response code=%q distances=%d durations=%d",
			tr.Code, len(tr.Distances), len(tr.Durations),
		)
	}

	rowDistances := tr.Distances[0]
	rowDurations := tr.Durations[0]
	if len(rowDistances) != len(destinations) || len(rowDurations) != len(destinations) {
		return nil, fmt.Errorf(
			"table row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(rowDistances), len(rowDurations), len(destinations),
		)
	}

	out := make([]ports.DistanceResult, len(destinations))
	for i := range destinations {
		metersPtr := rowDistances[i]
		secondsPtr := rowDurations[i]
		if metersPtr == nil || secondsPtr == nil {
			return nil, fmt.Errorf("table returned no metrics for destination %d", i)
		}

		out[i] = ports.DistanceResult{
			DistanceKm:  *metersPtr / 1000,
			DurationMin: int(math.Round(*secondsPtr / 60)),
			IsExact:     true,
		}
	}

	return out, nil
}

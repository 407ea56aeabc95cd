package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/mkagd/technik-sub005/internal/api/dto"
	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/ports"
	"github.com/mkagd/technik-sub005/internal/services"
)

// RouteHandler optimizes a dispatcher-selected set of stops.
type RouteHandler struct {
	Provider ports.DistanceProvider
}

func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	mode, ok := routeMode(req.Mode)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "mode must be \"shortest\" or \"fastest\"")
		return
	}

	if req.Origin.Lat == nil || req.Origin.Lng == nil {
		writeError(w, r, http.StatusBadRequest, "origin is required")
		return
	}

	svcReq := services.OptimizeRouteRequest{
		TechnicianID: req.TechnicianID,
		Origin:       domain.Coordinate{Lat: *req.Origin.Lat, Lng: *req.Origin.Lng},
		Mode:         mode,
	}

	for _, s := range req.Stops {
		stop := services.Stop{ID: s.ID}
		if s.Location.Lat != nil && s.Location.Lng != nil {
			stop.Coord = &domain.Coordinate{Lat: *s.Location.Lat, Lng: *s.Location.Lng}
		}
		svcReq.Stops = append(svcReq.Stops, stop)
	}

	if req.Destination != nil {
		if req.Destination.Lat == nil || req.Destination.Lng == nil {
			writeError(w, r, http.StatusBadRequest, "destination must include lat and lng")
			return
		}
		svcReq.Destination = &domain.Coordinate{Lat: *req.Destination.Lat, Lng: *req.Destination.Lng}
	}

	plan, err := services.OptimizeRoute(r.Context(), svcReq, h.Provider)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCoordinates) || errors.Is(err, domain.ErrInvalidCoordinate) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("optimize route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, routePlanResponse(plan))
}

func routeMode(s string) (services.RouteMode, bool) {
	switch s {
	case "", string(services.ModeShortest):
		return services.ModeShortest, true
	case string(services.ModeFastest):
		return services.ModeFastest, true
	default:
		return "", false
	}
}

func routePlanResponse(plan *domain.RoutePlan) dto.RoutePlanResponse {
	res := dto.RoutePlanResponse{
		TechnicianID:     plan.TechnicianID,
		Stops:            make([]dto.RouteStopResponse, 0, len(plan.Stops)),
		TotalDistanceKm:  plan.TotalDistanceKm,
		TotalDurationMin: plan.TotalDurationMin,
		Estimated:        plan.Estimated,
	}
	for _, s := range plan.Stops {
		res.Stops = append(res.Stops, dto.RouteStopResponse{
			StopID:                s.StopID,
			Position:              s.Position,
			Lat:                   s.Coord.Lat,
			Lng:                   s.Coord.Lng,
			LegDistanceKm:         s.LegDistanceKm,
			LegDurationMin:        s.LegDurationMin,
			CumulativeDistanceKm:  s.CumulativeDistanceKm,
			CumulativeDurationMin: s.CumulativeDurationMin,
			Return:                s.Return,
		})
	}
	return res
}

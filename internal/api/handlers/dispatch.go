package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/mkagd/technik-sub005/internal/api/dto"
	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/ports"
	"github.com/mkagd/technik-sub005/internal/services"
)

// DispatchHandler produces a full day plan for one open task: best
// technician, optimized stop order and time slots. It persists nothing;
// the booking workflow applies the plan.
type DispatchHandler struct {
	Tasks       ports.TaskRepository
	Technicians ports.TechnicianRepository
	Provider    ports.DistanceProvider
	SlotConfig  services.SlotConfig
}

func (h *DispatchHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.DispatchPlanRequest

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

	if strings.TrimSpace(req.TaskID) == "" {
		writeError(w, r, http.StatusBadRequest, "task_id is required")
		return
	}

	mode, ok := routeMode(req.Mode)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "mode must be \"shortest\" or \"fastest\"")
		return
	}

	svcReq := services.DispatchRequest{
		TaskID:              req.TaskID,
		AcceptanceThreshold: req.Threshold,
		Mode:                mode,
		ReturnToOrigin:      req.ReturnToOrigin,
	}

	plan, err := services.PlanDispatch(r.Context(), svcReq, h.Tasks, h.Technicians, h.Provider, h.SlotConfig)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCoordinates) || errors.Is(err, domain.ErrInvalidCoordinate) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("plan dispatch failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if plan == nil {
		writeJSON(w, r, http.StatusOK, dto.DispatchPlanResponse{
			Assigned: false,
			Reason:   "no technician meets the acceptance threshold",
		})
		return
	}

	score := matchScoreResponse(plan.Score, effectiveThreshold(req.Threshold))
	route := routePlanResponse(plan.Route)

	res := dto.DispatchPlanResponse{
		Assigned:      true,
		TechnicianID:  plan.Technician.ID,
		Score:         &score,
		Route:         &route,
		Slots:         make([]dto.ScheduledSlotResponse, 0, len(plan.Slots)),
		OverrunsShift: plan.OverrunsShift,
	}
	for _, s := range plan.Slots {
		res.Slots = append(res.Slots, dto.ScheduledSlotResponse{
			TaskID:             s.TaskID,
			StartMin:           s.StartMin,
			EndMin:             s.EndMin,
			TravelToNextMin:    s.TravelToNextMin,
			PreferenceConflict: s.PreferenceConflict,
			OptimalTime:        s.OptimalTime,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func effectiveThreshold(t int) int {
	if t == 0 {
		return services.DefaultAcceptanceThreshold
	}
	return t
}

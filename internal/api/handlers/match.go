package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/mkagd/technik-sub005/internal/api/dto"
	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/ports"
	"github.com/mkagd/technik-sub005/internal/services"
)

// MatchHandler ranks the on-duty roster for a task.
type MatchHandler struct {
	Roster ports.TechnicianRepository
}

func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.MatchRequest

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

	task, err := taskFromPayload(req.Task)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	roster, err := h.Roster.ListOnDuty(r.Context())
	if err != nil {
		log.Printf("match failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	threshold := req.Threshold
	if threshold == 0 {
		threshold = services.DefaultAcceptanceThreshold
	}

	var ranked []services.MatchScore
	if req.Limit > 0 {
		ranked = services.BestMatches(task, roster, req.Limit)
	} else {
		ranked = services.RankTechnicians(task, roster)
	}

	res := dto.MatchResponse{
		Threshold: threshold,
		Matches:   make([]dto.MatchScoreResponse, 0, len(ranked)),
	}
	for _, s := range ranked {
		res.Matches = append(res.Matches, matchScoreResponse(s, threshold))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func matchScoreResponse(s services.MatchScore, threshold int) dto.MatchScoreResponse {
	return dto.MatchScoreResponse{
		TechnicianID: s.TechnicianID,
		Total:        s.Total,
		Skill:        s.Skill,
		Proximity:    s.Proximity,
		Workload:     s.Workload,
		Performance:  s.Performance,
		Priority:     s.Priority,
		DistanceKm:   s.DistanceKm,
		Acceptable:   s.Total >= threshold,
	}
}

// taskFromPayload validates wire input into a domain task. Coordinates
// are optional for matching (proximity simply scores zero) but must be in
// range when present.
func taskFromPayload(p dto.TaskPayload) (domain.Task, error) {
	task := domain.Task{
		ID:                   p.TaskID,
		RequiredSkills:       p.RequiredSkills,
		EstimatedDurationMin: p.DurationMin,
		PreferredTime:        p.PreferredTime,
		Location:             domain.Location{Address: p.Address},
	}

	switch domain.Priority(p.Priority) {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
		task.Priority = domain.Priority(p.Priority)
	case "":
		task.Priority = domain.PriorityMedium
	default:
		return domain.Task{}, errInvalidPriority
	}

	if p.Location.Lat != nil && p.Location.Lng != nil {
		coord := domain.Coordinate{Lat: *p.Location.Lat, Lng: *p.Location.Lng}
		if err := coord.Validate(); err != nil {
			return domain.Task{}, err
		}
		task.Location.Coords = &coord
	}

	return task, nil
}

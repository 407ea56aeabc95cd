package handlers

import (
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/mkagd/technik-sub005/internal/api/dto"
	"github.com/mkagd/technik-sub005/internal/ports"
	"github.com/mkagd/technik-sub005/internal/services"
)

// AvailabilityHandler quotes queue wait and congestion per booking
// bucket. Demand comes from the counter (Redis or task-table derived),
// capacity from the on-duty roster.
type AvailabilityHandler struct {
	Demand   ports.DemandCounter
	Roster   ports.TechnicianRepository
	Profiles map[string]services.BucketProfile
}

func (h *AvailabilityHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	counts, err := h.Demand.BucketCounts(r.Context())
	if err != nil {
		log.Printf("availability quote failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	roster, err := h.Roster.ListOnDuty(r.Context())
	if err != nil {
		log.Printf("availability quote failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	// The clock stops at the handler boundary; the estimator itself is
	// deterministic given "today".
	buckets := services.EstimateAvailability(counts, total, len(roster), time.Now(), h.Profiles)

	res := dto.AvailabilityResponse{
		TechnicianCount: len(roster),
		TotalActive:     total,
		Buckets:         make([]dto.AvailabilityBucketResponse, 0, len(buckets)),
	}
	for _, b := range buckets {
		res.Buckets = append(res.Buckets, dto.AvailabilityBucketResponse{
			Name:         b.Name,
			Demand:       b.Demand,
			WaitDays:     b.WaitDays,
			Popularity:   b.Popularity,
			EarliestDate: b.EarliestDate.Format("2006-01-02"),
		})
	}

	// Map iteration order is random; sort for a stable response body.
	slices.SortFunc(res.Buckets, func(a, b dto.AvailabilityBucketResponse) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})

	writeJSON(w, r, http.StatusOK, res)
}

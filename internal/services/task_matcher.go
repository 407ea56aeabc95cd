package services

import (
	"math"
	"slices"
	"strings"

	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/geo"
)

// Scoring component bounds. Each component is clamped independently, so
// the total naturally stays within 0-100.
const (
	skillLevelWeight    = 10
	maxSkillScore       = 50
	maxProximityScore   = 20
	maxWorkloadScore    = 15
	workloadCostPerJob  = 3
	maxPerformanceScore = 10
)

// DefaultAcceptanceThreshold is the default minimum score for automatic
// assignment. It is business policy, not an engine invariant: callers pass
// their own threshold to Acceptable.
const DefaultAcceptanceThreshold = 60

// MatchScore is the composite suitability of one technician for one task,
// with the per-component breakdown preserved for dispatcher UIs.
type MatchScore struct {
	TechnicianID string  `json:"technician_id"`
	Total        int     `json:"total"`
	Skill        int     `json:"skill"`
	Proximity    int     `json:"proximity"`
	Workload     int     `json:"workload"`
	Performance  int     `json:"performance"`
	Priority     int     `json:"priority"`
	DistanceKm   float64 `json:"distance_km"`
}

// ScoreTechnician computes the composite match score for a task/technician
// pair. Components:
//
//	skill:       sum of levels for required skills ×10, capped at 50
//	proximity:   20 minus straight-line km, floor 0
//	workload:    15 minus 3 per remaining queued job, floor 0
//	performance: completion rate scaled to 0-10
//	priority:    flat boost 5/3/1 for high/medium/low
func ScoreTechnician(task domain.Task, tech domain.Technician) MatchScore {
	s := MatchScore{TechnicianID: tech.ID}

	for _, skill := range task.RequiredSkills {
		s.Skill += tech.SkillLevel(strings.TrimSpace(skill)) * skillLevelWeight
	}
	if s.Skill > maxSkillScore {
		s.Skill = maxSkillScore
	}

	// Proximity degrades linearly to zero at 20 km. Unresolved locations
	// contribute nothing rather than failing the whole score.
	if task.Location.HasCoordinates() && tech.Location.HasCoordinates() {
		s.DistanceKm = geo.HaversineKm(*tech.Location.Coords, *task.Location.Coords)
		s.Proximity = clampInt(int(math.Round(float64(maxProximityScore)-s.DistanceKm)), 0, maxProximityScore)
	}

	s.Workload = clampInt(maxWorkloadScore-tech.Workload.Remaining*workloadCostPerJob, 0, maxWorkloadScore)

	s.Performance = clampInt(int(math.Round(tech.Performance.CompletionRate/100*maxPerformanceScore)), 0, maxPerformanceScore)

	s.Priority = task.Priority.BoostPoints()

	s.Total = s.Skill + s.Proximity + s.Workload + s.Performance + s.Priority
	return s
}

// RankTechnicians scores every technician for the task and sorts the
// result descending by total score, ties broken by technician ID ascending
// for determinism. An empty roster yields an empty ranking, not an error.
func RankTechnicians(task domain.Task, roster []domain.Technician) []MatchScore {
	ranked := make([]MatchScore, 0, len(roster))
	for _, tech := range roster {
		ranked = append(ranked, ScoreTechnician(task, tech))
	}

	slices.SortFunc(ranked, func(a, b MatchScore) int {
		if a.Total != b.Total {
			return b.Total - a.Total
		}
		return strings.Compare(a.TechnicianID, b.TechnicianID)
	})

	return ranked
}

// BestMatches returns the top k ranked technicians for the task.
func BestMatches(task domain.Task, roster []domain.Technician, k int) []MatchScore {
	ranked := RankTechnicians(task, roster)
	if k < 0 {
		k = 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// Acceptable filters a ranking down to scores meeting the caller's
// acceptance threshold. The threshold is caller policy; see
// DefaultAcceptanceThreshold for the documented default.
func Acceptable(ranked []MatchScore, threshold int) []MatchScore {
	out := make([]MatchScore, 0, len(ranked))
	for _, s := range ranked {
		if s.Total >= threshold {
			out = append(out, s)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

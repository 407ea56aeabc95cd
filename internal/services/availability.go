package services

import (
	"math"
	"time"

	"github.com/mkagd/technik-sub005/internal/domain"
)

// Clamp ranges for quoted values. Applied before returning, always.
const (
	minWaitDays   = 1
	maxWaitDays   = 7
	minPopularity = 10
	maxPopularity = 100
)

// BucketProfile holds the per-bucket constants of the congestion model.
// Offset and Divisor express how quickly a bucket clears: flexible windows
// ("Any time") carry a large divisor, narrow or late windows a small one.
// Baseline and the popularity bounds shape the congestion score.
type BucketProfile struct {
	Offset        int
	Divisor       float64
	Baseline      int
	MinPopularity int
	MaxPopularity int
}

// DefaultBucketProfiles returns the quoting buckets used by the booking
// form. The table is configuration: callers may pass their own.
func DefaultBucketProfiles() map[string]BucketProfile {
	return map[string]BucketProfile{
		"Any time":    {Offset: 0, Divisor: 3.0, Baseline: 10, MinPopularity: 10, MaxPopularity: 70},
		"8-12":        {Offset: 2, Divisor: 1.5, Baseline: 30, MinPopularity: 20, MaxPopularity: 95},
		"12-16":       {Offset: 1, Divisor: 2.0, Baseline: 20, MinPopularity: 15, MaxPopularity: 85},
		"16-20":       {Offset: 3, Divisor: 1.0, Baseline: 35, MinPopularity: 25, MaxPopularity: 100},
		"Weekend":     {Offset: 4, Divisor: 1.0, Baseline: 40, MinPopularity: 30, MaxPopularity: 100},
		"After 15:00": {Offset: 3, Divisor: 1.2, Baseline: 30, MinPopularity: 20, MaxPopularity: 95},
	}
}

// fallbackProfile covers demand reported for a bucket the profile table
// does not know about.
var fallbackProfile = BucketProfile{Offset: 0, Divisor: 2.0, Baseline: 20, MinPopularity: minPopularity, MaxPopularity: maxPopularity}

// EstimateAvailability quotes queue wait and congestion per bucket.
//
// For each profiled bucket:
//
//	waitDays   = ceil((demand + offset) / (technicianCount * divisor))
//	popularity = clamp(demandShare*100 + baseline, bucket min, bucket max)
//
// Both values are clamped into their documented ranges (waitDays 1-7,
// popularity 10-100) and earliestDate = today + waitDays. The model is a
// deterministic heuristic, not a simulation: same inputs, same quote.
// "Today" is an explicit parameter so tests control the clock.
func EstimateAvailability(
	countsByBucket map[string]int,
	totalActiveOrders int,
	technicianCount int,
	today time.Time,
	profiles map[string]BucketProfile,
) map[string]domain.AvailabilityBucket {
	if profiles == nil {
		profiles = DefaultBucketProfiles()
	}

	// A headless roster cannot clear any queue; quoting proceeds with the
	// slowest plausible capacity instead of dividing by zero.
	if technicianCount < 1 {
		technicianCount = 1
	}

	names := make(map[string]struct{}, len(profiles)+len(countsByBucket))
	for name := range profiles {
		names[name] = struct{}{}
	}
	for name := range countsByBucket {
		names[name] = struct{}{}
	}

	out := make(map[string]domain.AvailabilityBucket, len(names))
	for name := range names {
		profile, ok := profiles[name]
		if !ok {
			profile = fallbackProfile
		}

		demand := countsByBucket[name]

		waitDays := int(math.Ceil(float64(demand+profile.Offset) / (float64(technicianCount) * profile.Divisor)))
		waitDays = clampInt(waitDays, minWaitDays, maxWaitDays)

		share := 0.0
		if totalActiveOrders > 0 {
			share = float64(demand) / float64(totalActiveOrders)
		}
		popularity := clampInt(int(math.Round(share*100))+profile.Baseline, profile.MinPopularity, profile.MaxPopularity)
		popularity = clampInt(popularity, minPopularity, maxPopularity)

		out[name] = domain.AvailabilityBucket{
			Name:         name,
			Demand:       demand,
			WaitDays:     waitDays,
			Popularity:   popularity,
			EarliestDate: today.AddDate(0, 0, waitDays),
		}
	}

	return out
}

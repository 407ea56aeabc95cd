package domain

import "time"

// ScheduledSlot is a concrete start/end assignment for one task on one
// technician's calendar, in minutes from midnight. Slots are superseded
// by the next planning run, never mutated.
type ScheduledSlot struct {
	TaskID             string `json:"task_id"`
	StartMin           int    `json:"start_min"`
	EndMin             int    `json:"end_min"`
	TravelToNextMin    int    `json:"travel_to_next_min"`
	PreferenceConflict bool   `json:"preference_conflict"`
	OptimalTime        bool   `json:"optimal_time"`
}

// AvailabilityBucket is a quoting result for one named time window.
// Recomputed on every query, never stored.
type AvailabilityBucket struct {
	Name         string    `json:"name"`
	Demand       int       `json:"demand"`
	WaitDays     int       `json:"wait_days"`
	Popularity   int       `json:"popularity"` // congestion score, 10-100
	EarliestDate time.Time `json:"earliest_date"`
}

package domain

import "time"

// Priority of a service task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// BoostPoints returns the flat matching-score boost for this priority.
// Unknown values fall back to the low-priority boost.
func (p Priority) BoostPoints() int {
	switch p {
	case PriorityHigh:
		return 5
	case PriorityMedium:
		return 3
	default:
		return 1
	}
}

// Task is a confirmed service job waiting to be scheduled.
// It is created when a booking is confirmed and becomes terminal once a
// technician and slot are assigned, or the job is cancelled.
type Task struct {
	ID                   string    `json:"task_id"`
	RequiredSkills       []string  `json:"required_skills"`
	Priority             Priority  `json:"priority"`
	EstimatedDurationMin int       `json:"estimated_duration_min"`
	Location             Location  `json:"location"`
	PreferredTime        string    `json:"preferred_time"`
	Status               string    `json:"status"`
	TechnicianID         string    `json:"technician_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

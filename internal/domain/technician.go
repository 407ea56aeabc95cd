package domain

// Workload counters for a technician on a given day.
type Workload struct {
	Assigned  int `json:"assigned"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

// Performance holds rolling metrics sourced from completed jobs.
type Performance struct {
	CompletionRate float64 `json:"completion_rate"` // percent, 0-100
	OnTimeRate     float64 `json:"on_time_rate"`    // percent, 0-100
	AverageRating  float64 `json:"average_rating"`  // 0-5
}

// BreakInterval is a pause inside a working-hours window,
// in minutes from midnight.
type BreakInterval struct {
	StartMin int `json:"start_min"`
	EndMin   int `json:"end_min"`
}

// WorkingHours is a technician's shift for one date,
// in minutes from midnight.
type WorkingHours struct {
	StartMin int             `json:"start_min"`
	EndMin   int             `json:"end_min"`
	Breaks   []BreakInterval `json:"breaks,omitempty"`
}

// Technician is a field worker eligible to receive tasks.
// The engine never creates technicians; they come from the roster store.
// Skill levels range 0-5.
type Technician struct {
	ID           string         `json:"technician_id"`
	Name         string         `json:"name"`
	Skills       map[string]int `json:"skills"`
	Location     Location       `json:"location"`
	Workload     Workload       `json:"workload"`
	Performance  Performance    `json:"performance"`
	WorkingHours WorkingHours   `json:"working_hours"`
}

// SkillLevel returns the technician's level for a skill, 0 when absent.
func (t Technician) SkillLevel(skill string) int { return t.Skills[skill] }

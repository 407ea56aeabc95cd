package dto

// TaskPayload is the wire form of a task to be matched or dispatched.
type TaskPayload struct {
	TaskID         string            `json:"task_id"`
	RequiredSkills []string          `json:"required_skills"`
	Priority       string            `json:"priority"`
	DurationMin    int               `json:"duration_min"`
	Location       CoordinatePayload `json:"location"`
	Address        string            `json:"address"`
	PreferredTime  string            `json:"preferred_time"`
}

type MatchRequest struct {
	Task TaskPayload `json:"task"`
	// Threshold is the caller's acceptance policy; zero selects the
	// documented default.
	Threshold int `json:"threshold"`
	// Limit caps the number of ranked technicians returned; zero means all.
	Limit int `json:"limit"`
}

type MatchScoreResponse struct {
	TechnicianID string  `json:"technician_id"`
	Total        int     `json:"total"`
	Skill        int     `json:"skill"`
	Proximity    int     `json:"proximity"`
	Workload     int     `json:"workload"`
	Performance  int     `json:"performance"`
	Priority     int     `json:"priority"`
	DistanceKm   float64 `json:"distance_km"`
	Acceptable   bool    `json:"acceptable"`
}

type MatchResponse struct {
	Threshold int                  `json:"threshold"`
	Matches   []MatchScoreResponse `json:"matches"`
}

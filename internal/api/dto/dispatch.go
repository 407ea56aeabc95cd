package dto

// DispatchPlanRequest asks for a full day plan placing one open task.
type DispatchPlanRequest struct {
	TaskID         string `json:"task_id"`
	Threshold      int    `json:"threshold"`
	Mode           string `json:"mode"`
	ReturnToOrigin bool   `json:"return_to_origin"`
}

type ScheduledSlotResponse struct {
	TaskID             string `json:"task_id"`
	StartMin           int    `json:"start_min"`
	EndMin             int    `json:"end_min"`
	TravelToNextMin    int    `json:"travel_to_next_min"`
	PreferenceConflict bool   `json:"preference_conflict"`
	OptimalTime        bool   `json:"optimal_time"`
}

// DispatchPlanResponse carries the planning result. Assigned is false when
// no technician met the acceptance threshold; that is a normal outcome,
// not an error.
type DispatchPlanResponse struct {
	Assigned      bool                    `json:"assigned"`
	Reason        string                  `json:"reason,omitempty"`
	TechnicianID  string                  `json:"technician_id,omitempty"`
	Score         *MatchScoreResponse     `json:"score,omitempty"`
	Route         *RoutePlanResponse      `json:"route,omitempty"`
	Slots         []ScheduledSlotResponse `json:"slots,omitempty"`
	OverrunsShift bool                    `json:"overruns_shift,omitempty"`
}

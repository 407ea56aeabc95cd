package domain

// ReturnStopID marks the synthetic final leg back to a requested
// destination. It never refers to a real task.
const ReturnStopID = "return"

// RouteStop is one visit in an optimized route.
// Leg values cover travel from the previous point; cumulative values run
// from the route origin.
type RouteStop struct {
	StopID                string     `json:"stop_id"`
	Position              int        `json:"position"`
	Coord                 Coordinate `json:"coord"`
	LegDistanceKm         float64    `json:"leg_distance_km"`
	LegDurationMin        int        `json:"leg_duration_min"`
	CumulativeDistanceKm  float64    `json:"cumulative_distance_km"`
	CumulativeDurationMin int        `json:"cumulative_duration_min"`
	Return                bool       `json:"return,omitempty"`
}

// RoutePlan is the ordered visiting sequence for one technician's stops.
// It is produced fresh on every optimization call and carries no behavior;
// the caller decides whether to persist it.
type RoutePlan struct {
	TechnicianID     string      `json:"technician_id,omitempty"`
	Stops            []RouteStop `json:"stops"`
	TotalDistanceKm  float64     `json:"total_distance_km"`
	TotalDurationMin int         `json:"total_duration_min"`
	Estimated        bool        `json:"estimated,omitempty"`
}

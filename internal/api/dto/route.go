package dto

// RouteStopPayload is one candidate stop for route optimization.
type RouteStopPayload struct {
	ID       string            `json:"id"`
	Location CoordinatePayload `json:"location"`
}

type OptimizeRouteRequest struct {
	TechnicianID string             `json:"technician_id"`
	Origin       CoordinatePayload  `json:"origin"`
	Stops        []RouteStopPayload `json:"stops"`
	Mode         string             `json:"mode"` // shortest (default) | fastest
	Destination  *CoordinatePayload `json:"destination"`
}

type RouteStopResponse struct {
	StopID                string  `json:"stop_id"`
	Position              int     `json:"position"`
	Lat                   float64 `json:"lat"`
	Lng                   float64 `json:"lng"`
	LegDistanceKm         float64 `json:"leg_distance_km"`
	LegDurationMin        int     `json:"leg_duration_min"`
	CumulativeDistanceKm  float64 `json:"cumulative_distance_km"`
	CumulativeDurationMin int     `json:"cumulative_duration_min"`
	Return                bool    `json:"return,omitempty"`
}

type RoutePlanResponse struct {
	TechnicianID     string              `json:"technician_id,omitempty"`
	Stops            []RouteStopResponse `json:"stops"`
	TotalDistanceKm  float64             `json:"total_distance_km"`
	TotalDurationMin int                 `json:"total_duration_min"`
	Estimated        bool                `json:"estimated"`
}

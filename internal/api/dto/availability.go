package dto

// AvailabilityBucketResponse is the quoting result for one time window.
type AvailabilityBucketResponse struct {
	Name         string `json:"name"`
	Demand       int    `json:"demand"`
	WaitDays     int    `json:"wait_days"`
	Popularity   int    `json:"popularity"`
	EarliestDate string `json:"earliest_date"` // YYYY-MM-DD
}

type AvailabilityResponse struct {
	TechnicianCount int                          `json:"technician_count"`
	TotalActive     int                          `json:"total_active"`
	Buckets         []AvailabilityBucketResponse `json:"buckets"`
}

package dto

// CoordinatePayload carries a latitude/longitude pair over the wire.
// Pointers distinguish "missing" from zero, so unresolved locations are
// rejected explicitly instead of being treated as (0,0).
type CoordinatePayload struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

package domain

import "errors"

var (
	// ErrInvalidCoordinate marks latitude/longitude values outside the
	// WGS-84 range. Rejected at the input boundary.
	ErrInvalidCoordinate = errors.New("coordinate out of range")

	// ErrMissingCoordinates marks a stop or entity without location data.
	// Routing rejects such input up front rather than silently dropping
	// a stop from a technician's day.
	ErrMissingCoordinates = errors.New("missing coordinates")
)

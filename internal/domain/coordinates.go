package domain

import "fmt"

// Geographic coordinates (WGS-84 latitude/longitude).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects coordinates outside the WGS-84 range.
// Range checks happen at the input boundary; the geo math itself
// does not re-validate.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: lat=%v", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: lng=%v", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}

// Location is an immutable snapshot of where an entity currently is.
// It is replaced wholesale on update, never patched in place.
// Coords is nil when the address has not been resolved to a point yet.
type Location struct {
	Coords         *Coordinate `json:"coords"`
	Address        string      `json:"address"`
	AccuracyMeters float64     `json:"accuracy_meters,omitempty"`
	UpdatedAt      string      `json:"updated_at,omitempty"`
}

// HasCoordinates reports whether the location can be used for
// distance and routing calculations.
func (l Location) HasCoordinates() bool { return l.Coords != nil }

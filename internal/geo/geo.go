// Package geo provides great-circle distance and speed-based travel time
// estimates. It is the built-in fallback when no routing provider result
// is available; swap in an external provider for road-network accuracy.
package geo

import (
	"math"

	"github.com/mkagd/technik-sub005/internal/domain"
)

const (
	// EarthRadiusKm is the mean radius of Earth in kilometers.
	EarthRadiusKm = 6371.0

	// DefaultAverageSpeedKmh is the assumed average urban driving speed
	// used for time estimation when no routing engine is available.
	DefaultAverageSpeedKmh = 30.0
)

// HaversineKm returns the great-circle distance between two points in
// kilometers. Pure arithmetic; callers validate coordinate ranges before
// calling.
func HaversineKm(a, b domain.Coordinate) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLng := degToRad(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLng*sinLng

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// EstimateTravelMinutes converts a distance into driving minutes at the
// given average speed. Non-positive speeds fall back to the default.
func EstimateTravelMinutes(km, averageSpeedKmh float64) int {
	if averageSpeedKmh <= 0 {
		averageSpeedKmh = DefaultAverageSpeedKmh
	}
	return int(math.Round(km / averageSpeedKmh * 60))
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

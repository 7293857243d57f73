// Package geo provides great-circle distance math for donor and blood-bank
// lookups. Inputs are decimal degrees; callers are responsible for passing
// sane coordinates.
package geo

import "math"

const (
	earthRadiusKm = 6371

	// Assumed average urban travel speed for the rough ETA shown next to
	// nearby blood banks.
	avgTravelSpeedKmh = 30
)

// DistanceKm returns the haversine distance between two points in kilometers.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// TravelTimeMinutes estimates door-to-door travel time for a distance.
func TravelTimeMinutes(distanceKm float64) int {
	return int(math.Round(distanceKm / avgTravelSpeedKmh * 60))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

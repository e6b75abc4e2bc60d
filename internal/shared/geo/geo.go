package geo

import "math"

// DistanceKm returns the great-circle distance in kilometers between two
// points given as decimal degrees, using the spherical law of cosines.
// The arc is converted degrees -> nautical miles -> statute miles -> km,
// so the effective Earth radius is 60 * 1.1515 * 1.609344 km per degree.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}

	fromRad := lat1 * math.Pi / 180
	toRad := lat2 * math.Pi / 180
	thetaRad := (lng1 - lng2) * math.Pi / 180

	sum := math.Sin(fromRad)*math.Sin(toRad) +
		math.Cos(fromRad)*math.Cos(toRad)*math.Cos(thetaRad)

	// Rounding can push the sum just outside acos's domain.
	if sum > 1 {
		sum = 1
	}
	if sum < -1 {
		sum = -1
	}

	deg := math.Acos(sum) * 180 / math.Pi
	return deg * 60 * 1.1515 * 1.609344
}

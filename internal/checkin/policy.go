package checkin

import "time"

// Fixed policy, not configuration: the contract treats these as invariants
// of the product, not deployment knobs.
const (
	// MaxDistanceKm is the geofence radius around a gym: 100 meters.
	MaxDistanceKm = 0.1

	// ValidationWindow is how long after creation an administrator may
	// still confirm a check-in. One-shot: once elapsed, never validatable.
	ValidationWindow = 20 * time.Minute

	// PageSize for check-in listings.
	PageSize = 20
)

func WithinProximity(distanceKm float64) bool {
	return distanceKm <= MaxDistanceKm
}

func WithinValidationWindow(createdAt, now time.Time) bool {
	return now.Sub(createdAt) <= ValidationWindow
}

// DayOf normalizes a timestamp to its UTC calendar date. Daily uniqueness
// compares dates, midnight to midnight, never a rolling 24h window.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Package geofence decides whether two coordinates lie within a radius of
// each other. It is stateless; the check-in and reverification paths use
// it identically.
package geofence

import (
	"math"
	"net/http"

	"rollcall/internal/shared/apperror"
)

var ErrInvalidCoordinates = apperror.New(
	"INVALID_COORDINATES",
	"latitude must be within [-90,90] and longitude within [-180,180]",
	http.StatusBadRequest,
)

const earthRadiusMeters = 6371008.8

// ValidateCoordinates rejects out-of-range points before any distance
// math runs, so bad input never produces a nonsense distance.
func ValidateCoordinates(lat, lon float64) error {
	return validateCoords(lat, lon)
}

func validateCoords(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Distance returns the great-circle distance in meters between two points.
func Distance(lat1, lon1, lat2, lon2 float64) (float64, error) {
	if err := validateCoords(lat1, lon1); err != nil {
		return 0, err
	}
	if err := validateCoords(lat2, lon2); err != nil {
		return 0, err
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c, nil
}

// WithinRadius reports whether the two points are at most radiusMeters
// apart. The threshold is inclusive: a distance exactly equal to the
// radius is admitted.
func WithinRadius(lat1, lon1, lat2, lon2 float64, radiusMeters int) (bool, error) {
	dist, err := Distance(lat1, lon1, lat2, lon2)
	if err != nil {
		return false, err
	}
	return dist <= float64(radiusMeters), nil
}

package geofence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_KnownPoints(t *testing.T) {
	// Bangkok Victory Monument to Ratchathewi BTS, roughly 1.4 km.
	dist, err := Distance(13.764953, 100.538316, 13.751843, 100.531633)
	assert.NoError(t, err)
	assert.InDelta(t, 1620, dist, 200)

	// Same point is zero.
	dist, err = Distance(13.75, 100.5, 13.75, 100.5)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, dist)
}

func TestDistance_SmallOffset(t *testing.T) {
	// One ten-thousandth of a degree of latitude is about 11 meters.
	dist, err := Distance(13.750000, 100.500000, 13.750100, 100.500000)
	assert.NoError(t, err)
	assert.InDelta(t, 11.1, dist, 0.5)
}

func TestDistance_InvalidCoordinates(t *testing.T) {
	cases := [][4]float64{
		{91, 0, 0, 0},
		{-91, 0, 0, 0},
		{0, 181, 0, 0},
		{0, -181, 0, 0},
		{0, 0, 95, 0},
		{0, 0, 0, 200},
	}
	for _, c := range cases {
		_, err := Distance(c[0], c[1], c[2], c[3])
		assert.ErrorIs(t, err, ErrInvalidCoordinates)
	}
}

func TestWithinRadius_InclusiveBoundary(t *testing.T) {
	lat1, lon1 := 13.750000, 100.500000
	lat2, lon2 := 13.750100, 100.500000

	dist, err := Distance(lat1, lon1, lat2, lon2)
	assert.NoError(t, err)

	// Exactly at the distance: admitted.
	ok, err := WithinRadius(lat1, lon1, lat2, lon2, int(dist)+1)
	assert.NoError(t, err)
	assert.True(t, ok)

	// Just under the distance: rejected.
	ok, err = WithinRadius(lat1, lon1, lat2, lon2, int(dist)-1)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestWithinRadius_SamePointAlwaysInside(t *testing.T) {
	ok, err := WithinRadius(51.5, -0.12, 51.5, -0.12, 10)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestWithinRadius_PropagatesValidation(t *testing.T) {
	_, err := WithinRadius(120, 0, 0, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

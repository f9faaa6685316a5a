package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	event := Point{Latitude: 33.4255, Longitude: -111.9400}

	tests := []struct {
		name string
		user Point
		want float64
	}{
		{"same point", event, 0},
		{"west by 0.0005 deg", Point{33.4255, -111.9405}, 46.4},
		{"north by 0.0005 deg", Point{33.4260, -111.9400}, 55.6},
		{"one degree of latitude", Point{34.4255, -111.9400}, 111195},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Distance(tt.user, event)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, d, 0.5)
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Point{40.7128, -74.0060}
	b := Point{51.5074, -0.1278}
	ab, err := Distance(a, b)
	require.NoError(t, err)
	ba, err := Distance(b, a)
	require.NoError(t, err)
	assert.InDelta(t, ab, ba, 1e-6)
	assert.InDelta(t, 5570e3, ab, 10e3)
}

func TestDistanceInvalid(t *testing.T) {
	ok := Point{0, 0}
	for _, p := range []Point{
		{91, 0},
		{-91, 0},
		{0, 180.5},
		{math.NaN(), 0},
		{0, math.Inf(1)},
	} {
		_, err := Distance(p, ok)
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	}
}

package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceSamePointIsZero(t *testing.T) {
	for _, c := range []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 33.3062741, Lng: -111.7051246},
		{Lat: -89.9, Lng: 179.9},
	} {
		assert.Equal(t, 0.0, Distance(c, c))
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Coordinate{Lat: 33.3062741, Lng: -111.7051246}
	b := Coordinate{Lat: 33.3071, Lng: -111.7040}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistanceOneDegreeOfLongitudeAtEquator(t *testing.T) {
	d := Distance(Coordinate{Lat: 0, Lng: 0}, Coordinate{Lat: 0, Lng: 1})
	assert.InEpsilon(t, 111195.0, d, 0.005)
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0 ft"},
		{100, "328 ft"},
		{160, "525 ft"},
		{1609, "1.0 mi"},
		{4023, "2.5 mi"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDistance(tt.meters), "meters=%v", tt.meters)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{20, "0 min"},
		{90, "2 min"},
		{3599, "1 hr"},
		{3600, "1 hr"},
		{5400, "1 hr 30 min"},
		{7260, "2 hr 1 min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds), "seconds=%v", tt.seconds)
	}
}

func TestManeuverIcon(t *testing.T) {
	assert.Equal(t, "arrow-up", ManeuverIcon("", ""))
	assert.Equal(t, "arrow-left", ManeuverIcon("turn", "left"))
	assert.Equal(t, "corner-up-right", ManeuverIcon("turn", "sharp right"))
	assert.Equal(t, "map-pin", ManeuverIcon("arrive", ""))
	assert.Equal(t, "navigation", ManeuverIcon("depart", ""))
	assert.Equal(t, "arrow-up", ManeuverIcon("continue", "straight"))
}

func TestNearestKeepsFirstOnTie(t *testing.T) {
	from := Coordinate{Lat: 0, Lng: 0}
	candidates := []Coordinate{
		{Lat: 0, Lng: 2},
		{Lat: 0, Lng: 1},
		{Lat: 0, Lng: -1},
	}
	i, d, ok := Nearest(from, candidates)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.InEpsilon(t, 111195.0, d, 0.005)
}

func TestNearestEmpty(t *testing.T) {
	_, _, ok := Nearest(Coordinate{}, nil)
	assert.False(t, ok)
}

func TestFootprintAreaAndCentroid(t *testing.T) {
	// roughly 11m x 11m square near the equator
	ring := orb.Ring{{0, 0}, {0.0001, 0}, {0.0001, 0.0001}, {0, 0.0001}}

	area := FootprintArea(ring)
	assert.InDelta(t, 123.6, area, 2)

	c := Centroid(ring)
	assert.InDelta(t, 0.00005, c.Lon(), 1e-9)
	assert.InDelta(t, 0.00005, c.Lat(), 1e-9)

	assert.Equal(t, 0.0, FootprintArea(ring[:2]))
}

func TestCloseDoesNotMutate(t *testing.T) {
	ring := orb.Ring{{1, 1}, {2, 1}, {2, 2}}
	closed := Close(ring)
	assert.Len(t, ring, 3)
	assert.Len(t, closed, 4)
	assert.Equal(t, closed[0], closed[3])
	assert.False(t, math.IsNaN(closed[3][0]))
}

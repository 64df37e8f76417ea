package directions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-murals/internal/geo"
)

const twoLegBody = `{
  "code": "Ok",
  "routes": [{
    "distance": 850.5,
    "duration": 620,
    "geometry": {"type": "LineString", "coordinates": [[-111.7051, 33.3062], [-111.7045, 33.3066], [-111.7040, 33.3070]]},
    "legs": [
      {"steps": [
        {"distance": 120, "duration": 90, "maneuver": {"instruction": "Head north", "type": "depart"}},
        {"distance": 400, "duration": 300, "maneuver": {"instruction": "Turn left", "type": "turn", "modifier": "left"}}
      ]},
      {"steps": [
        {"distance": 0, "duration": 0, "maneuver": {"instruction": "You have arrived", "type": "arrive"}}
      ]}
    ]
  }]
}`

var (
	from = geo.Coordinate{Lat: 33.3062, Lng: -111.7051}
	to   = geo.Coordinate{Lat: 33.3070, Lng: -111.7040}
)

func TestWalking(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoLegBody))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	route, err := c.Walking(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, "/directions/v5/mapbox/walking/-111.7051,33.3062;-111.704,33.307", gotPath)
	assert.Contains(t, gotQuery, "steps=true")
	assert.Contains(t, gotQuery, "geometries=geojson")
	assert.Contains(t, gotQuery, "access_token=tok")

	assert.Equal(t, 850.5, route.Distance)
	assert.Equal(t, 620.0, route.Duration)
	assert.Len(t, route.Geometry, 3)
	require.Len(t, route.Steps, 3, "steps from every leg are flattened")
	assert.Equal(t, "Turn left", route.Steps[1].Instruction)
	assert.Equal(t, "left", route.Steps[1].Maneuver.Modifier)
	assert.Equal(t, "You have arrived", route.Steps[2].Instruction)
	assert.Equal(t, [2]float64{-111.7051, 33.3062}, route.Coordinates()[0])
}

func TestWalkingNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "tok").Walking(context.Background(), from, to)
	assert.True(t, errors.Is(err, ErrNoRoute))
}

func TestWalkingHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "bad").Walking(context.Background(), from, to)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
	assert.False(t, errors.Is(err, ErrNoRoute))
}

func TestWalkingCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(twoLegBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL, "tok").Walking(ctx, from, to)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSummary(t *testing.T) {
	route := Route{
		Distance: 850.5,
		Duration: 620,
		Steps: []Step{
			{Instruction: "Head north", Distance: 30, Maneuver: &Maneuver{Type: "depart"}},
			{Instruction: "Turn left", Distance: 400, Maneuver: &Maneuver{Type: "turn", Modifier: "left"}},
			{Instruction: "You have arrived", Maneuver: &Maneuver{Type: "arrive"}},
		},
	}
	s := route.Summary()
	assert.Equal(t, geo.FormatDistance(850.5), s.Distance)
	assert.Equal(t, "10 min", s.Duration)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, geo.FormatDistance(30), s.Steps[0].Distance)
	assert.Equal(t, geo.ManeuverIcon("turn", "left"), s.Steps[1].Icon)
	assert.Empty(t, s.Steps[2].Distance, "arrival step has no distance")
}

func TestNewDefaults(t *testing.T) {
	c := New("", "x")
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	c = New("http://example.test/", "x")
	assert.True(t, !strings.HasSuffix(c.BaseURL, "/"))
}

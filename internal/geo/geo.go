// Package geo holds the distance, formatting and footprint helpers shared by
// the map controller, the directions client and the HTTP API.
package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// EarthRadius is the mean earth radius in meters used by Distance.
const EarthRadius = 6371e3

const (
	feetPerMeter = 3.28084
	feetPerMile  = 5280
	// tenthMileFeet is the cutover from feet to miles in FormatDistance.
	tenthMileFeet = 528
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64 `json:"lat" doc:"Latitude" example:"33.3062741"`
	Lng float64 `json:"lng" doc:"Longitude" example:"-111.7051246"`
}

// Point converts the coordinate to an orb point (lng, lat order).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// FromPoint converts an orb point to a coordinate.
func FromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lng: p.Lon()}
}

// Distance returns the great-circle distance in meters between a and b
// using the Haversine formula.
func Distance(a, b Coordinate) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * c
}

// FormatDistance renders meters as feet below a tenth of a mile and as
// miles with one decimal otherwise, e.g. "328 ft" or "1.0 mi".
func FormatDistance(meters float64) string {
	feet := meters * feetPerMeter
	if feet < tenthMileFeet {
		return fmt.Sprintf("%d ft", int(math.Round(feet)))
	}
	return fmt.Sprintf("%.1f mi", feet/feetPerMile)
}

// FormatDuration renders seconds as rounded minutes, switching to hours
// from 60 minutes on: "2 min", "1 hr", "1 hr 30 min".
func FormatDuration(seconds float64) string {
	minutes := int(math.Round(seconds / 60))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%d hr", hours)
	}
	return fmt.Sprintf("%d hr %d min", hours, rest)
}

var maneuverIcons = map[string]string{
	"turn-left":         "arrow-left",
	"turn-right":        "arrow-right",
	"turn-slight left":  "arrow-up-left",
	"turn-slight right": "arrow-up-right",
	"turn-sharp left":   "corner-up-left",
	"turn-sharp right":  "corner-up-right",
	"arrive-":           "map-pin",
	"depart-":           "navigation",
}

// ManeuverIcon returns the icon name for a routing maneuver.
func ManeuverIcon(kind, modifier string) string {
	if kind == "" {
		return "arrow-up"
	}
	if icon, ok := maneuverIcons[kind+"-"+modifier]; ok {
		return icon
	}
	return "arrow-up"
}

// Nearest returns the index of the candidate closest to from and its
// distance in meters. Ties keep the earliest candidate. ok is false when
// candidates is empty.
func Nearest(from Coordinate, candidates []Coordinate) (index int, meters float64, ok bool) {
	index = -1
	for i, c := range candidates {
		d := Distance(from, c)
		if index < 0 || d < meters {
			index, meters = i, d
		}
	}
	return index, meters, index >= 0
}

// FootprintArea returns the area of an open ring in square meters.
func FootprintArea(ring orb.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}
	return math.Abs(orbgeo.Area(Close(ring)))
}

// Centroid returns the area-weighted center of an open ring.
func Centroid(ring orb.Ring) orb.Point {
	if len(ring) == 0 {
		return orb.Point{}
	}
	if len(ring) < 3 {
		return ring.Bound().Center()
	}
	c, _ := planar.CentroidArea(Close(ring))
	return c
}

// Close returns a copy of ring with the first point re-appended. Rings are
// stored open and only closed for rendering and area math.
func Close(ring orb.Ring) orb.Ring {
	if len(ring) == 0 {
		return orb.Ring{}
	}
	closed := make(orb.Ring, 0, len(ring)+1)
	closed = append(closed, ring...)
	if ring[0] != ring[len(ring)-1] {
		closed = append(closed, ring[0])
	}
	return closed
}

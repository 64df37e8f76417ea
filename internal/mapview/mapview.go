// Package mapview drives a map renderer through a small adapter interface.
// It owns the camera, style switching, layer composition and click routing;
// the renderer itself is a black box behind MapHandle.
package mapview

import (
	"github.com/joeblew999/plat-murals/internal/geo"
)

// Camera is the map viewport.
type Camera struct {
	Center  geo.Coordinate `json:"center" doc:"Map center"`
	Zoom    float64        `json:"zoom" doc:"Zoom level"`
	Pitch   float64        `json:"pitch" doc:"Tilt in degrees"`
	Bearing float64        `json:"bearing" doc:"Rotation in degrees"`
}

// VerdeStation is the initial camera for the site.
var VerdeStation = Camera{
	Center:  geo.Coordinate{Lat: 33.3062741, Lng: -111.7051246},
	Zoom:    17.5,
	Pitch:   30,
	Bearing: 0,
}

// StyleKind selects a base map style.
type StyleKind string

const (
	StyleSatellite StyleKind = "satellite"
	StyleDark      StyleKind = "dark"
)

// DefaultStyleURLs maps style kinds to Mapbox style URLs.
var DefaultStyleURLs = map[StyleKind]string{
	StyleSatellite: "mapbox://styles/mapbox/satellite-streets-v12",
	StyleDark:      "mapbox://styles/mapbox/dark-v11",
}

// ParseStyle returns the kind for s, defaulting to dark.
func ParseStyle(s string) StyleKind {
	if StyleKind(s) == StyleSatellite {
		return StyleSatellite
	}
	return StyleDark
}

// Source is a map data source.
type Source struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
	Data any    `json:"data,omitempty"`
}

// Layer is a style layer in Mapbox GL style JSON form.
type Layer struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Source      string         `json:"source"`
	SourceLayer string         `json:"source-layer,omitempty"`
	MinZoom     float64        `json:"minzoom,omitempty"`
	Filter      []any          `json:"filter,omitempty"`
	Layout      map[string]any `json:"layout,omitempty"`
	Paint       map[string]any `json:"paint,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// MapHandle is the renderer adapter. AddSource and AddLayer replace an
// existing entry with the same id.
type MapHandle interface {
	SetStyle(url string)
	AddSource(id string, src Source)
	AddLayer(layer Layer)
	SetCamera(cam Camera)
	Camera() Camera
	SetInteractive(layerID string, interactive bool)
}

// Package service contains the file-backed stores for murals and custom
// buildings.
package service

import (
	"errors"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-murals/internal/geo"
)

// MaxImages is the most images a mural may carry.
const MaxImages = 5

var (
	ErrMuralNotFound    = errors.New("mural not found")
	ErrTooFewPoints     = errors.New("building needs at least 3 points")
	ErrInvalidHeight    = errors.New("building height must be greater than zero")
	ErrDuplicateMuralID = errors.New("duplicate mural id")
)

// Mural is a single mural record as stored in murals.json.
// Fields without omitempty are required by the Huma schema.
type Mural struct {
	ID           string   `json:"id" minLength:"1" doc:"Stable mural identifier" example:"whimsical-tiger"`
	Name         string   `json:"name" doc:"Display name" example:"Whimsical Tiger"`
	Location     Location `json:"location" doc:"Building and coordinate"`
	Artist       Artist   `json:"artist" doc:"Artist details"`
	Image        string   `json:"image,omitempty" doc:"Legacy single image URL"`
	Images       []Image  `json:"images,omitempty" maxItems:"5" doc:"Ordered image gallery"`
	BuildingCode string   `json:"buildingCode" doc:"Short label shown on the marker" example:"B4"`
}

// Location places a mural on a building.
type Location struct {
	Building    string         `json:"building" doc:"Building name"`
	Coordinates geo.Coordinate `json:"coordinates" doc:"Marker coordinate"`
}

// Artist describes who painted a mural.
type Artist struct {
	Name        string `json:"name" doc:"Artist name"`
	SocialMedia string `json:"socialMedia,omitempty" doc:"Social handle"`
	Bio         string `json:"bio,omitempty" doc:"Free-text biography"`
}

// Image is one entry of a mural gallery. IsPrimary is advisory metadata.
type Image struct {
	URL         string `json:"url" doc:"Image URL"`
	Description string `json:"description" doc:"Alt text / caption"`
	IsPrimary   bool   `json:"isPrimary,omitempty" doc:"Preferred representative image"`
}

// Coordinate returns the mural's marker coordinate.
func (m Mural) Coordinate() geo.Coordinate {
	return m.Location.Coordinates
}

// Thumbnail returns the first gallery image, or the legacy image when the
// gallery is empty. IsPrimary is not consulted here.
func (m Mural) Thumbnail() string {
	if len(m.Images) > 0 {
		return m.Images[0].URL
	}
	return m.Image
}

// Gallery returns the images to show in the detail panel, synthesizing a
// single primary image from the legacy field when needed.
func (m Mural) Gallery() []Image {
	if len(m.Images) > 0 {
		return m.Images
	}
	return []Image{{URL: m.Image, Description: m.Name, IsPrimary: true}}
}

// Clone returns a deep copy so callers can edit without aliasing.
func (m Mural) Clone() Mural {
	if m.Images != nil {
		m.Images = append([]Image(nil), m.Images...)
	}
	return m
}

// Building is a traced footprint extruded in 3D. Coordinates form an open
// ring of [lng, lat] pairs.
type Building struct {
	ID          string       `json:"id" doc:"Generated building identifier"`
	Coordinates [][2]float64 `json:"coordinates" minItems:"3" doc:"Open ring of [lng, lat] pairs"`
	Height      float64      `json:"height" exclusiveMinimum:"0" doc:"Height in feet" example:"20"`
	Name        string       `json:"name,omitempty" doc:"Optional label"`
}

// NewBuilding builds a record from an open ring.
func NewBuilding(id string, ring orb.Ring, height float64) Building {
	coords := make([][2]float64, len(ring))
	for i, p := range ring {
		coords[i] = [2]float64{p.Lon(), p.Lat()}
	}
	return Building{ID: id, Coordinates: coords, Height: height}
}

// Ring returns the stored footprint as an open orb ring.
func (b Building) Ring() orb.Ring {
	ring := make(orb.Ring, len(b.Coordinates))
	for i, c := range b.Coordinates {
		ring[i] = orb.Point{c[0], c[1]}
	}
	return ring
}

// Polygon returns the closed footprint used for rendering.
func (b Building) Polygon() orb.Polygon {
	return orb.Polygon{geo.Close(b.Ring())}
}

// Validate checks the commit preconditions.
func (b Building) Validate() error {
	if len(b.Coordinates) < 3 {
		return ErrTooFewPoints
	}
	if b.Height <= 0 {
		return ErrInvalidHeight
	}
	return nil
}

// BuildingSummary adds derived footprint data to a building.
type BuildingSummary struct {
	Building
	AreaSqM  float64        `json:"areaSqM" doc:"Footprint area in square meters"`
	Centroid geo.Coordinate `json:"centroid" doc:"Footprint centroid"`
}

// Summarize computes footprint area and centroid.
func (b Building) Summarize() BuildingSummary {
	ring := b.Ring()
	return BuildingSummary{
		Building: b,
		AreaSqM:  geo.FootprintArea(ring),
		Centroid: geo.FromPoint(geo.Centroid(ring)),
	}
}

// Event represents a resource mutation.
type Event struct {
	Resource string // "murals" or "buildings"
	Action   string // "replaced", "updated"
	ID       string // mural ID, empty for collection writes
}

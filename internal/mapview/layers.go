package mapview

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-murals/internal/directions"
	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/service"
)

// Layer and source ids, in composition order.
const (
	LayerBaseBuildings   = "3d-buildings"
	LayerCustomBuildings = "custom-buildings"
	LayerCaptureFill     = "capture-preview-fill"
	LayerCaptureLine     = "capture-preview-line"
	LayerRoute           = "route"
	LayerUserPuck        = "user-location"
	LayerMarkers         = "mural-markers"
	LayerMarkerLabels    = "mural-labels"

	SourceBase      = "composite"
	SourceCustom    = "custom-buildings"
	SourceCapture   = "capture-preview"
	SourceRoute     = "route"
	SourceUser      = "user-location"
	SourceMarkers   = "murals"
	baseSourceLayer = "building"
)

// BaseExtrusionMinZoom is the zoom at which base buildings start to rise.
const BaseExtrusionMinZoom = 15

const feetToMeters = 0.3048

// DefaultAccentColor colors custom buildings.
const DefaultAccentColor = "#F59E0B"

const (
	markerColor         = "#F59E0B"
	selectedMarkerColor = "#10B981"
	routeColor          = "#3B82F6"
	puckColor           = "#2563EB"
)

func baseBuildingsLayer() Layer {
	return Layer{
		ID:          LayerBaseBuildings,
		Type:        "fill-extrusion",
		Source:      SourceBase,
		SourceLayer: baseSourceLayer,
		MinZoom:     BaseExtrusionMinZoom,
		Filter:      []any{"==", "extrude", "true"},
		Paint: map[string]any{
			"fill-extrusion-color": []any{
				"interpolate", []any{"linear"}, []any{"get", "height"},
				0, "#374151",
				20, "#4B5563",
				50, "#6B7280",
				100, "#9CA3AF",
			},
			"fill-extrusion-height": []any{
				"interpolate", []any{"linear"}, []any{"zoom"},
				BaseExtrusionMinZoom, 0,
				BaseExtrusionMinZoom + 0.05, []any{"get", "height"},
			},
			"fill-extrusion-base": []any{
				"interpolate", []any{"linear"}, []any{"zoom"},
				BaseExtrusionMinZoom, 0,
				BaseExtrusionMinZoom + 0.05, []any{"get", "min_height"},
			},
			"fill-extrusion-opacity": 0.8,
		},
	}
}

func customBuildingsLayer(accent string) Layer {
	return Layer{
		ID:     LayerCustomBuildings,
		Type:   "fill-extrusion",
		Source: SourceCustom,
		Paint: map[string]any{
			"fill-extrusion-color":   accent,
			"fill-extrusion-height":  []any{"get", "heightMeters"},
			"fill-extrusion-base":    0,
			"fill-extrusion-opacity": 0.9,
		},
	}
}

func captureLayers(accent string) []Layer {
	return []Layer{
		{
			ID:     LayerCaptureFill,
			Type:   "fill",
			Source: SourceCapture,
			Filter: []any{"==", []any{"geometry-type"}, "Polygon"},
			Paint:  map[string]any{"fill-color": accent, "fill-opacity": 0.3},
		},
		{
			ID:     LayerCaptureLine,
			Type:   "line",
			Source: SourceCapture,
			Paint:  map[string]any{"line-color": accent, "line-width": 2, "line-dasharray": []any{2, 1}},
		},
	}
}

func routeLayer() Layer {
	return Layer{
		ID:     LayerRoute,
		Type:   "line",
		Source: SourceRoute,
		Layout: map[string]any{"line-join": "round", "line-cap": "round"},
		Paint:  map[string]any{"line-color": routeColor, "line-width": 5, "line-opacity": 0.85},
	}
}

func userPuckLayer() Layer {
	return Layer{
		ID:     LayerUserPuck,
		Type:   "circle",
		Source: SourceUser,
		Paint: map[string]any{
			"circle-radius":       8,
			"circle-color":        puckColor,
			"circle-stroke-width": 3,
			"circle-stroke-color": "#FFFFFF",
		},
	}
}

func markerLayers() []Layer {
	return []Layer{
		{
			ID:     LayerMarkers,
			Type:   "circle",
			Source: SourceMarkers,
			Paint: map[string]any{
				"circle-radius": 14,
				"circle-color": []any{
					"case", []any{"boolean", []any{"get", "selected"}, false},
					selectedMarkerColor, markerColor,
				},
				"circle-stroke-width": 2,
				"circle-stroke-color": "#FFFFFF",
			},
		},
		{
			ID:     LayerMarkerLabels,
			Type:   "symbol",
			Source: SourceMarkers,
			Layout: map[string]any{
				"text-field":         []any{"get", "buildingCode"},
				"text-size":          11,
				"text-allow-overlap": true,
			},
			Paint: map[string]any{"text-color": "#FFFFFF"},
		},
	}
}

func geoJSONSource(fc *geojson.FeatureCollection) Source {
	return Source{Type: "geojson", Data: fc}
}

// BuildingsCollection renders committed buildings as closed polygons with
// their height converted to meters.
func BuildingsCollection(buildings []service.Building) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, b := range buildings {
		f := geojson.NewFeature(b.Polygon())
		f.ID = b.ID
		f.Properties["id"] = b.ID
		f.Properties["height"] = b.Height
		f.Properties["heightMeters"] = b.Height * feetToMeters
		if b.Name != "" {
			f.Properties["name"] = b.Name
		}
		fc.Append(f)
	}
	return fc
}

// MarkersCollection renders murals at the given display positions.
func MarkersCollection(murals []service.Mural, positions []geo.Coordinate, selectedID string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, m := range murals {
		pos := m.Coordinate()
		if i < len(positions) {
			pos = positions[i]
		}
		f := geojson.NewFeature(pos.Point())
		f.ID = m.ID
		f.Properties["id"] = m.ID
		f.Properties["name"] = m.Name
		f.Properties["buildingCode"] = m.BuildingCode
		f.Properties["thumbnail"] = m.Thumbnail()
		f.Properties["selected"] = m.ID == selectedID
		fc.Append(f)
	}
	return fc
}

func routeCollection(route *directions.Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if route != nil && len(route.Geometry) > 1 {
		fc.Append(geojson.NewFeature(route.Geometry))
	}
	return fc
}

func pointCollection(c *geo.Coordinate) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if c != nil {
		fc.Append(geojson.NewFeature(c.Point()))
	}
	return fc
}

func previewCollection(g orb.Geometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if g != nil {
		fc.Append(geojson.NewFeature(g))
	}
	return fc
}

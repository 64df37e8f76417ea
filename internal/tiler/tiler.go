// Package tiler renders murals and custom buildings as Mapbox vector tiles
// on request. The collections are small, so every tile is cut from the full
// feature set without an index.
package tiler

import (
	"errors"
	"fmt"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"

	"github.com/joeblew999/plat-murals/internal/mapview"
	"github.com/joeblew999/plat-murals/internal/service"
)

const (
	LayerMurals    = "murals"
	LayerBuildings = "buildings"

	// MaxZoom is the deepest tile served.
	MaxZoom = 22
)

// ErrTileRange is returned for coordinates outside the tile pyramid.
var ErrTileRange = errors.New("tile out of range")

// Parse validates z/x/y.
func Parse(z, x, y int) (maptile.Tile, error) {
	if z < 0 || z > MaxZoom {
		return maptile.Tile{}, fmt.Errorf("%w: zoom %d", ErrTileRange, z)
	}
	n := 1 << z
	if x < 0 || x >= n || y < 0 || y >= n {
		return maptile.Tile{}, fmt.Errorf("%w: %d/%d/%d", ErrTileRange, z, x, y)
	}
	return maptile.New(uint32(x), uint32(y), maptile.Zoom(z)), nil
}

// Collections builds the tile layers from stored records.
func Collections(murals []service.Mural, buildings []service.Building) map[string]*geojson.FeatureCollection {
	return map[string]*geojson.FeatureCollection{
		LayerMurals:    mapview.MarkersCollection(murals, nil, ""),
		LayerBuildings: mapview.BuildingsCollection(buildings),
	}
}

// Render encodes the features touching tile as a gzipped MVT. It returns nil
// when the tile is empty.
func Render(tile maptile.Tile, collections map[string]*geojson.FeatureCollection) ([]byte, error) {
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	slices.Sort(names)

	var layers mvt.Layers
	for _, name := range names {
		if layer := cutLayer(tile, name, collections[name]); layer != nil {
			layers = append(layers, layer)
		}
	}
	if len(layers) == 0 {
		return nil, nil
	}

	data, err := mvt.MarshalGzipped(layers)
	if err != nil {
		return nil, fmt.Errorf("encoding tile %v: %w", tile, err)
	}
	return data, nil
}

func cutLayer(tile maptile.Tile, name string, src *geojson.FeatureCollection) *mvt.Layer {
	if src == nil {
		return nil
	}
	bound := tile.Bound()

	fc := geojson.NewFeatureCollection()
	for _, f := range src.Features {
		if !intersects(f.Geometry, bound) {
			continue
		}
		// mvt clips and projects in place
		clone := geojson.NewFeature(orb.Clone(f.Geometry))
		clone.ID = f.ID
		for k, v := range f.Properties {
			clone.Properties[k] = v
		}
		fc.Append(clone)
	}
	if len(fc.Features) == 0 {
		return nil
	}

	layer := mvt.NewLayer(name, fc)
	if eps := simplifyEpsilon(tile.Z); eps > 0 {
		layer.Simplify(simplify.DouglasPeucker(eps))
	}
	layer.Clip(bound)
	layer.ProjectToTile(tile)
	layer.RemoveEmpty(0.5, 0.5)
	if len(layer.Features) == 0 {
		return nil
	}
	return layer
}

// intersects is exact for points and polygons and falls back to the
// bounding box for anything else.
func intersects(g orb.Geometry, bound orb.Bound) bool {
	if g == nil || !g.Bound().Intersects(bound) {
		return false
	}
	switch geom := g.(type) {
	case orb.Point:
		return bound.Contains(geom)
	case orb.Polygon:
		for _, ring := range geom {
			for _, p := range ring {
				if bound.Contains(p) {
					return true
				}
			}
		}
		corners := []orb.Point{
			bound.Min,
			{bound.Max[0], bound.Min[1]},
			bound.Max,
			{bound.Min[0], bound.Max[1]},
			bound.Center(),
		}
		for _, p := range corners {
			if planar.PolygonContains(geom, p) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// Footprints are a few meters across, so only far-out tiles are simplified.
func simplifyEpsilon(zoom maptile.Zoom) float64 {
	switch {
	case zoom >= 14:
		return 0
	case zoom >= 10:
		return 0.00001
	default:
		return 0.0001
	}
}

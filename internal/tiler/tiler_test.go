package tiler

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/service"
)

var site = orb.Point{-111.7051246, 33.3062741}

func fixtures() ([]service.Mural, []service.Building) {
	murals := []service.Mural{
		{ID: "tiger", Name: "Whimsical Tiger", BuildingCode: "B4", Location: service.Location{Coordinates: geo.FromPoint(site)}},
	}
	buildings := []service.Building{
		service.NewBuilding("b1", orb.Ring{
			{site[0] - 0.0001, site[1] - 0.0001},
			{site[0] + 0.0001, site[1] - 0.0001},
			{site[0] + 0.0001, site[1] + 0.0001},
		}, 20),
	}
	return murals, buildings
}

func TestParse(t *testing.T) {
	tile, err := Parse(17, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, maptile.Zoom(17), tile.Z)

	_, err = Parse(23, 0, 0)
	assert.ErrorIs(t, err, ErrTileRange)
	_, err = Parse(2, 4, 0)
	assert.ErrorIs(t, err, ErrTileRange)
	_, err = Parse(2, 0, -1)
	assert.ErrorIs(t, err, ErrTileRange)
}

func TestRenderSiteTile(t *testing.T) {
	murals, buildings := fixtures()
	tile := maptile.At(site, 17)

	cols := Collections(murals, buildings)
	data, err := Render(tile, cols)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	layers, err := mvt.UnmarshalGzipped(data)
	require.NoError(t, err)
	byName := map[string]*mvt.Layer{}
	for _, l := range layers {
		byName[l.Name] = l
	}
	require.Contains(t, byName, LayerMurals)
	require.Contains(t, byName, LayerBuildings)
	assert.Len(t, byName[LayerMurals].Features, 1)
	assert.Equal(t, "B4", byName[LayerMurals].Features[0].Properties["buildingCode"])
	assert.Len(t, byName[LayerBuildings].Features, 1)

	// source collections are not projected in place
	assert.Equal(t, site, cols[LayerMurals].Features[0].Geometry)
}

func TestRenderEmptyTile(t *testing.T) {
	murals, buildings := fixtures()
	far := maptile.At(orb.Point{10, 10}, 17)
	data, err := Render(far, Collections(murals, buildings))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestIntersectsPolygonCoveringTile(t *testing.T) {
	tile := maptile.At(site, 20)
	b := tile.Bound()
	pad := 0.01
	big := orb.Polygon{{
		{b.Min[0] - pad, b.Min[1] - pad},
		{b.Max[0] + pad, b.Min[1] - pad},
		{b.Max[0] + pad, b.Max[1] + pad},
		{b.Min[0] - pad, b.Max[1] + pad},
		{b.Min[0] - pad, b.Min[1] - pad},
	}}
	assert.True(t, intersects(big, b))
}

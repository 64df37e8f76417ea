package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/service"
)

func seed(t *testing.T, dir string) *service.EventBus {
	t.Helper()
	bus := service.NewEventBus()
	murals := service.NewMuralService(dir, bus)
	_, err := murals.ReplaceAll([]service.Mural{
		{ID: "tiger", Name: "Whimsical Tiger", BuildingCode: "B4",
			Location: service.Location{Building: "B4", Coordinates: geo.Coordinate{Lat: 33.3062, Lng: -111.7051}},
			Artist:   service.Artist{Name: "Baconcat"}},
		{ID: "birds", Name: "Birds", BuildingCode: "B2",
			Location: service.Location{Building: "B2", Coordinates: geo.Coordinate{Lat: 33.3065, Lng: -111.7049}},
			Artist:   service.Artist{Name: "macsch_"}},
	})
	require.NoError(t, err)
	return bus
}

func TestViewsOverDataFiles(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	d, err := Open(context.Background(), Config{DataDir: dir})
	require.NoError(t, err)
	defer d.Close()

	tables, err := d.Tables(context.Background())
	require.NoError(t, err)
	assert.Contains(t, tables, "murals")
	assert.Contains(t, tables, "mural_points")
	assert.NotContains(t, tables, "buildings", "no buildings file yet")

	res, err := d.Query(context.Background(), "SELECT id, lat FROM mural_points ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "lat"}, res.Columns)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, "birds", res.Rows[0]["id"])
	assert.InDelta(t, 33.3065, res.Rows[0]["lat"], 1e-9)
}

func TestQueryError(t *testing.T) {
	d, err := Open(context.Background(), Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Query(context.Background(), "SELECT * FROM nope")
	assert.Error(t, err)
}

func TestWatchRefreshesOnWrite(t *testing.T) {
	dir := t.TempDir()
	bus := seed(t, dir)

	d, err := Open(context.Background(), Config{DataDir: dir})
	require.NoError(t, err)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Watch(ctx, bus)

	buildings := service.NewBuildingService(dir, bus)
	_, err = buildings.ReplaceAll([]service.Building{
		{ID: "b1", Coordinates: [][2]float64{{0, 0}, {1, 0}, {1, 1}}, Height: 20},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		res, err := d.Query(context.Background(), "SELECT points FROM building_footprints")
		return err == nil && res.Count == 1
	}, 5*time.Second, 20*time.Millisecond)
}

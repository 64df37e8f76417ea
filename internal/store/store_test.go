package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/service"
)

type fakePersister struct {
	mu      sync.Mutex
	murals  []service.Mural
	listErr error
	saveErr error
	calls   []string
}

func (f *fakePersister) ListMurals(ctx context.Context) ([]service.Mural, error) {
	return f.murals, f.listErr
}

func (f *fakePersister) UpdateCoordinates(ctx context.Context, id string, lat, lng float64) (service.Mural, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "coords:"+id)
	return service.Mural{ID: id}, f.saveErr
}

func (f *fakePersister) UpdateMural(ctx context.Context, m service.Mural) (service.Mural, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "mural:"+m.ID)
	return m, f.saveErr
}

func seed() []service.Mural {
	return []service.Mural{
		{ID: "a", Name: "A", Location: service.Location{Coordinates: geo.Coordinate{Lat: 1, Lng: 2}}},
		{ID: "b", Name: "B", Location: service.Location{Coordinates: geo.Coordinate{Lat: 3, Lng: 4}}},
	}
}

func TestLoad(t *testing.T) {
	s := New(&fakePersister{murals: seed()})
	require.NoError(t, s.Load(context.Background()))
	assert.Len(t, s.State().Murals, 2)
}

func TestLoadFailureGivesEmptyList(t *testing.T) {
	s := New(&fakePersister{listErr: errors.New("boom")})
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.NotNil(t, s.State().Murals)
	assert.Empty(t, s.State().Murals)
	assert.Error(t, s.LoadErr())
}

func TestUpdateCoordinatesOptimistic(t *testing.T) {
	p := &fakePersister{murals: seed()}
	s := New(p)
	require.NoError(t, s.Load(context.Background()))
	before := s.State()

	next := s.UpdateCoordinates(context.Background(), "b", 9, 8)
	s.Wait()

	m, ok := next.Find("b")
	require.True(t, ok)
	assert.Equal(t, geo.Coordinate{Lat: 9, Lng: 8}, m.Coordinate())
	old, _ := before.Find("b")
	assert.Equal(t, geo.Coordinate{Lat: 3, Lng: 4}, old.Coordinate(), "previous snapshot is not mutated")
	assert.Equal(t, []string{"coords:b"}, p.calls)
	assert.Empty(t, s.Warnings())
}

func TestUpdateUnknownID(t *testing.T) {
	p := &fakePersister{murals: seed()}
	s := New(p)
	require.NoError(t, s.Load(context.Background()))

	next := s.UpdateCoordinates(context.Background(), "zzz", 9, 8)
	s.Wait()
	assert.Equal(t, seed(), next.Murals)
	assert.Empty(t, p.calls)
}

func TestFailedSaveKeepsLocalEdit(t *testing.T) {
	p := &fakePersister{murals: seed(), saveErr: errors.New("offline")}
	s := New(p)
	require.NoError(t, s.Load(context.Background()))

	edited := seed()[0]
	edited.Artist.Bio = "new bio"
	s.UpdateMural(context.Background(), edited)
	s.Wait()

	m, _ := s.State().Find("a")
	assert.Equal(t, "new bio", m.Artist.Bio)
	warnings := s.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "a", warnings[0].MuralID)
	assert.EqualError(t, warnings[0].Err, "offline")
}

func TestExport(t *testing.T) {
	s := New(&fakePersister{murals: seed()})
	require.NoError(t, s.Load(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))
	assert.Contains(t, buf.String(), "\n  {")

	var got []service.Mural
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, seed(), got)
}

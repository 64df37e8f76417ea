package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-murals/internal/service"
)

func active() Session {
	return Session{}.Toggle()
}

func TestAddPointIgnoredWhileInactive(t *testing.T) {
	s := Session{}.AddPoint(1, 2)
	assert.Empty(t, s.Points)
}

func TestToggleClearsPoints(t *testing.T) {
	s := active().AddPoint(1, 1).AddPoint(2, 2)
	require.Len(t, s.Points, 2)

	off := s.Toggle()
	assert.False(t, off.Active)
	assert.Empty(t, off.Points)

	on := off.Toggle()
	assert.True(t, on.Active)
	assert.Empty(t, on.Points)
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	s1 := active().AddPoint(1, 1)
	s2 := s1.AddPoint(2, 2)
	s3 := s2.Undo()
	s4 := s3.AddPoint(9, 9)

	assert.Len(t, s1.Points, 1)
	assert.Len(t, s2.Points, 2)
	assert.Equal(t, orb.Point{2, 2}, s2.Points[1])
	assert.Len(t, s3.Points, 1)
	assert.Equal(t, orb.Point{9, 9}, s4.Points[1])
}

func TestUndo(t *testing.T) {
	s := active().AddPoint(1, 1)
	require.True(t, s.CanUndo())

	s = s.Undo()
	assert.Empty(t, s.Points)
	assert.False(t, s.CanUndo())

	s = s.Undo()
	assert.Empty(t, s.Points)
}

func TestCancelKeepsActive(t *testing.T) {
	s := active().AddPoint(1, 1).AddPoint(2, 2).Cancel()
	assert.True(t, s.Active)
	assert.Empty(t, s.Points)
	assert.Empty(t, s.Committed)
}

func TestCommitRejectsTwoPoints(t *testing.T) {
	s := active().AddPoint(0, 0).AddPoint(1, 0)
	assert.False(t, s.CanCommit(20))

	next, _, err := s.Commit(20)
	assert.ErrorIs(t, err, ErrTooFewPoints)
	assert.Empty(t, next.Committed)
	assert.Len(t, next.Points, 2)
}

func TestCommitRejectsNonPositiveHeight(t *testing.T) {
	s := active().AddPoint(0, 0).AddPoint(1, 0).AddPoint(1, 1)
	for _, h := range []float64{0, -5} {
		_, _, err := s.Commit(h)
		assert.ErrorIs(t, err, ErrInvalidHeight)
	}
}

func TestCommitInactive(t *testing.T) {
	_, _, err := Session{Points: orb.Ring{{0, 0}, {1, 0}, {1, 1}}}.Commit(10)
	assert.ErrorIs(t, err, ErrInactive)
}

func TestCommitThreePoints(t *testing.T) {
	NewID = func() string { return "fixed" }
	t.Cleanup(func() { NewID = defaultNewID })

	s := active().AddPoint(-111.7051, 33.3062).AddPoint(-111.7050, 33.3062).AddPoint(-111.7050, 33.3063)
	require.True(t, s.CanCommit(20))

	next, b, err := s.Commit(20)
	require.NoError(t, err)
	require.Len(t, next.Committed, 1)
	assert.Equal(t, b, next.Committed[0])
	assert.Equal(t, "fixed", b.ID)
	assert.Len(t, b.Coordinates, 3)
	assert.Equal(t, [2]float64{-111.7051, 33.3062}, b.Coordinates[0])
	assert.Equal(t, 20.0, b.Height)
	assert.Empty(t, next.Points)
	assert.False(t, next.Active)
	assert.Empty(t, s.Committed)
}

func TestCommitIDsAreUnique(t *testing.T) {
	s := Loaded(nil)
	for i := 0; i < 3; i++ {
		var err error
		s = s.Toggle().AddPoint(0, 0).AddPoint(1, 0).AddPoint(1, 1)
		s, _, err = s.Commit(10)
		require.NoError(t, err)
	}
	seen := map[string]bool{}
	for _, b := range s.Committed {
		assert.False(t, seen[b.ID])
		seen[b.ID] = true
	}
}

func TestPreview(t *testing.T) {
	s := active()
	assert.Nil(t, s.Preview())

	s = s.AddPoint(0, 0).AddPoint(1, 0)
	line, ok := s.Preview().(orb.LineString)
	require.True(t, ok)
	assert.Len(t, line, 2)

	s = s.AddPoint(1, 1)
	poly, ok := s.Preview().(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 4)
	assert.Equal(t, poly[0][0], poly[0][3])
	assert.Len(t, s.Points, 3)
}

type recordingPersister struct {
	saves [][]service.Building
	err   error
}

func (p *recordingPersister) SaveBuildings(_ context.Context, b []service.Building) error {
	p.saves = append(p.saves, b)
	return p.err
}

func TestSaverSkipsInitialLoad(t *testing.T) {
	p := &recordingPersister{}
	saver := NewSaver(p)
	ctx := context.Background()

	existing := []service.Building{service.NewBuilding("a", orb.Ring{{0, 0}, {1, 0}, {1, 1}}, 5)}
	s := Loaded(existing)

	saved, err := saver.Observe(ctx, s)
	require.NoError(t, err)
	assert.False(t, saved)

	s = s.Toggle().AddPoint(0, 0)
	saved, _ = saver.Observe(ctx, s)
	assert.False(t, saved)

	s = s.AddPoint(1, 0).AddPoint(1, 1)
	s, _, err = s.Commit(12)
	require.NoError(t, err)

	saved, err = saver.Observe(ctx, s)
	require.NoError(t, err)
	assert.True(t, saved)
	require.Len(t, p.saves, 1)
	assert.Len(t, p.saves[0], 2)
}

func TestSaverReportsError(t *testing.T) {
	p := &recordingPersister{err: errors.New("boom")}
	saver := NewSaver(p)
	ctx := context.Background()

	s := Loaded(nil)
	_, _ = saver.Observe(ctx, s)

	s = s.Toggle().AddPoint(0, 0).AddPoint(1, 0).AddPoint(1, 1)
	s, _, _ = s.Commit(3)
	saved, err := saver.Observe(ctx, s)
	assert.True(t, saved)
	assert.Error(t, err)

	p.err = nil
	saved, err = saver.Observe(ctx, s)
	require.NoError(t, err)
	assert.True(t, saved, "failed save is retried")
	require.Len(t, p.saves, 2)

	saved, _ = saver.Observe(ctx, s)
	assert.False(t, saved)
}

func TestBuildingStore(t *testing.T) {
	buildings := service.NewBuildingService(t.TempDir(), nil)
	store := BuildingStore{Buildings: buildings}

	b := service.NewBuilding("a", orb.Ring{{0, 0}, {1, 0}, {1, 1}}, 5)
	require.NoError(t, store.SaveBuildings(context.Background(), []service.Building{b}))
	assert.Equal(t, []service.Building{b}, buildings.List())

	bad := service.Building{ID: "x", Coordinates: [][2]float64{{0, 0}}, Height: 5}
	assert.Error(t, store.SaveBuildings(context.Background(), []service.Building{bad}))
}

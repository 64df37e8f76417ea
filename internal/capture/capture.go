// Package capture implements the building tracing workflow: clicked map
// points accumulate into an open ring which is committed, together with a
// height, as a new custom building.
//
// Session is a value type. Every transition returns a new Session and leaves
// the receiver untouched, so callers can keep the previous state around for
// rendering or comparison.
package capture

import (
	"errors"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/service"
)

// MinPoints is the smallest ring that can be committed.
const MinPoints = 3

var (
	ErrInactive      = errors.New("capture is not active")
	ErrTooFewPoints  = service.ErrTooFewPoints
	ErrInvalidHeight = service.ErrInvalidHeight
)

// NewID generates building ids. UUIDv7 is time-ordered, which keeps
// buildings.json sorted by creation.
var NewID = defaultNewID

func defaultNewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Session is the capture state.
type Session struct {
	Active    bool
	Points    orb.Ring
	Committed []service.Building
}

// Loaded returns an inactive session seeded with previously saved buildings.
func Loaded(buildings []service.Building) Session {
	return Session{Committed: append([]service.Building(nil), buildings...)}
}

// Toggle flips between active and inactive. Pending points are dropped
// either way.
func (s Session) Toggle() Session {
	s.Active = !s.Active
	s.Points = nil
	return s
}

// AddPoint appends a vertex. Points are not deduplicated.
func (s Session) AddPoint(lng, lat float64) Session {
	if !s.Active {
		return s
	}
	points := make(orb.Ring, len(s.Points), len(s.Points)+1)
	copy(points, s.Points)
	s.Points = append(points, orb.Point{lng, lat})
	return s
}

// Undo removes the most recent point.
func (s Session) Undo() Session {
	if len(s.Points) == 0 {
		return s
	}
	s.Points = s.Points[:len(s.Points)-1:len(s.Points)-1]
	return s
}

// Cancel discards pending points and stays active.
func (s Session) Cancel() Session {
	s.Points = nil
	return s
}

// CanUndo reports whether there is a point to remove.
func (s Session) CanUndo() bool {
	return len(s.Points) > 0
}

// CanCommit reports whether Commit(height) would succeed.
func (s Session) CanCommit(height float64) bool {
	return s.Active && len(s.Points) >= MinPoints && height > 0
}

// Commit turns the pending ring into a building and appends it to the
// committed list. The ring is stored open. The returned session is
// inactive; persisting Committed is up to the caller.
func (s Session) Commit(height float64) (Session, service.Building, error) {
	switch {
	case !s.Active:
		return s, service.Building{}, ErrInactive
	case len(s.Points) < MinPoints:
		return s, service.Building{}, ErrTooFewPoints
	case height <= 0:
		return s, service.Building{}, ErrInvalidHeight
	}

	b := service.NewBuilding(NewID(), s.Points, height)

	committed := make([]service.Building, len(s.Committed), len(s.Committed)+1)
	copy(committed, s.Committed)
	s.Committed = append(committed, b)
	s.Points = nil
	s.Active = false
	return s, b, nil
}

// Preview returns the geometry to draw for the pending points: nothing for
// an empty ring, an open line below MinPoints, and a closed polygon from
// MinPoints on.
func (s Session) Preview() orb.Geometry {
	switch {
	case len(s.Points) == 0:
		return nil
	case len(s.Points) < MinPoints:
		return orb.LineString(append([]orb.Point(nil), s.Points...))
	default:
		return orb.Polygon{geo.Close(s.Points)}
	}
}

package capture

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-murals/internal/service"
)

// Persister saves the full building collection.
type Persister interface {
	SaveBuildings(ctx context.Context, buildings []service.Building) error
}

// Saver persists the committed collection whenever it changes. The first
// observed collection is the one loaded from the server and is not saved
// back.
type Saver struct {
	persister Persister
	loaded    bool
	last      int
}

// NewSaver creates a saver around p.
func NewSaver(p Persister) *Saver {
	return &Saver{persister: p}
}

// Observe is called with every new session. It returns whether a save was
// issued.
func (s *Saver) Observe(ctx context.Context, session Session) (bool, error) {
	n := len(session.Committed)
	if !s.loaded {
		s.loaded = true
		s.last = n
		return false, nil
	}
	if n == s.last {
		return false, nil
	}

	// a failed save leaves last alone so the next Observe retries
	if err := s.persister.SaveBuildings(ctx, session.Committed); err != nil {
		log.WithError(err).WithField("count", n).Error("saving buildings")
		return true, err
	}
	s.last = n
	return true, nil
}

// BuildingStore persists through a BuildingService.
type BuildingStore struct {
	Buildings *service.BuildingService
}

func (b BuildingStore) SaveBuildings(ctx context.Context, buildings []service.Building) error {
	_, err := b.Buildings.ReplaceAll(buildings)
	return err
}

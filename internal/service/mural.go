package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// MuralService manages murals.json. Every call reads the file and every
// mutation rewrites it in full; there is no locking across processes, so
// two writers race and the last write wins.
type MuralService struct {
	dataDir string
	bus     *EventBus
	mu      sync.RWMutex
}

// NewMuralService creates a mural service rooted at dataDir.
func NewMuralService(dataDir string, bus *EventBus) *MuralService {
	return &MuralService{dataDir: dataDir, bus: bus}
}

// List returns all murals. A missing or unreadable file is an error.
func (s *MuralService) List() ([]Mural, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readFromDisk()
}

// Get returns a mural by ID.
func (s *MuralService) Get(id string) (Mural, error) {
	murals, err := s.List()
	if err != nil {
		return Mural{}, err
	}
	for _, m := range murals {
		if m.ID == id {
			return m, nil
		}
	}
	return Mural{}, fmt.Errorf("%w: %q", ErrMuralNotFound, id)
}

// ReplaceAll overwrites murals.json with murals and returns the count.
func (s *MuralService) ReplaceAll(murals []Mural) (int, error) {
	seen := make(map[string]struct{}, len(murals))
	for _, m := range murals {
		if _, dup := seen[m.ID]; dup {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateMuralID, m.ID)
		}
		seen[m.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if murals == nil {
		murals = []Mural{}
	}
	if err := s.saveToDisk(murals); err != nil {
		return 0, err
	}
	log.WithField("count", len(murals)).Info("saved murals")
	s.publish("replaced", "")
	return len(murals), nil
}

// UpdateCoordinates moves a mural's marker.
func (s *MuralService) UpdateCoordinates(id string, lat, lng float64) (Mural, error) {
	return s.modify(id, func(m *Mural) {
		m.Location.Coordinates.Lat = lat
		m.Location.Coordinates.Lng = lng
	})
}

// Update replaces a whole mural record keyed by its ID.
func (s *MuralService) Update(mural Mural) (Mural, error) {
	return s.modify(mural.ID, func(m *Mural) {
		*m = mural
	})
}

func (s *MuralService) modify(id string, apply func(*Mural)) (Mural, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	murals, err := s.readFromDisk()
	if err != nil {
		return Mural{}, err
	}

	idx := -1
	for i := range murals {
		if murals[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Mural{}, fmt.Errorf("%w: %q", ErrMuralNotFound, id)
	}

	apply(&murals[idx])
	if err := s.saveToDisk(murals); err != nil {
		return Mural{}, err
	}

	log.WithFields(log.Fields{
		"id":  id,
		"lat": murals[idx].Location.Coordinates.Lat,
		"lng": murals[idx].Location.Coordinates.Lng,
	}).Info("updated mural")
	s.publish("updated", id)
	return murals[idx], nil
}

// File returns the path to murals.json.
func (s *MuralService) File() string {
	return filepath.Join(s.dataDir, "murals.json")
}

func (s *MuralService) readFromDisk() ([]Mural, error) {
	data, err := os.ReadFile(s.File())
	if err != nil {
		return nil, fmt.Errorf("reading murals: %w", err)
	}

	var murals []Mural
	if err := json.Unmarshal(data, &murals); err != nil {
		return nil, fmt.Errorf("parsing murals: %w", err)
	}
	if murals == nil {
		murals = []Mural{}
	}
	return murals, nil
}

func (s *MuralService) saveToDisk(murals []Mural) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(murals, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.File(), data, 0644)
}

func (s *MuralService) publish(action, id string) {
	if s.bus != nil {
		s.bus.Publish(Event{Resource: "murals", Action: action, ID: id})
	}
}

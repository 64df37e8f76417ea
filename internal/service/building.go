package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// BuildingService manages buildings.json. Buildings are only ever appended
// by the capture workflow, which saves the whole collection each time.
type BuildingService struct {
	dataDir string
	bus     *EventBus
	mu      sync.RWMutex
}

// NewBuildingService creates a building service rooted at dataDir.
func NewBuildingService(dataDir string, bus *EventBus) *BuildingService {
	return &BuildingService{dataDir: dataDir, bus: bus}
}

// List returns all buildings. A missing or invalid file yields an empty list.
func (s *BuildingService) List() []Building {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.File())
	if err != nil {
		return []Building{}
	}

	var buildings []Building
	if err := json.Unmarshal(data, &buildings); err != nil {
		log.WithError(err).Warn("buildings file is invalid, starting empty")
		return []Building{}
	}
	if buildings == nil {
		buildings = []Building{}
	}
	return buildings
}

// ReplaceAll overwrites buildings.json and returns the count.
func (s *BuildingService) ReplaceAll(buildings []Building) (int, error) {
	for i, b := range buildings {
		if err := b.Validate(); err != nil {
			return 0, fmt.Errorf("building %d (%s): %w", i, b.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if buildings == nil {
		buildings = []Building{}
	}
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return 0, err
	}
	data, err := json.MarshalIndent(buildings, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(s.File(), data, 0644); err != nil {
		return 0, err
	}

	log.WithField("count", len(buildings)).Info("saved buildings")
	if s.bus != nil {
		s.bus.Publish(Event{Resource: "buildings", Action: "replaced"})
	}
	return len(buildings), nil
}

// File returns the path to buildings.json.
func (s *BuildingService) File() string {
	return filepath.Join(s.dataDir, "buildings.json")
}

// Package store holds the client-side mural list. Edits apply to local state
// first and are persisted in the background; a failed save leaves the local
// edit in place and is reported as a warning.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-murals/internal/service"
)

// Persister is the remote side of the store.
type Persister interface {
	ListMurals(ctx context.Context) ([]service.Mural, error)
	UpdateCoordinates(ctx context.Context, id string, lat, lng float64) (service.Mural, error)
	UpdateMural(ctx context.Context, m service.Mural) (service.Mural, error)
}

// State is an immutable snapshot of the mural list.
type State struct {
	Murals []service.Mural
}

// WithCoordinates returns a copy of s with the mural's coordinate replaced.
// An unknown id yields an equal state.
func (s State) WithCoordinates(id string, lat, lng float64) (State, bool) {
	return s.with(id, func(m *service.Mural) {
		m.Location.Coordinates.Lat = lat
		m.Location.Coordinates.Lng = lng
	})
}

// WithMural returns a copy of s with the record of the same id replaced.
func (s State) WithMural(updated service.Mural) (State, bool) {
	return s.with(updated.ID, func(m *service.Mural) {
		*m = updated.Clone()
	})
}

func (s State) with(id string, apply func(*service.Mural)) (State, bool) {
	idx := -1
	for i := range s.Murals {
		if s.Murals[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, false
	}
	next := make([]service.Mural, len(s.Murals))
	copy(next, s.Murals)
	m := next[idx].Clone()
	apply(&m)
	next[idx] = m
	return State{Murals: next}, true
}

// Find returns the mural with the given id.
func (s State) Find(id string) (service.Mural, bool) {
	for _, m := range s.Murals {
		if m.ID == id {
			return m, true
		}
	}
	return service.Mural{}, false
}

// Warning records a persistence failure that did not roll back local state.
type Warning struct {
	MuralID string
	Op      string
	Err     error
	At      time.Time
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %v", w.Op, w.MuralID, w.Err)
}

// Store owns the current state.
type Store struct {
	persister Persister

	mu       sync.RWMutex
	state    State
	warnings []Warning
	loadErr  error

	inflight sync.WaitGroup
}

// New creates an empty store.
func New(p Persister) *Store {
	return &Store{persister: p, state: State{Murals: []service.Mural{}}}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Load fetches the full list. On failure the state is an empty list and the
// error is logged and returned.
func (s *Store) Load(ctx context.Context) error {
	murals, err := s.persister.ListMurals(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.WithError(err).Error("loading murals")
		s.state = State{Murals: []service.Mural{}}
		s.loadErr = err
		return err
	}
	if murals == nil {
		murals = []service.Mural{}
	}
	s.state = State{Murals: murals}
	s.loadErr = nil
	return nil
}

// LoadErr reports the last load failure, if any.
func (s *Store) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// UpdateCoordinates moves a mural locally and saves it in the background.
// Unknown ids leave the state untouched and nothing is sent.
func (s *Store) UpdateCoordinates(ctx context.Context, id string, lat, lng float64) State {
	s.mu.Lock()
	next, ok := s.state.WithCoordinates(id, lat, lng)
	s.state = next
	s.mu.Unlock()
	if !ok {
		return next
	}

	s.persist(id, "update coordinates", func() error {
		_, err := s.persister.UpdateCoordinates(context.WithoutCancel(ctx), id, lat, lng)
		return err
	})
	return next
}

// UpdateMural replaces a mural locally and saves it in the background.
func (s *Store) UpdateMural(ctx context.Context, m service.Mural) State {
	s.mu.Lock()
	next, ok := s.state.WithMural(m)
	s.state = next
	s.mu.Unlock()
	if !ok {
		return next
	}

	saved := m.Clone()
	s.persist(m.ID, "update mural", func() error {
		_, err := s.persister.UpdateMural(context.WithoutCancel(ctx), saved)
		return err
	})
	return next
}

func (s *Store) persist(id, op string, save func() error) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := save(); err != nil {
			log.WithFields(log.Fields{"mural": id, "op": op}).WithError(err).Warn("persisting mural failed, keeping local edit")
			s.mu.Lock()
			s.warnings = append(s.warnings, Warning{MuralID: id, Op: op, Err: err, At: time.Now()})
			s.mu.Unlock()
		}
	}()
}

// Wait blocks until every background save has finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// Warnings returns the persistence failures recorded so far.
func (s *Store) Warnings() []Warning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Warning(nil), s.warnings...)
}

// Export writes the current list as indented JSON.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.State().Murals); err != nil {
		return fmt.Errorf("exporting murals: %w", err)
	}
	return nil
}

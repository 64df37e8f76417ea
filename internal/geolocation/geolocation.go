// Package geolocation tracks the viewer's position from a pluggable source.
package geolocation

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrorCode classifies a position failure.
type ErrorCode int

const (
	PermissionDenied    ErrorCode = 1
	PositionUnavailable ErrorCode = 2
	Timeout             ErrorCode = 3
)

// DefaultTimeout bounds the wait for a first position fix.
const DefaultTimeout = 10 * time.Second

// PositionError is a failure reported by a Source.
type PositionError struct {
	Code ErrorCode
}

func (e *PositionError) Error() string { return Message(e.Code) }

// Message returns the user-facing text for a failure code.
func Message(code ErrorCode) string {
	switch code {
	case PermissionDenied:
		return "Location permission denied. Please enable location access."
	case PositionUnavailable:
		return "Location information is unavailable."
	case Timeout:
		return "Location request timed out."
	default:
		return "Unable to retrieve your location"
	}
}

// NotSupported is reported when no source is available.
const NotSupported = "Geolocation is not supported by your browser"

// Sample is one position fix.
type Sample struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Update is what a source emits: either a sample or an error.
type Update struct {
	Sample *Sample
	Err    *PositionError
}

// Source streams position updates until ctx is done. Implementations close
// the returned channel when they stop.
type Source interface {
	Watch(ctx context.Context) (<-chan Update, error)
}

// State is the watcher's view of the position.
type State struct {
	Position  *Sample `json:"position,omitempty"`
	Error     string  `json:"error,omitempty"`
	Loading   bool    `json:"loading"`
	Supported bool    `json:"supported"`
}

// Watcher keeps the latest position from a Source.
type Watcher struct {
	source Source

	// Timeout bounds the wait for the first fix after Start. Zero waits
	// forever.
	Timeout time.Duration

	mu       sync.RWMutex
	state    State
	stopped  bool
	cancel   context.CancelFunc
	done     chan struct{}
	onChange func(State)
}

// NewWatcher creates a watcher. A nil source means geolocation is not
// supported.
func NewWatcher(source Source) *Watcher {
	w := &Watcher{source: source, Timeout: DefaultTimeout}
	if source == nil {
		w.state = State{Error: NotSupported}
	} else {
		w.state = State{Supported: true, Loading: true}
	}
	return w
}

// OnChange registers fn to receive every state change. fn runs on the
// watcher goroutine.
func (w *Watcher) OnChange(fn func(State)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Start subscribes to the source, replacing any running subscription. It
// returns once the subscription is in place; updates arrive in the
// background. A stopped watcher can be started again.
func (w *Watcher) Start(ctx context.Context) error {
	if w.source == nil {
		return nil
	}
	w.teardown()

	ctx, cancel := context.WithCancel(ctx)
	updates, err := w.source.Watch(ctx)
	if err != nil {
		cancel()
		w.mu.Lock()
		w.stopped = false
		w.state = State{Supported: true, Error: Message(0)}
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	w.stopped = false
	w.state = State{Supported: true, Loading: true}
	w.cancel = cancel
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	go w.run(ctx, updates, done)
	return nil
}

func (w *Watcher) run(ctx context.Context, updates <-chan Update, done chan struct{}) {
	defer close(done)

	var firstFix <-chan time.Time
	if w.Timeout > 0 {
		timer := time.NewTimer(w.Timeout)
		defer timer.Stop()
		firstFix = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-firstFix:
			firstFix = nil
			if w.State().Loading {
				w.apply(Update{Err: &PositionError{Code: Timeout}})
			}
		case u, ok := <-updates:
			if !ok {
				return
			}
			firstFix = nil
			w.apply(u)
		}
	}
}

func (w *Watcher) apply(u Update) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	switch {
	case u.Err != nil:
		w.state.Error = Message(u.Err.Code)
		w.state.Loading = false
		log.WithField("code", u.Err.Code).Debug("geolocation error")
	case u.Sample != nil:
		s := *u.Sample
		w.state.Position = &s
		w.state.Error = ""
		w.state.Loading = false
	}
	fn := w.onChange
	w.mu.Unlock()

	if fn != nil {
		fn(w.State())
	}
}

// Stop ends the subscription. It is safe to call more than once, and no
// state change happens after it returns.
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	w.teardown()
}

func (w *Watcher) teardown() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Wait blocks until the current subscription ends, either because the
// source closed or because of Stop.
func (w *Watcher) Wait() {
	w.mu.RLock()
	done := w.done
	w.mu.RUnlock()
	if done != nil {
		<-done
	}
}

// State returns a snapshot.
func (w *Watcher) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := w.state
	if s.Position != nil {
		p := *s.Position
		s.Position = &p
	}
	return s
}

package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-murals/internal/capture"
	"github.com/joeblew999/plat-murals/internal/humastar"
	"github.com/joeblew999/plat-murals/internal/service"
)

// CaptureHandler drives the building tracing tool. There is one capture
// session per server; tracing is an admin task.
type CaptureHandler struct {
	humastar.Handler
	buildings *service.BuildingService

	mu      sync.Mutex
	session capture.Session
	saver   *capture.Saver
}

func NewCaptureHandler(buildings *service.BuildingService) *CaptureHandler {
	return &CaptureHandler{buildings: buildings}
}

func (h *CaptureHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/editor/capture", h.State, huma.OperationTags("editor"))
	huma.Register(api, huma.Operation{
		OperationID: "capture-action",
		Method:      "POST",
		Path:        "/api/v1/editor/capture",
		Summary:     "Apply a capture action",
		Description: "The action signal is one of toggle, point, undo, cancel or commit. " +
			"point reads the lng and lat signals; commit reads height.",
		Tags: []string{"editor"},
	}, h.Apply)
}

type captureState struct {
	Active    bool         `json:"active"`
	Points    [][2]float64 `json:"points"`
	CanUndo   bool         `json:"canUndo"`
	CanCommit bool         `json:"canCommit"`
	Buildings int          `json:"buildings"`
}

// State reports the current session.
func (h *CaptureHandler) State(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	h.mu.Lock()
	signals := h.signals(h.session, 0)
	h.mu.Unlock()

	return h.Stream(func(sse humastar.SSE) {
		sse.Signals(signals)
	}), nil
}

type CaptureInput struct {
	RawBody []byte
}

// Apply runs one action against the session. Committing persists the
// building collection through capture.Saver.
func (h *CaptureHandler) Apply(ctx context.Context, input *CaptureInput) (*huma.StreamResponse, error) {
	signals, err := parseSignals(input.RawBody)
	if err != nil {
		return nil, err
	}
	height := signals.Float("height")

	h.mu.Lock()
	defer h.mu.Unlock()

	var success, failure string
	switch action := signals.String("action"); action {
	case "toggle":
		if h.session.Active {
			h.session = h.session.Toggle()
			break
		}
		loaded := capture.Loaded(h.buildings.List())
		h.saver = capture.NewSaver(capture.BuildingStore{Buildings: h.buildings})
		if _, err := h.saver.Observe(ctx, loaded); err != nil {
			return nil, huma.Error500InternalServerError("Failed to load buildings")
		}
		h.session = loaded.Toggle()
	case "point":
		if !signals.Has("lng") || !signals.Has("lat") {
			return nil, huma.Error400BadRequest("point needs lng and lat")
		}
		h.session = h.session.AddPoint(signals.Float("lng"), signals.Float("lat"))
	case "undo":
		h.session = h.session.Undo()
	case "cancel":
		h.session = h.session.Cancel()
	case "commit":
		next, b, err := h.session.Commit(height)
		if err != nil {
			failure = commitMessage(err)
			break
		}
		if _, err := h.saver.Observe(ctx, next); err != nil {
			failure = "Failed to save buildings"
			break
		}
		h.session = next
		success = fmt.Sprintf("Saved building %s", b.ID)
	default:
		return nil, huma.Error400BadRequest("Unknown capture action: " + action)
	}
	out := h.signals(h.session, height)

	return h.Stream(func(sse humastar.SSE) {
		sse.Signals(out)
		switch {
		case failure != "":
			sse.Error(failure)
		case success != "":
			sse.Success(success)
		}
	}), nil
}

func (h *CaptureHandler) signals(s capture.Session, height float64) map[string]any {
	points := make([][2]float64, len(s.Points))
	for i, p := range s.Points {
		points[i] = [2]float64{p.Lon(), p.Lat()}
	}

	preview := geojson.NewFeatureCollection()
	if g := s.Preview(); g != nil {
		preview.Append(geojson.NewFeature(g))
	}

	return map[string]any{
		"capture": captureState{
			Active:    s.Active,
			Points:    points,
			CanUndo:   s.CanUndo(),
			CanCommit: s.CanCommit(height),
			Buildings: len(s.Committed),
		},
		"capturePreview": preview,
	}
}

func commitMessage(err error) string {
	switch {
	case errors.Is(err, capture.ErrInactive):
		return "Capture is not active"
	case errors.Is(err, capture.ErrTooFewPoints):
		return "At least 3 points are needed"
	case errors.Is(err, capture.ErrInvalidHeight):
		return "Height must be greater than zero"
	default:
		return err.Error()
	}
}

package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-murals/internal/humastar"
	"github.com/joeblew999/plat-murals/internal/service"
)

// EventHandler streams data file changes to open pages.
type EventHandler struct {
	*MuralHandler
	bus *service.EventBus
}

func NewEventHandler(murals *MuralHandler, bus *service.EventBus) *EventHandler {
	return &EventHandler{MuralHandler: murals, bus: bus}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/editor/events", h.Events, huma.OperationTags("editor"))
}

// Events re-renders the legend on mural writes and dispatches a
// resource-changed event for every write, until the client disconnects.
func (h *EventHandler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		sub := h.bus.Subscribe()
		defer h.bus.Unsubscribe(sub)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if ev.Resource == "murals" {
					if murals, err := h.murals.List(); err == nil {
						sse.Patch(h.renderLegend(murals, ""), "#mural-legend")
					}
				}
				sse.DispatchCustomEvent("resource-changed", map[string]any{
					"resource": ev.Resource,
					"action":   ev.Action,
					"id":       ev.ID,
				})
			}
		}
	}), nil
}

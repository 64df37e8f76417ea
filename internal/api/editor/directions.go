package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	log "github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-murals/internal/directions"
	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/humastar"
)

// DirectionsSelector is the element the directions panel renders into.
const DirectionsSelector = "#directions-panel"

type DirectionsInput struct {
	ID  string  `path:"id" doc:"Mural ID"`
	Lat float64 `query:"lat" required:"true" minimum:"-90" maximum:"90" doc:"Viewer latitude"`
	Lng float64 `query:"lng" required:"true" minimum:"-180" maximum:"180" doc:"Viewer longitude"`
}

type directionsData struct {
	Name string
	directions.Summary
}

// Directions fetches a walking route from the viewer to the mural and
// renders the step list. The route line goes to the "route" signal so the
// map can draw it.
func (h *MuralHandler) Directions(ctx context.Context, input *DirectionsInput) (*huma.StreamResponse, error) {
	m, err := h.get(input.ID)
	if err != nil {
		return nil, err
	}
	from := geo.Coordinate{Lat: input.Lat, Lng: input.Lng}

	return h.Stream(func(sse humastar.SSE) {
		if h.router == nil {
			sse.Error("Directions are not configured")
			return
		}
		route, err := h.router.Walking(ctx, from, m.Coordinate())
		if err != nil {
			log.WithField("id", m.ID).WithError(err).Warn("fetching walking directions")
			sse.Error("Unable to get directions")
			return
		}
		html, err := h.Renderer.Render("directions-panel", directionsData{Name: m.Name, Summary: route.Summary()})
		if err != nil {
			log.WithError(err).Error("rendering directions panel")
			sse.Error("Unable to get directions")
			return
		}
		sse.Patch(html, DirectionsSelector)
		sse.Signals(map[string]any{"route": route.Coordinates(), "error": ""})
	}), nil
}

// Package editor contains the Datastar SSE handlers behind the mural detail
// and edit panels.
package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	log "github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-murals/internal/directions"
	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/humastar"
	"github.com/joeblew999/plat-murals/internal/panels"
	"github.com/joeblew999/plat-murals/internal/service"
	"github.com/joeblew999/plat-murals/internal/templates"
)

// PanelSelector is the element the detail and edit panels render into.
const PanelSelector = "#mural-panel"

// Router computes walking routes for the directions panel.
type Router interface {
	Walking(ctx context.Context, from, to geo.Coordinate) (directions.Route, error)
}

// MuralHandler serves the mural panels.
type MuralHandler struct {
	humastar.Handler
	murals *service.MuralService
	router Router
	now    func() time.Time
}

// NewMuralHandler creates the panel handler. A nil router disables the
// directions panel.
func NewMuralHandler(murals *service.MuralService, router Router, renderer *templates.Renderer) *MuralHandler {
	return &MuralHandler{
		Handler: humastar.Handler{Renderer: renderer},
		murals:  murals,
		router:  router,
		now:     time.Now,
	}
}

func (h *MuralHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/editor/murals", h.Legend, huma.OperationTags("editor"))
	huma.Get(api, "/api/v1/editor/murals/{id}", h.Panel, huma.OperationTags("editor"))
	huma.Register(api, huma.Operation{
		OperationID: "save-mural-panel",
		Method:      "POST",
		Path:        "/api/v1/editor/murals/{id}",
		Summary:     "Save the edit panel",
		Tags:        []string{"editor"},
	}, h.Save)
	huma.Register(api, huma.Operation{
		OperationID: "step-mural-carousel",
		Method:      "POST",
		Path:        "/api/v1/editor/murals/{id}/carousel",
		Summary:     "Move the detail panel gallery",
		Tags:        []string{"editor"},
	}, h.Carousel)
	huma.Register(api, huma.Operation{
		OperationID: "mural-directions",
		Method:      "POST",
		Path:        "/api/v1/editor/murals/{id}/directions",
		Summary:     "Open walking directions to a mural",
		Tags:        []string{"editor"},
	}, h.Directions)
}

type LegendInput struct {
	Selected string `query:"selected" doc:"Highlighted mural ID"`
}

type legendItem struct {
	ID, Name, BuildingCode, ArtistName, Thumbnail string
	Selected                                      bool
}

// Legend renders the mural list.
func (h *MuralHandler) Legend(ctx context.Context, input *LegendInput) (*huma.StreamResponse, error) {
	murals, err := h.murals.List()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to read murals data")
	}
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.renderLegend(murals, input.Selected), "#mural-legend")
	}), nil
}

func (h *MuralHandler) renderLegend(murals []service.Mural, selected string) string {
	var buf bytes.Buffer
	if len(murals) == 0 {
		h.Renderer.RenderToBuffer(&buf, "empty-state", map[string]string{
			"Title": "No murals yet", "Message": "Murals appear here once added",
		})
		return buf.String()
	}
	for _, m := range murals {
		h.Renderer.RenderToBuffer(&buf, "mural-legend-item", legendItem{
			ID:           m.ID,
			Name:         m.Name,
			BuildingCode: m.BuildingCode,
			ArtistName:   m.Artist.Name,
			Thumbnail:    m.Thumbnail(),
			Selected:     m.ID == selected,
		})
	}
	return buf.String()
}

type PanelInput struct {
	ID       string   `path:"id" doc:"Mural ID"`
	Admin    bool     `query:"admin" doc:"Open the edit panel"`
	Expanded bool     `query:"expanded" doc:"Show the full artist bio"`
	Lat      *float64 `query:"lat" doc:"Viewer latitude for the distance line"`
	Lng      *float64 `query:"lng" doc:"Viewer longitude for the distance line"`
}

// detailData feeds the mural-detail and carousel-image templates.
type detailData struct {
	ID, Name, Building, BuildingCode string
	ArtistName, SocialMedia          string
	Bio                              string
	BioToggle, Expanded              bool
	Image                            service.Image
	Index, Count                     int
	HasDistance                      bool
	DistanceMeters                   float64
	Lat, Lng                         float64
}

type editData struct {
	ID, Name, Bio string
	Images        []service.Image
	MaxImages     int
}

// Panel opens the detail panel, or the edit form in admin mode.
func (h *MuralHandler) Panel(ctx context.Context, input *PanelInput) (*huma.StreamResponse, error) {
	m, err := h.get(input.ID)
	if err != nil {
		return nil, err
	}

	var viewer *geo.Coordinate
	if input.Lat != nil && input.Lng != nil {
		viewer = &geo.Coordinate{Lat: *input.Lat, Lng: *input.Lng}
	}

	return h.Stream(func(sse humastar.SSE) {
		if input.Admin {
			sse.Patch(h.renderEdit(m), PanelSelector)
			return
		}
		carousel := panels.NewCarousel(m.Gallery(), h.now())
		sse.Patch(h.renderDetail(m, carousel, input.Expanded, viewer), PanelSelector)
	}), nil
}

type SaveInput struct {
	ID      string `path:"id" doc:"Mural ID"`
	RawBody []byte
}

type imageSignal struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	IsPrimary   bool   `json:"isPrimary"`
}

// Save applies the edit form through panels.Editor and stores the result.
func (h *MuralHandler) Save(ctx context.Context, input *SaveInput) (*huma.StreamResponse, error) {
	signals, err := parseSignals(input.RawBody)
	if err != nil {
		return nil, err
	}
	m, err := h.get(input.ID)
	if err != nil {
		return nil, err
	}

	var images []imageSignal
	if signals.Has("images") {
		if err := signals.Decode("images", &images); err != nil {
			return nil, huma.Error400BadRequest("Invalid images: " + err.Error())
		}
	}

	editor := panels.NewEditor(m)
	if signals.Has("bio") {
		editor.Bio = signals.String("bio")
	}
	if signals.Has("images") {
		editor.Images = nil
		for i, img := range images {
			if err := editor.AddImage(); err != nil {
				return nil, huma.Error400BadRequest("Maximum 5 images allowed")
			}
			_ = editor.SetImage(i, img.URL, img.Description)
			if img.IsPrimary {
				_ = editor.SetPrimary(i)
			}
		}
	}

	return h.Stream(func(sse humastar.SSE) {
		saved, err := h.murals.Update(editor.Save())
		if err != nil {
			log.WithField("id", input.ID).WithError(err).Error("saving mural panel")
			sse.Error("Failed to save mural")
			return
		}
		carousel := panels.NewCarousel(saved.Gallery(), h.now())
		sse.Patch(h.renderDetail(saved, carousel, false, nil), PanelSelector)
		sse.Success(fmt.Sprintf("Saved %s", saved.Name))
	}), nil
}

type CarouselInput struct {
	ID      string `path:"id" doc:"Mural ID"`
	RawBody []byte
}

// Carousel steps the gallery from the client's current index by key
// ("ArrowLeft", "ArrowRight", "Escape") or swipe distance.
func (h *MuralHandler) Carousel(ctx context.Context, input *CarouselInput) (*huma.StreamResponse, error) {
	signals, err := parseSignals(input.RawBody)
	if err != nil {
		return nil, err
	}
	m, err := h.get(input.ID)
	if err != nil {
		return nil, err
	}

	now := h.now()
	carousel := panels.NewCarousel(m.Gallery(), now)
	carousel.Seek(signals.Int("index"))

	return h.Stream(func(sse humastar.SSE) {
		if signals.Has("swipe") {
			carousel.Swipe(signals.Float("swipe"), now)
		} else if carousel.Key(signals.String("key"), now) == panels.KeyClose {
			sse.Patch("", PanelSelector)
			sse.Signals(map[string]any{"selectedMural": ""})
			return
		}
		d := h.detail(m, carousel, false, nil)
		html, err := h.Renderer.Render("carousel-image", d)
		if err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Patch(html, "#mural-carousel")
		sse.Signals(map[string]any{"imageIndex": carousel.Index()})
	}), nil
}

func parseSignals(body []byte) (humastar.Signals, error) {
	in := humastar.SignalsInput{RawBody: body}
	return in.MustParse()
}

func (h *MuralHandler) get(id string) (service.Mural, error) {
	m, err := h.murals.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrMuralNotFound) {
			return service.Mural{}, huma.Error404NotFound("Mural not found")
		}
		return service.Mural{}, huma.Error500InternalServerError("Failed to read murals data")
	}
	return m, nil
}

func (h *MuralHandler) detail(m service.Mural, c *panels.Carousel, expanded bool, viewer *geo.Coordinate) detailData {
	bio, toggle := panels.Bio(m.Artist.Bio, expanded)
	d := detailData{
		ID:           m.ID,
		Name:         m.Name,
		Building:     m.Location.Building,
		BuildingCode: m.BuildingCode,
		ArtistName:   m.Artist.Name,
		SocialMedia:  m.Artist.SocialMedia,
		Bio:          bio,
		BioToggle:    toggle,
		Expanded:     expanded,
		Image:        c.Current(),
		Index:        c.Index(),
		Count:        c.Len(),
	}
	if viewer != nil {
		d.HasDistance = true
		d.DistanceMeters = geo.Distance(*viewer, m.Coordinate())
		d.Lat, d.Lng = viewer.Lat, viewer.Lng
	}
	return d
}

func (h *MuralHandler) renderDetail(m service.Mural, c *panels.Carousel, expanded bool, viewer *geo.Coordinate) string {
	html, err := h.Renderer.Render("mural-detail", h.detail(m, c, expanded, viewer))
	if err != nil {
		log.WithError(err).Error("rendering mural detail")
	}
	return html
}

func (h *MuralHandler) renderEdit(m service.Mural) string {
	editor := panels.NewEditor(m)
	html, err := h.Renderer.Render("mural-edit", editData{
		ID:        m.ID,
		Name:      m.Name,
		Bio:       editor.Bio,
		Images:    editor.Images,
		MaxImages: service.MaxImages,
	})
	if err != nil {
		log.WithError(err).Error("rendering mural editor")
	}
	return html
}

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	log "github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-murals/internal/directions"
	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/mapview"
	"github.com/joeblew999/plat-murals/internal/service"
	"github.com/joeblew999/plat-murals/internal/tiler"
)

// RegisterDirections registers the walking directions proxy.
func (h *APIHandler) RegisterDirections(api huma.API) {
	huma.Get(api, "/api/directions", h.GetDirections, huma.OperationTags("directions"))
}

// RegisterMap registers the style document and vector tile routes.
func (h *APIHandler) RegisterMap(api huma.API) {
	huma.Get(api, "/api/map/style", h.GetStyle, huma.OperationTags("map"))
	huma.Get(api, "/api/map/pitch-presets", h.GetPitchPresets, huma.OperationTags("map"))
	huma.Get(api, "/api/tiles/{z}/{x}/{y}", h.GetTile, huma.OperationTags("map"))
}

type DirectionsInput struct {
	FromLat float64 `query:"fromLat" required:"true" minimum:"-90" maximum:"90" doc:"Origin latitude"`
	FromLng float64 `query:"fromLng" required:"true" minimum:"-180" maximum:"180" doc:"Origin longitude"`
	ToLat   float64 `query:"toLat" required:"true" minimum:"-90" maximum:"90" doc:"Destination latitude"`
	ToLng   float64 `query:"toLng" required:"true" minimum:"-180" maximum:"180" doc:"Destination longitude"`
}

type RouteBody struct {
	Distance    float64            `json:"distance" doc:"Total distance in meters"`
	Duration    float64            `json:"duration" doc:"Total duration in seconds"`
	Coordinates [][2]float64       `json:"coordinates" doc:"Route line as [lng, lat] pairs"`
	Steps       []directions.Step  `json:"steps" doc:"Turn-by-turn steps"`
	Summary     directions.Summary `json:"summary" doc:"Display-ready route"`
}

func (h *APIHandler) GetDirections(ctx context.Context, input *DirectionsInput) (*struct{ Body RouteBody }, error) {
	if h.svc.Directions == nil {
		return nil, huma.Error503ServiceUnavailable("Directions are not configured")
	}
	from := geo.Coordinate{Lat: input.FromLat, Lng: input.FromLng}
	to := geo.Coordinate{Lat: input.ToLat, Lng: input.ToLng}

	route, err := h.svc.Directions.Walking(ctx, from, to)
	if err != nil {
		if errors.Is(err, directions.ErrNoRoute) {
			return nil, huma.Error404NotFound("No route found")
		}
		log.WithError(err).Warn("directions request failed")
		return nil, huma.Error502BadGateway("Directions API error", err)
	}
	return &struct{ Body RouteBody }{Body: RouteBody{
		Distance:    route.Distance,
		Duration:    route.Duration,
		Coordinates: route.Coordinates(),
		Steps:       route.Steps,
		Summary:     route.Summary(),
	}}, nil
}

type StyleInput struct {
	Style  string `query:"style" enum:"satellite,dark" default:"dark" doc:"Base map style"`
	Spread bool   `query:"spread" doc:"Spread stacked markers onto a grid"`
	Admin  bool   `query:"admin" doc:"Compose the admin view"`
}

// GetStyle composes the full map for a browser client.
func (h *APIHandler) GetStyle(ctx context.Context, input *StyleInput) (*struct{ Body mapview.Style }, error) {
	murals, err := h.svc.Murals.List()
	if err != nil {
		log.WithError(err).Warn("style without murals")
		murals = []service.Mural{}
	}

	doc := mapview.NewStyleDocument()
	c := mapview.NewController(doc, h.svc.Map)
	c.SetAdmin(input.Admin)
	c.LoadBuildings(h.svc.Buildings.List())
	c.SetMurals(murals)
	c.SetSpread(input.Spread)
	c.SetStyle(mapview.ParseStyle(input.Style))

	return &struct{ Body mapview.Style }{Body: doc.Render()}, nil
}

func (h *APIHandler) GetPitchPresets(ctx context.Context, input *struct{}) (*struct{ Body []mapview.PitchPreset }, error) {
	return &struct{ Body []mapview.PitchPreset }{Body: mapview.PitchPresets}, nil
}

type TileInput struct {
	Z int `path:"z" doc:"Zoom"`
	X int `path:"x" doc:"Column"`
	Y int `path:"y" doc:"Row"`
}

type TileOutput struct {
	Status          int
	ContentType     string `header:"Content-Type"`
	ContentEncoding string `header:"Content-Encoding"`
	CacheControl    string `header:"Cache-Control"`
	Body            []byte
}

// GetTile renders a vector tile of murals and buildings. Empty tiles are 204.
func (h *APIHandler) GetTile(ctx context.Context, input *TileInput) (*TileOutput, error) {
	tile, err := tiler.Parse(input.Z, input.X, input.Y)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	murals, err := h.svc.Murals.List()
	if err != nil {
		murals = []service.Mural{}
	}
	data, err := tiler.Render(tile, tiler.Collections(murals, h.svc.Buildings.List()))
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to render tile", err)
	}
	if data == nil {
		return &TileOutput{Status: http.StatusNoContent}, nil
	}
	return &TileOutput{
		Status:          http.StatusOK,
		ContentType:     "application/vnd.mapbox-vector-tile",
		ContentEncoding: "gzip",
		CacheControl:    "no-cache",
		Body:            data,
	}, nil
}

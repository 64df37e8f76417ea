// Package api defines the Huma API routes and handlers.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-murals/internal/directions"
	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/mapview"
	"github.com/joeblew999/plat-murals/internal/service"
)

// Router plans walking routes.
type Router interface {
	Walking(ctx context.Context, from, to geo.Coordinate) (directions.Route, error)
}

// Services holds the service dependencies for API handlers.
type Services struct {
	Murals     *service.MuralService
	Buildings  *service.BuildingService
	Directions Router
	Map        mapview.Options
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// SuccessCount is returned by the bulk write endpoints.
type SuccessCount struct {
	Success bool `json:"success" doc:"Whether the write succeeded"`
	Count   int  `json:"count" doc:"Number of records written"`
}

// APIHandler holds the REST handlers.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterRoutes registers every REST route.
func RegisterRoutes(api huma.API, svc *Services) {
	h := NewAPIHandler(svc)
	h.RegisterHealth(api)
	h.RegisterMurals(api)
	h.RegisterBuildings(api)
	h.RegisterDirections(api)
	h.RegisterMap(api)
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: Version}}, nil
}

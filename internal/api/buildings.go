package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	log "github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-murals/internal/service"
)

// RegisterBuildings registers the custom building routes.
func (h *APIHandler) RegisterBuildings(api huma.API) {
	huma.Get(api, "/api/buildings", h.ListBuildings, huma.OperationTags("buildings"))
	huma.Get(api, "/api/buildings/summary", h.SummarizeBuildings, huma.OperationTags("buildings"))
	huma.Put(api, "/api/buildings", h.ReplaceBuildings, huma.OperationTags("buildings"))
	huma.Register(api, huma.Operation{
		OperationID:   "post-buildings",
		Method:        http.MethodPost,
		Path:          "/api/buildings",
		Summary:       "Replace all buildings",
		Tags:          []string{"buildings"},
		DefaultStatus: http.StatusOK,
	}, h.ReplaceBuildings)
}

func (h *APIHandler) ListBuildings(ctx context.Context, input *struct{}) (*struct{ Body []service.Building }, error) {
	return &struct{ Body []service.Building }{Body: h.svc.Buildings.List()}, nil
}

func (h *APIHandler) SummarizeBuildings(ctx context.Context, input *struct{}) (*struct{ Body []service.BuildingSummary }, error) {
	buildings := h.svc.Buildings.List()
	out := make([]service.BuildingSummary, len(buildings))
	for i, b := range buildings {
		out[i] = b.Summarize()
	}
	return &struct{ Body []service.BuildingSummary }{Body: out}, nil
}

func (h *APIHandler) ReplaceBuildings(ctx context.Context, input *struct{ Body []service.Building }) (*struct{ Body SuccessCount }, error) {
	n, err := h.svc.Buildings.ReplaceAll(input.Body)
	if err != nil {
		if errors.Is(err, service.ErrTooFewPoints) || errors.Is(err, service.ErrInvalidHeight) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		log.WithError(err).Error("saving buildings")
		return nil, huma.Error500InternalServerError("Failed to save buildings")
	}
	return &struct{ Body SuccessCount }{Body: SuccessCount{Success: true, Count: n}}, nil
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	log "github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/mapview"
	"github.com/joeblew999/plat-murals/internal/service"
)

// RegisterMurals registers the mural collection routes.
func (h *APIHandler) RegisterMurals(api huma.API) {
	huma.Get(api, "/api/murals", h.ListMurals, huma.OperationTags("murals"))
	huma.Put(api, "/api/murals", h.ReplaceMurals, huma.OperationTags("murals"))
	huma.Register(api, huma.Operation{
		OperationID:   "post-murals",
		Method:        http.MethodPost,
		Path:          "/api/murals",
		Summary:       "Replace all murals",
		Tags:          []string{"murals"},
		DefaultStatus: http.StatusOK,
	}, h.ReplaceMurals)
	huma.Patch(api, "/api/murals", h.PatchMural, huma.OperationTags("murals"))
	huma.Get(api, "/api/murals/nearest", h.NearestMural, huma.OperationTags("murals"))
}

type MuralsOutput struct {
	Body []service.Mural
}

func (h *APIHandler) ListMurals(ctx context.Context, input *struct{}) (*MuralsOutput, error) {
	murals, err := h.svc.Murals.List()
	if err != nil {
		log.WithError(err).Error("reading murals")
		return nil, huma.Error500InternalServerError("Failed to read murals data")
	}
	return &MuralsOutput{Body: murals}, nil
}

func (h *APIHandler) ReplaceMurals(ctx context.Context, input *struct{ Body []service.Mural }) (*struct{ Body SuccessCount }, error) {
	n, err := h.svc.Murals.ReplaceAll(input.Body)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateMuralID) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		log.WithError(err).Error("saving murals")
		return nil, huma.Error500InternalServerError("Failed to save murals data")
	}
	return &struct{ Body SuccessCount }{Body: SuccessCount{Success: true, Count: n}}, nil
}

// PatchInput accepts either {muralId, lat, lng} or a full mural keyed by id,
// so the body is decoded by hand.
type PatchInput struct {
	RawBody []byte
}

type PatchBody struct {
	Success bool          `json:"success" doc:"Whether the update succeeded"`
	Mural   service.Mural `json:"mural" doc:"Updated mural"`
}

type coordinatePatch struct {
	MuralID *string  `json:"muralId"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	ID      *string  `json:"id"`
}

func (h *APIHandler) PatchMural(ctx context.Context, input *PatchInput) (*struct{ Body PatchBody }, error) {
	var patch coordinatePatch
	if err := json.Unmarshal(input.RawBody, &patch); err != nil {
		return nil, huma.Error400BadRequest("Invalid request body")
	}

	var (
		updated service.Mural
		err     error
	)
	switch {
	case patch.MuralID != nil && patch.Lat != nil && patch.Lng != nil:
		updated, err = h.svc.Murals.UpdateCoordinates(*patch.MuralID, *patch.Lat, *patch.Lng)
	case patch.ID != nil && *patch.ID != "":
		var m service.Mural
		if err := json.Unmarshal(input.RawBody, &m); err != nil {
			return nil, huma.Error400BadRequest("Invalid request body")
		}
		if len(m.Images) > service.MaxImages {
			return nil, huma.Error400BadRequest("Maximum 5 images allowed")
		}
		updated, err = h.svc.Murals.Update(m)
	default:
		return nil, huma.Error400BadRequest("Invalid request body")
	}

	if err != nil {
		if errors.Is(err, service.ErrMuralNotFound) {
			return nil, huma.Error404NotFound("Mural not found")
		}
		log.WithError(err).Error("updating mural")
		return nil, huma.Error500InternalServerError("Failed to update mural")
	}
	return &struct{ Body PatchBody }{Body: PatchBody{Success: true, Mural: updated}}, nil
}

type NearestInput struct {
	Lat float64 `query:"lat" required:"true" minimum:"-90" maximum:"90" doc:"Viewer latitude"`
	Lng float64 `query:"lng" required:"true" minimum:"-180" maximum:"180" doc:"Viewer longitude"`
}

type NearestBody struct {
	Mural          service.Mural `json:"mural" doc:"Closest mural"`
	DistanceMeters float64       `json:"distanceMeters" doc:"Great-circle distance in meters"`
	Distance       string        `json:"distance" doc:"Formatted distance" example:"328 ft"`
}

func (h *APIHandler) NearestMural(ctx context.Context, input *NearestInput) (*struct{ Body NearestBody }, error) {
	murals, err := h.svc.Murals.List()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to read murals data")
	}
	m, meters, ok := mapview.NearestMural(geo.Coordinate{Lat: input.Lat, Lng: input.Lng}, murals)
	if !ok {
		return nil, huma.Error404NotFound("No murals")
	}
	return &struct{ Body NearestBody }{Body: NearestBody{
		Mural:          m,
		DistanceMeters: meters,
		Distance:       geo.FormatDistance(meters),
	}}, nil
}

package focus

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vinebar-venice/internal/api"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// FocusResponse reports whether params queued a request. View is set instead
// when the map was already showing and applied the request.
type FocusResponse struct {
	Queued  bool                `json:"queued"`
	Request *types.FocusRequest `json:"request,omitempty"`
	View    *View               `json:"view,omitempty"`
}

// SaveRegionResponse reports whether the region was persisted.
type SaveRegionResponse struct {
	Persisted bool            `json:"persisted"`
	Region    types.MapRegion `json:"region"`
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

func startSpan(r *http.Request, name, route string) (*http.Request, trace.Span) {
	ctx, span := otel.Tracer("FocusHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span
}

// Focus godoc
// @Summary      Queue a map focus request
// @Tags         Map
// @Accept       json
// @Produce      json
// @Param        body body types.MapParams true "Map navigation params"
// @Success      202 {object} FocusResponse "Queued until the map is up"
// @Success      200 {object} FocusResponse "Applied at once, or params name no venue"
// @Failure      400 {object} api.ErrorEnvelope
// @Router       /map/focus [post]
func (h *HandlerImpl) Focus(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "Focus", "/map/focus")
	defer span.End()

	var p types.MapParams
	if err := api.DecodeJSONBody(w, r, &p); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid map params", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, ok := h.service.Focus(r.Context(), p)
	if !ok {
		api.WriteJSONResponse(w, r, http.StatusOK, FocusResponse{Queued: false})
		return
	}
	if res.View != nil {
		api.WriteJSONResponse(w, r, http.StatusOK, FocusResponse{Request: &res.Request, View: res.View})
		return
	}
	api.WriteJSONResponse(w, r, http.StatusAccepted, FocusResponse{Queued: true, Request: &res.Request})
}

// MapReady godoc
// @Summary      Report the map as initialized
// @Tags         Map
// @Produce      json
// @Success      200 {object} View
// @Router       /map/ready [post]
func (h *HandlerImpl) MapReady(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "MapReady", "/map/ready")
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, h.service.MapReady(r.Context()))
}

// Enter godoc
// @Summary      Enter the map screen
// @Tags         Map
// @Produce      json
// @Success      200 {object} View
// @Router       /map/enter [post]
func (h *HandlerImpl) Enter(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "Enter", "/map/enter")
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Open(r.Context()))
}

// Leave godoc
// @Summary      Leave the map screen
// @Tags         Map
// @Success      204
// @Router       /map/leave [post]
func (h *HandlerImpl) Leave(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "Leave", "/map/leave")
	defer span.End()

	h.service.Leave(r.Context())
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// GetRegion godoc
// @Summary      Last map region
// @Tags         Map
// @Produce      json
// @Success      200 {object} types.MapRegion
// @Router       /map/region [get]
func (h *HandlerImpl) GetRegion(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "GetRegion", "/map/region")
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Region(r.Context()))
}

// SaveRegion godoc
// @Summary      Save the map region after a gesture settles
// @Tags         Map
// @Accept       json
// @Produce      json
// @Param        body body types.MapRegion true "Visible region"
// @Success      200 {object} SaveRegionResponse
// @Failure      400 {object} api.ErrorEnvelope
// @Router       /map/region [put]
func (h *HandlerImpl) SaveRegion(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "SaveRegion", "/map/region")
	defer span.End()

	var region types.MapRegion
	if err := api.DecodeJSONBody(w, r, &region); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !Usable(region) {
		api.ErrorResponse(w, r, http.StatusBadRequest, "region is out of range")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, SaveRegionResponse{
		Persisted: h.service.SaveRegion(r.Context(), region),
		Region:    region,
	})
}

// Select godoc
// @Summary      Highlight a venue pin
// @Tags         Map
// @Produce      json
// @Param        venueID path string true "Venue id"
// @Success      200 {object} types.VenueEntry
// @Failure      404 {object} api.ErrorEnvelope
// @Router       /map/select/{venueID} [post]
func (h *HandlerImpl) Select(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "Select", "/map/select/{venueID}")
	defer span.End()

	v, err := h.service.Select(r.Context(), chi.URLParam(r, "venueID"))
	if err != nil {
		h.notFoundOrFail(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, v)
}

// ClearSelection godoc
// @Summary      Clear the highlighted venue pin
// @Tags         Map
// @Success      204
// @Router       /map/select [delete]
func (h *HandlerImpl) ClearSelection(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "ClearSelection", "/map/select")
	defer span.End()

	h.service.ClearSelection(r.Context())
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// Route godoc
// @Summary      Map navigation params for a venue
// @Description  The "set route" action of a venue card.
// @Tags         Map
// @Produce      json
// @Param        venueID path string true "Venue id"
// @Success      200 {object} types.MapParams
// @Failure      404 {object} api.ErrorEnvelope
// @Router       /venues/{venueID}/route [get]
func (h *HandlerImpl) Route(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "Route", "/venues/{venueID}/route")
	defer span.End()

	p, err := h.service.Route(r.Context(), chi.URLParam(r, "venueID"))
	if err != nil {
		h.notFoundOrFail(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

func (h *HandlerImpl) notFoundOrFail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, types.ErrNotFound) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Venue not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "Map request failed", slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, "Map request failed")
}

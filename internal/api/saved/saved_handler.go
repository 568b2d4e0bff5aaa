package saved

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vinebar-venice/internal/api"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/catalog"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// Membership is the bookmark state of one venue.
type Membership struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
}

type HandlerImpl struct {
	service Service
	catalog catalog.Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, c catalog.Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, catalog: c, logger: logger}
}

// ListSaved godoc
// @Summary      List saved venues
// @Description  Snapshots in the order they were saved.
// @Tags         Saved
// @Produce      json
// @Success      200 {array} catalog.VenueCard
// @Router       /saved [get]
func (h *HandlerImpl) ListSaved(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedHandler").Start(r.Context(), "ListSaved", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved"),
	))
	defer span.End()

	list := h.service.List(ctx)
	cards := make([]catalog.VenueCard, 0, len(list))
	for _, v := range list {
		cards = append(cards, catalog.Card(h.catalog.Catalog(), v))
	}
	api.WriteJSONResponse(w, r, http.StatusOK, cards)
}

// GetSaved godoc
// @Summary      Bookmark state of a venue
// @Tags         Saved
// @Produce      json
// @Param        venueID path string true "Venue id"
// @Success      200 {object} Membership
// @Router       /saved/{venueID} [get]
func (h *HandlerImpl) GetSaved(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedHandler").Start(r.Context(), "GetSaved", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved/{venueID}"),
	))
	defer span.End()

	id := chi.URLParam(r, "venueID")
	api.WriteJSONResponse(w, r, http.StatusOK, Membership{
		ID:    id,
		Saved: h.service.Contains(ctx, types.VenueEntry{ID: id}),
	})
}

// AddSaved godoc
// @Summary      Save a venue
// @Description  Idempotent.
// @Tags         Saved
// @Produce      json
// @Param        venueID path string true "Venue id"
// @Success      200 {object} Membership
// @Failure      404 {object} api.ErrorEnvelope
// @Router       /saved/{venueID} [put]
func (h *HandlerImpl) AddSaved(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedHandler").Start(r.Context(), "AddSaved", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved/{venueID}"),
	))
	defer span.End()

	v, ok := h.venue(w, r, "AddSaved")
	if !ok {
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, Membership{ID: v.ID, Saved: h.service.Add(ctx, v)})
}

// RemoveSaved godoc
// @Summary      Remove a saved venue
// @Description  Idempotent. Works for snapshots no longer in the catalog.
// @Tags         Saved
// @Produce      json
// @Param        venueID path string true "Venue id"
// @Success      200 {object} Membership
// @Router       /saved/{venueID} [delete]
func (h *HandlerImpl) RemoveSaved(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedHandler").Start(r.Context(), "RemoveSaved", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved/{venueID}"),
	))
	defer span.End()

	id := chi.URLParam(r, "venueID")
	api.WriteJSONResponse(w, r, http.StatusOK, Membership{
		ID:    id,
		Saved: h.service.Remove(ctx, types.VenueEntry{ID: id}),
	})
}

// ToggleSaved godoc
// @Summary      Toggle the bookmark of a venue
// @Tags         Saved
// @Produce      json
// @Param        venueID path string true "Venue id"
// @Success      200 {object} Membership
// @Failure      404 {object} api.ErrorEnvelope
// @Router       /saved/{venueID}/toggle [post]
func (h *HandlerImpl) ToggleSaved(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedHandler").Start(r.Context(), "ToggleSaved", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved/{venueID}/toggle"),
	))
	defer span.End()

	v, ok := h.venue(w, r, "ToggleSaved")
	if !ok {
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, Membership{ID: v.ID, Saved: h.service.Toggle(ctx, v)})
}

func (h *HandlerImpl) venue(w http.ResponseWriter, r *http.Request, handler string) (types.VenueEntry, bool) {
	id := chi.URLParam(r, "venueID")
	v, err := h.catalog.VenueByID(r.Context(), id)
	if err != nil {
		l := h.logger.With(slog.String("handler", handler), slog.String("venue", id))
		if errors.Is(err, types.ErrNotFound) {
			l.InfoContext(r.Context(), "Venue not in catalog")
			api.ErrorResponse(w, r, http.StatusNotFound, "Venue not found")
			return types.VenueEntry{}, false
		}
		l.ErrorContext(r.Context(), "Venue lookup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Venue lookup failed")
		return types.VenueEntry{}, false
	}
	return v, true
}

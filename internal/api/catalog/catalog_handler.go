package catalog

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

// VenueCard is a venue as rendered by a card: the snapshot plus the resolved
// image path and parsed location.
type VenueCard struct {
	types.VenueEntry
	Category types.CategoryID `json:"category"`
	Image    string           `json:"image"`
	Location types.LatLng     `json:"location"`
}

// CategoryVenues is the response of the category listing.
type CategoryVenues struct {
	Category types.CategoryID `json:"category"`
	Venues   []VenueCard      `json:"venues"`
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// Card builds the card view of a venue.
func Card(c *Catalog, v types.VenueEntry) VenueCard {
	cat, _ := c.CategoryOf(v.ID)
	return VenueCard{
		VenueEntry: v,
		Category:   cat,
		Image:      c.ImagePath(v.ImageName),
		Location:   v.Location(),
	}
}

// ListCategories godoc
// @Summary      List categories
// @Description  Returns the curated categories in picker order.
// @Tags         Catalog
// @Produce      json
// @Success      200 {array} types.Category
// @Router       /categories [get]
func (h *HandlerImpl) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CatalogHandler").Start(r.Context(), "ListCategories", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/categories"),
	))
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Categories(ctx))
}

// ListVenues godoc
// @Summary      List venues of a category
// @Description  Unknown categories are served with the default category.
// @Tags         Catalog
// @Produce      json
// @Param        categoryID path string true "Category id, label or alias"
// @Success      200 {object} CategoryVenues
// @Router       /categories/{categoryID}/venues [get]
func (h *HandlerImpl) ListVenues(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CatalogHandler").Start(r.Context(), "ListVenues", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/categories/{categoryID}/venues"),
	))
	defer span.End()

	id, cards := h.service.Cards(ctx, chi.URLParam(r, "categoryID"))
	api.WriteJSONResponse(w, r, http.StatusOK, CategoryVenues{Category: id, Venues: cards})
}

// GetVenue godoc
// @Summary      Get a venue by id
// @Tags         Catalog
// @Produce      json
// @Param        venueID path string true "Venue id"
// @Success      200 {object} VenueCard
// @Failure      404 {object} map[string]interface{}
// @Router       /venues/{venueID} [get]
func (h *HandlerImpl) GetVenue(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CatalogHandler").Start(r.Context(), "GetVenue", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/venues/{venueID}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetVenue"))

	v, err := h.service.VenueByID(ctx, chi.URLParam(r, "venueID"))
	if err != nil {
		h.writeLookupError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, Card(h.service.Catalog(), v))
}

// FindVenue godoc
// @Summary      Find a venue by title
// @Description  Returns the first match in category order; titles are not unique.
// @Tags         Catalog
// @Produce      json
// @Param        title query string true "Venue title"
// @Success      200 {object} VenueCard
// @Failure      404 {object} map[string]interface{}
// @Router       /venues [get]
func (h *HandlerImpl) FindVenue(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CatalogHandler").Start(r.Context(), "FindVenue", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/venues"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "FindVenue"))

	title := r.URL.Query().Get("title")
	if title == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "title is required")
		return
	}
	v, err := h.service.VenueByTitle(ctx, title)
	if err != nil {
		h.writeLookupError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, Card(h.service.Catalog(), v))
}

func (h *HandlerImpl) writeLookupError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	if errors.Is(err, types.ErrNotFound) {
		l.InfoContext(r.Context(), "Venue not found", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusNotFound, "Venue not found")
		return
	}
	l.ErrorContext(r.Context(), "Venue lookup failed", slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, "Venue lookup failed")
}

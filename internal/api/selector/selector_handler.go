package selector

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vinebar-venice/internal/api"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/catalog"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// PickResponse is one random pick rendered as a card.
type PickResponse struct {
	Category types.CategoryID  `json:"category"`
	Venue    catalog.VenueCard `json:"venue"`
}

type HandlerImpl struct {
	selector *Selector
	logger   *slog.Logger
}

func NewHandlerImpl(s *Selector, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{selector: s, logger: logger}
}

// Pick godoc
// @Summary      Pick a random venue
// @Description  Draws a venue from the category. "exclude" is the title of the
// @Description  previous pick, skipped unless it is the only candidate.
// @Tags         Selector
// @Produce      json
// @Param        categoryID path string true "Category id, label or alias"
// @Param        exclude query string false "Title to skip"
// @Success      200 {object} PickResponse
// @Router       /categories/{categoryID}/pick [get]
func (h *HandlerImpl) Pick(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SelectorHandler").Start(r.Context(), "Pick", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/categories/{categoryID}/pick"),
	))
	defer span.End()

	raw := chi.URLParam(r, "categoryID")
	var excluded *types.VenueEntry
	if title := r.URL.Query().Get("exclude"); title != "" {
		excluded = &types.VenueEntry{Title: title}
	}

	v := h.selector.PickRandomExcluding(types.CategoryID(raw), excluded)
	card := catalog.Card(h.selector.catalog, v)
	span.SetAttributes(attribute.String("venue.id", v.ID))
	h.logger.DebugContext(ctx, "Venue picked",
		slog.String("category", raw),
		slog.String("venue", v.ID))

	api.WriteJSONResponse(w, r, http.StatusOK, PickResponse{Category: card.Category, Venue: card})
}

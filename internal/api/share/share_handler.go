package share

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

// Payload is the share message for the client share sheet.
type Payload struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type HandlerImpl struct {
	catalog catalog.Service
	logger  *slog.Logger
}

func NewHandlerImpl(c catalog.Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{catalog: c, logger: logger}
}

// GetPayload godoc
// @Summary      Share message of a venue
// @Tags         Share
// @Produce      json
// @Param        venueID path string true "Venue id"
// @Success      200 {object} Payload
// @Failure      404 {object} api.ErrorEnvelope
// @Router       /venues/{venueID}/share [get]
func (h *HandlerImpl) GetPayload(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShareHandler").Start(r.Context(), "GetPayload", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/venues/{venueID}/share"),
	))
	defer span.End()

	v, err := h.catalog.VenueByID(ctx, chi.URLParam(r, "venueID"))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Venue not found")
			return
		}
		h.logger.ErrorContext(ctx, "Venue lookup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Venue lookup failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, Payload{ID: v.ID, Message: Format(v)})
}

package quiz

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vinebar-venice/internal/api"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// ClassifyResponse is the body of POST /quiz/classify.
type ClassifyResponse struct {
	Category types.CategoryID `json:"category"`
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// GetQuiz godoc
// @Summary      Get the preference quiz
// @Tags         Quiz
// @Produce      json
// @Success      200 {object} Quiz
// @Router       /quiz [get]
func (h *HandlerImpl) GetQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("QuizHandler").Start(r.Context(), "GetQuiz", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/quiz"),
	))
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Questions(ctx))
}

// Classify godoc
// @Summary      Classify quiz answers
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body body types.ClassifyRequest true "Ordered answers"
// @Success      200 {object} ClassifyResponse
// @Failure      400 {object} api.ErrorEnvelope
// @Router       /quiz/classify [post]
func (h *HandlerImpl) Classify(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("QuizHandler").Start(r.Context(), "Classify", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/quiz/classify"),
	))
	defer span.End()

	req, ok := h.decode(w, r, "Classify")
	if !ok {
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, ClassifyResponse{Category: h.service.Classify(ctx, req.Answers)})
}

// Result godoc
// @Summary      Classify answers and pick a venue
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body body types.ClassifyRequest true "Ordered answers"
// @Success      200 {object} types.QuizResult
// @Failure      400 {object} api.ErrorEnvelope
// @Router       /quiz/result [post]
func (h *HandlerImpl) Result(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("QuizHandler").Start(r.Context(), "Result", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/quiz/result"),
	))
	defer span.End()

	req, ok := h.decode(w, r, "Result")
	if !ok {
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Result(ctx, req.Answers))
}

func (h *HandlerImpl) decode(w http.ResponseWriter, r *http.Request, handler string) (types.ClassifyRequest, bool) {
	var req types.ClassifyRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid quiz body",
			slog.String("handler", handler),
			slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

package quiz

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Picker draws a venue from a category.
type Picker interface {
	PickRandom(category types.CategoryID) types.VenueEntry
}

type Service interface {
	Questions(ctx context.Context) Quiz
	Classify(ctx context.Context, answers []types.QuizAnswer) types.CategoryID
	// Result classifies the answers and picks a venue from the category, as
	// shown on the final-result screen.
	Result(ctx context.Context, answers []types.QuizAnswer) types.QuizResult
}

type ServiceImpl struct {
	logger  *slog.Logger
	quiz    Quiz
	picker  Picker
	metrics *metrics.AppMetrics
}

func NewServiceImpl(q Quiz, picker Picker, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		quiz:    q,
		picker:  picker,
		metrics: m,
	}
}

func (s *ServiceImpl) Questions(ctx context.Context) Quiz {
	_, span := otel.Tracer("QuizService").Start(ctx, "Questions")
	defer span.End()
	return s.quiz
}

func (s *ServiceImpl) Classify(ctx context.Context, answers []types.QuizAnswer) types.CategoryID {
	ctx, span := otel.Tracer("QuizService").Start(ctx, "Classify", trace.WithAttributes(
		attribute.Int("quiz.answers", len(answers)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Classify"))

	if err := s.quiz.Validate(answers); err != nil {
		// free text is still classified
		l.DebugContext(ctx, "Answers outside the option set", slog.Any("reason", err))
	}

	category := Classify(answers)
	span.SetAttributes(attribute.String("quiz.category", string(category)))
	s.metrics.QuizClassificationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", string(category)),
	))
	l.InfoContext(ctx, "Quiz classified", slog.String("category", string(category)))
	return category
}

func (s *ServiceImpl) Result(ctx context.Context, answers []types.QuizAnswer) types.QuizResult {
	ctx, span := otel.Tracer("QuizService").Start(ctx, "Result")
	defer span.End()

	category := s.Classify(ctx, answers)
	venue := s.picker.PickRandom(category)
	span.SetAttributes(attribute.String("venue.id", venue.ID))
	return types.QuizResult{Category: category, Venue: venue}
}

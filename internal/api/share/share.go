// Package share builds the plain-text share message of a venue and hands it
// to whatever share sheet the client has.
package share

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// Format is the share message of v.
func Format(v types.VenueEntry) string {
	return fmt.Sprintf("%s\n%s\nCoordinates: %s\nAddress: %s", v.Title, v.Description, v.Coordinates, v.Address)
}

// Outcome is what the user did with the share sheet.
type Outcome string

const (
	OutcomeShared    Outcome = "shared"
	OutcomeDismissed Outcome = "dismissed"
	OutcomeFailed    Outcome = "failed"
)

// Sharer is the platform share sheet. It reports false when the user
// dismissed it.
type Sharer interface {
	Share(ctx context.Context, message string) (bool, error)
}

// WriterSharer "shares" by writing the message to w. Used by the CLI.
type WriterSharer struct {
	W io.Writer
}

func (s WriterSharer) Share(_ context.Context, message string) (bool, error) {
	if _, err := fmt.Fprintln(s.W, message); err != nil {
		return false, err
	}
	return true, nil
}

type Service struct {
	sharer Sharer
	logger *slog.Logger
}

func NewService(sharer Sharer, logger *slog.Logger) *Service {
	return &Service{sharer: sharer, logger: logger}
}

// Share formats v and passes it to the share sheet. Errors are logged and
// reported as OutcomeFailed, never returned.
func (s *Service) Share(ctx context.Context, v types.VenueEntry) Outcome {
	ctx, span := otel.Tracer("ShareService").Start(ctx, "Share", trace.WithAttributes(
		attribute.String("venue.id", v.ID),
	))
	defer span.End()

	shared, err := s.sharer.Share(ctx, Format(v))
	switch {
	case err != nil:
		s.logger.ErrorContext(ctx, "Share failed", slog.String("venue", v.Key()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "share failed")
		return OutcomeFailed
	case !shared:
		s.logger.DebugContext(ctx, "Share dismissed", slog.String("venue", v.Key()))
		return OutcomeDismissed
	}
	return OutcomeShared
}

// Package saved is the bookmarked-venue set. The key-value store is the only
// source of truth: nothing is cached, every call re-reads it.
package saved

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/kvstore"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes the saved set. Entries are unique by VenueEntry.Key.
// Storage failures never reach the caller: reads degrade to an empty set and
// failed writes leave the persisted state unchanged. A corrupt stored value is
// replaced by the next mutation.
type Service interface {
	List(ctx context.Context) []types.VenueEntry
	Contains(ctx context.Context, v types.VenueEntry) bool
	// Toggle adds v if absent, removes it if present, and returns whether v
	// is saved afterwards.
	Toggle(ctx context.Context, v types.VenueEntry) bool
	// Add and Remove are idempotent and return whether v is saved afterwards.
	Add(ctx context.Context, v types.VenueEntry) bool
	Remove(ctx context.Context, v types.VenueEntry) bool
}

type ServiceImpl struct {
	logger  *slog.Logger
	store   kvstore.Store
	queue   *semaphore.Weighted
	metrics *metrics.AppMetrics
}

func NewServiceImpl(store kvstore.Store, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		store:   store,
		queue:   semaphore.NewWeighted(1),
		metrics: m,
	}
}

func (s *ServiceImpl) List(ctx context.Context) []types.VenueEntry {
	ctx, span := otel.Tracer("SavedService").Start(ctx, "List")
	defer span.End()

	list, err := s.load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read saved places, showing none",
			slog.String("method", "List"),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return []types.VenueEntry{}
	}
	span.SetAttributes(attribute.Int("saved.count", len(list)))
	return list
}

func (s *ServiceImpl) Contains(ctx context.Context, v types.VenueEntry) bool {
	ctx, span := otel.Tracer("SavedService").Start(ctx, "Contains", trace.WithAttributes(
		attribute.String("venue.key", v.Key()),
	))
	defer span.End()

	return indexOf(s.List(ctx), v) >= 0
}

func (s *ServiceImpl) Toggle(ctx context.Context, v types.VenueEntry) bool {
	return s.mutate(ctx, "toggle", v, func(list []types.VenueEntry, idx int) ([]types.VenueEntry, bool) {
		if idx >= 0 {
			return slices.Delete(list, idx, idx+1), true
		}
		return append(list, v), true
	})
}

func (s *ServiceImpl) Add(ctx context.Context, v types.VenueEntry) bool {
	return s.mutate(ctx, "add", v, func(list []types.VenueEntry, idx int) ([]types.VenueEntry, bool) {
		if idx >= 0 {
			return list, false
		}
		return append(list, v), true
	})
}

func (s *ServiceImpl) Remove(ctx context.Context, v types.VenueEntry) bool {
	return s.mutate(ctx, "remove", v, func(list []types.VenueEntry, idx int) ([]types.VenueEntry, bool) {
		if idx < 0 {
			return list, false
		}
		return slices.Delete(list, idx, idx+1), true
	})
}

// mutate runs one read-modify-write cycle. Cycles are queued in call order so
// two rapid toggles never interleave. apply gets the current list and the
// index of v in it (-1 when absent) and reports whether it changed anything.
func (s *ServiceImpl) mutate(ctx context.Context, op string, v types.VenueEntry,
	apply func(list []types.VenueEntry, idx int) ([]types.VenueEntry, bool)) bool {
	ctx, span := otel.Tracer("SavedService").Start(ctx, "Mutate", trace.WithAttributes(
		attribute.String("saved.op", op),
		attribute.String("venue.key", v.Key()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", op), slog.String("venue", v.Key()))

	if err := s.queue.Acquire(ctx, 1); err != nil {
		l.WarnContext(ctx, "Saved-set update abandoned", slog.Any("error", err))
		span.SetStatus(codes.Error, "not queued")
		s.count(ctx, op, "abandoned")
		// report the persisted membership, read outside the queue
		list, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			return false
		}
		return indexOf(list, v) >= 0
	}
	defer s.queue.Release(1)

	list, err := s.load(ctx)
	switch {
	case errors.Is(err, types.ErrCorruptValue):
		// nothing recoverable is stored, the write replaces it
		l.WarnContext(ctx, "Saved places unreadable, starting over", slog.Any("error", err))
		span.RecordError(err)
		list = []types.VenueEntry{}
	case err != nil:
		// writing now could drop entries we failed to read
		l.ErrorContext(ctx, "Failed to read saved places, update skipped", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		s.count(ctx, op, "failed")
		return false
	}

	idx := indexOf(list, v)
	was := idx >= 0
	next, changed := apply(list, idx)
	if !changed {
		s.count(ctx, op, "noop")
		return was
	}

	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeySavedPlaces, next); err != nil {
		l.ErrorContext(ctx, "Failed to persist saved places", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		s.count(ctx, op, "failed")
		return was
	}

	now := indexOf(next, v) >= 0
	l.InfoContext(ctx, "Saved places updated", slog.Bool("saved", now), slog.Int("count", len(next)))
	span.SetStatus(codes.Ok, "updated")
	s.count(ctx, op, "ok")
	return now
}

// load reads the persisted list. A missing key is an empty list.
func (s *ServiceImpl) load(ctx context.Context) ([]types.VenueEntry, error) {
	var list []types.VenueEntry
	err := kvstore.GetJSON(ctx, s.store, kvstore.KeySavedPlaces, &list)
	if errors.Is(err, types.ErrNotFound) {
		return []types.VenueEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return dedupe(list), nil
}

func (s *ServiceImpl) count(ctx context.Context, op, result string) {
	s.metrics.SavedMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("result", result),
	))
}

func indexOf(list []types.VenueEntry, v types.VenueEntry) int {
	key := v.Key()
	return slices.IndexFunc(list, func(e types.VenueEntry) bool { return e.Key() == key })
}

// dedupe keeps the first snapshot per key. Older builds keyed by title and
// may have stored the same venue twice.
func dedupe(list []types.VenueEntry) []types.VenueEntry {
	out := make([]types.VenueEntry, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, v := range list {
		if _, dup := seen[v.Key()]; dup {
			continue
		}
		seen[v.Key()] = struct{}{}
		out = append(out, v)
	}
	return out
}

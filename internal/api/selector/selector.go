// Package selector picks a random venue from a category. It never fails: an
// empty or unknown category yields the default category's first entry.
package selector

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/catalog"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// Rand is the randomness source. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the goroutine-safe top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Selector draws venues uniformly by index.
type Selector struct {
	catalog *catalog.Catalog
	rng     Rand
	metrics *metrics.AppMetrics
	logger  *slog.Logger
}

// New returns a Selector. A nil rng uses the process-wide source.
func New(c *catalog.Catalog, rng Rand, m *metrics.AppMetrics, logger *slog.Logger) *Selector {
	if rng == nil {
		rng = globalRand{}
	}
	return &Selector{catalog: c, rng: rng, metrics: m, logger: logger}
}

// PickRandom returns a uniformly random entry of category.
func (s *Selector) PickRandom(category types.CategoryID) types.VenueEntry {
	return s.PickRandomExcluding(category, nil)
}

// PickRandomExcluding is PickRandom without the entry titled like excluded.
// If nothing is left after exclusion the whole category is used again.
func (s *Selector) PickRandomExcluding(category types.CategoryID, excluded *types.VenueEntry) types.VenueEntry {
	id, entries := s.entries(category)
	if len(entries) == 0 {
		return s.fallback(category)
	}

	candidates := entries
	if excluded != nil {
		filtered := make([]types.VenueEntry, 0, len(entries))
		for _, v := range entries {
			if v.Title != excluded.Title {
				filtered = append(filtered, v)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	pick := candidates[s.rng.IntN(len(candidates))]
	s.metrics.VenuePicksTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("category", string(id)),
	))
	return pick
}

func (s *Selector) entries(category types.CategoryID) (types.CategoryID, []types.VenueEntry) {
	id, ok := s.catalog.ResolveCategory(string(category))
	if !ok {
		return category, nil
	}
	entries, err := s.catalog.Lookup(id)
	if err != nil {
		return id, nil
	}
	return id, entries
}

func (s *Selector) fallback(category types.CategoryID) types.VenueEntry {
	s.logger.Warn("No entries for category, serving default",
		slog.String("category", string(category)),
		slog.String("default", string(types.DefaultCategory)))
	s.metrics.VenuePicksTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("category", string(types.DefaultCategory)),
		attribute.Bool("fallback", true),
	))
	return s.catalog.EntriesFor(types.DefaultCategory)[0]
}

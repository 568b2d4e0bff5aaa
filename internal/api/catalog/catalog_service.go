package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Categories(ctx context.Context) []types.Category
	// Venues resolves raw (id, label or alias) and returns its entries. The
	// returned category is the one actually served, which is the default
	// category when raw is unknown.
	Venues(ctx context.Context, raw string) (types.CategoryID, []types.VenueEntry)
	// Cards is Venues rendered as cards, memoized per served category.
	Cards(ctx context.Context, raw string) (types.CategoryID, []VenueCard)
	VenueByID(ctx context.Context, id string) (types.VenueEntry, error)
	VenueByTitle(ctx context.Context, title string) (types.VenueEntry, error)
	ImagePath(asset string) string
	Catalog() *Catalog
}

type ServiceImpl struct {
	logger  *slog.Logger
	catalog *Catalog
	cache   *cache.Cache
}

func NewServiceImpl(c *Catalog, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		catalog: c,
		cache:   cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (s *ServiceImpl) Catalog() *Catalog {
	return s.catalog
}

func (s *ServiceImpl) Categories(ctx context.Context) []types.Category {
	_, span := otel.Tracer("CatalogService").Start(ctx, "Categories")
	defer span.End()
	return s.catalog.Categories()
}

func (s *ServiceImpl) Venues(ctx context.Context, raw string) (types.CategoryID, []types.VenueEntry) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "Venues", trace.WithAttributes(
		attribute.String("category.raw", raw),
	))
	defer span.End()

	id := s.resolve(ctx, raw)
	span.SetAttributes(attribute.String("category.id", string(id)))
	return id, s.catalog.EntriesFor(id)
}

func (s *ServiceImpl) Cards(ctx context.Context, raw string) (types.CategoryID, []VenueCard) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "Cards", trace.WithAttributes(
		attribute.String("category.raw", raw),
	))
	defer span.End()

	id := s.resolve(ctx, raw)
	span.SetAttributes(attribute.String("category.id", string(id)))

	cacheKey := "cards:" + string(id)
	if cached, found := s.cache.Get(cacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return id, slices.Clone(cached.([]VenueCard))
	}

	entries := s.catalog.EntriesFor(id)
	cards := make([]VenueCard, 0, len(entries))
	for _, v := range entries {
		cards = append(cards, Card(s.catalog, v))
	}
	s.cache.Set(cacheKey, cards, cache.DefaultExpiration)
	return id, slices.Clone(cards)
}

// resolve maps raw to a category, serving the default for unknown input.
func (s *ServiceImpl) resolve(ctx context.Context, raw string) types.CategoryID {
	id, ok := s.catalog.ResolveCategory(raw)
	if !ok {
		s.logger.WarnContext(ctx, "Unknown category, serving default",
			slog.String("category", raw),
			slog.String("default", string(types.DefaultCategory)))
		return types.DefaultCategory
	}
	return id
}

func (s *ServiceImpl) VenueByID(ctx context.Context, id string) (types.VenueEntry, error) {
	return s.lookup(ctx, "id", id, s.catalog.FindByID)
}

func (s *ServiceImpl) VenueByTitle(ctx context.Context, title string) (types.VenueEntry, error) {
	return s.lookup(ctx, "title", title, s.catalog.FindByTitle)
}

func (s *ServiceImpl) ImagePath(asset string) string {
	return s.catalog.ImagePath(asset)
}

func (s *ServiceImpl) lookup(ctx context.Context, field, value string, find func(string) (types.VenueEntry, bool)) (types.VenueEntry, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "VenueBy_"+field, trace.WithAttributes(
		attribute.String("venue."+field, value),
	))
	defer span.End()

	v, ok := find(value)
	if !ok {
		s.logger.DebugContext(ctx, "Venue not found", slog.String(field, value))
		span.SetStatus(codes.Error, "Venue not found")
		return types.VenueEntry{}, fmt.Errorf("venue %s %q: %w", field, value, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "Venue found")
	return v, nil
}

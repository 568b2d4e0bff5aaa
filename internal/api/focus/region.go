package focus

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-vinebar-venice/internal/kvstore"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// RegionStore persists the last map region under kvstore.KeyLastMapRegion.
type RegionStore struct {
	store    kvstore.Store
	fallback types.MapRegion
	logger   *slog.Logger
}

// NewRegionStore returns a store that answers fallback when nothing usable
// is persisted.
func NewRegionStore(store kvstore.Store, fallback types.MapRegion, logger *slog.Logger) *RegionStore {
	return &RegionStore{store: store, fallback: fallback, logger: logger}
}

// Load returns the last saved region, or the fallback when none is stored,
// the store fails, or the stored value is unusable.
func (r *RegionStore) Load(ctx context.Context) types.MapRegion {
	ctx, span := otel.Tracer("RegionStore").Start(ctx, "Load")
	defer span.End()

	var region types.MapRegion
	err := kvstore.GetJSON(ctx, r.store, kvstore.KeyLastMapRegion, &region)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return r.fallback
	case err != nil:
		r.logger.ErrorContext(ctx, "Failed to load last region", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return r.fallback
	case !Usable(region):
		r.logger.WarnContext(ctx, "Ignoring stored region", slog.Any("region", region))
		return r.fallback
	}
	return region
}

// Save stores region. Failures are logged and reported as false.
func (r *RegionStore) Save(ctx context.Context, region types.MapRegion) bool {
	ctx, span := otel.Tracer("RegionStore").Start(ctx, "Save")
	defer span.End()

	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyLastMapRegion, region); err != nil {
		r.logger.ErrorContext(ctx, "Failed to save last region", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return false
	}
	return true
}

// Usable reports whether region can position a camera.
func Usable(region types.MapRegion) bool {
	return region.Latitude >= -90 && region.Latitude <= 90 &&
		region.Longitude >= -180 && region.Longitude <= 180 &&
		region.LatitudeDelta > 0 && region.LongitudeDelta > 0
}

package focus

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vinebar-venice/internal/api/catalog"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// View is what the map shows when it comes up.
type View struct {
	Camera   types.MapRegion   `json:"camera"`
	Focus    *Instruction      `json:"focus,omitempty"`
	Selected *types.VenueEntry `json:"selected,omitempty"`
	// Pending is the request still waiting for the map, if any.
	Pending *types.FocusRequest `json:"pending,omitempty"`
	State   State               `json:"state"`
}

// FocusResult is the outcome of Focus. View is set when the map was already
// up and consumed the request on arrival.
type FocusResult struct {
	Request types.FocusRequest
	View    *View
}

type Service interface {
	// Focus queues a request built from navigation params, or applies it at
	// once when the map is ready and visible.
	Focus(ctx context.Context, p types.MapParams) (FocusResult, bool)
	// Route returns the navigation params that open venueID on the map.
	Route(ctx context.Context, venueID string) (types.MapParams, error)
	MapReady(ctx context.Context) View
	// Open is entering the map screen. The camera is the focus camera if a
	// request was consumed, the last saved region otherwise.
	Open(ctx context.Context) View
	Leave(ctx context.Context)
	Select(ctx context.Context, venueID string) (types.VenueEntry, error)
	ClearSelection(ctx context.Context)
	Region(ctx context.Context) types.MapRegion
	// SaveRegion is called when a pan or zoom gesture settles.
	SaveRegion(ctx context.Context, region types.MapRegion) bool
}

type ServiceImpl struct {
	logger      *slog.Logger
	catalog     *catalog.Catalog
	coordinator *Coordinator
	regions     *RegionStore
}

func NewServiceImpl(c *catalog.Catalog, coordinator *Coordinator, regions *RegionStore, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		catalog:     c,
		coordinator: coordinator,
		regions:     regions,
	}
}

func (s *ServiceImpl) Focus(ctx context.Context, p types.MapParams) (FocusResult, bool) {
	ctx, span := otel.Tracer("FocusService").Start(ctx, "Focus", trace.WithAttributes(
		attribute.String("map.title", p.Title),
		attribute.String("map.selected_id", p.SelectedID),
	))
	defer span.End()

	req, ok := RequestFromParams(s.catalog, p)
	if !ok {
		s.logger.DebugContext(ctx, "Map params carry no venue")
		return FocusResult{}, false
	}
	span.SetAttributes(attribute.String("focus.request_id", req.ID.String()))
	if _, err := types.ParseCoordinates(req.Venue.Coordinates); err != nil && req.ShouldAutoCenter {
		s.logger.WarnContext(ctx, "Focus venue has unusable coordinates",
			slog.String("venue", req.Venue.Key()),
			slog.Any("error", err))
	}

	res := FocusResult{Request: req}
	if in, consumed := s.coordinator.Request(ctx, req); consumed {
		v := s.view(ctx, in, true)
		res.View = &v
		span.SetAttributes(attribute.Bool("focus.applied", true))
	}
	return res, true
}

func (s *ServiceImpl) Route(ctx context.Context, venueID string) (types.MapParams, error) {
	_, span := otel.Tracer("FocusService").Start(ctx, "Route", trace.WithAttributes(
		attribute.String("venue.id", venueID),
	))
	defer span.End()

	v, ok := s.catalog.FindByID(venueID)
	if !ok {
		return types.MapParams{}, fmt.Errorf("venue %q: %w", venueID, types.ErrNotFound)
	}
	return MapParamsFor(v, true), nil
}

func (s *ServiceImpl) MapReady(ctx context.Context) View {
	ctx, span := otel.Tracer("FocusService").Start(ctx, "MapReady")
	defer span.End()

	in, ok := s.coordinator.MapReady(ctx)
	return s.view(ctx, in, ok)
}

func (s *ServiceImpl) Open(ctx context.Context) View {
	ctx, span := otel.Tracer("FocusService").Start(ctx, "Open")
	defer span.End()

	in, ok := s.coordinator.Enter(ctx)
	return s.view(ctx, in, ok)
}

func (s *ServiceImpl) Leave(ctx context.Context) {
	ctx, span := otel.Tracer("FocusService").Start(ctx, "Leave")
	defer span.End()

	s.coordinator.Leave(ctx)
}

func (s *ServiceImpl) Select(ctx context.Context, venueID string) (types.VenueEntry, error) {
	_, span := otel.Tracer("FocusService").Start(ctx, "Select", trace.WithAttributes(
		attribute.String("venue.id", venueID),
	))
	defer span.End()

	v, ok := s.catalog.FindByID(venueID)
	if !ok {
		return types.VenueEntry{}, fmt.Errorf("venue %q: %w", venueID, types.ErrNotFound)
	}
	s.coordinator.Select(v)
	return v, nil
}

func (s *ServiceImpl) ClearSelection(ctx context.Context) {
	ctx, span := otel.Tracer("FocusService").Start(ctx, "ClearSelection")
	defer span.End()

	if sel, ok := s.coordinator.Selected(); ok {
		s.logger.DebugContext(ctx, "Map selection cleared", slog.String("venue", sel.Key()))
	}
	s.coordinator.ClearSelection()
}

func (s *ServiceImpl) Region(ctx context.Context) types.MapRegion {
	return s.regions.Load(ctx)
}

func (s *ServiceImpl) SaveRegion(ctx context.Context, region types.MapRegion) bool {
	return s.regions.Save(ctx, region)
}

func (s *ServiceImpl) view(ctx context.Context, in Instruction, consumed bool) View {
	v := View{State: s.coordinator.State()}
	if consumed {
		v.Focus = &in
	}
	if consumed && in.Camera != nil {
		v.Camera = *in.Camera
	} else {
		v.Camera = s.regions.Load(ctx)
	}
	if sel, ok := s.coordinator.Selected(); ok {
		v.Selected = &sel
	}
	if req, ok := s.coordinator.Pending(); ok {
		v.Pending = &req
	}
	return v
}

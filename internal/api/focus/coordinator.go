// Package focus decides which venue the map centers on and highlights, and
// remembers where the map was left.
package focus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// State is the coordinator state.
type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
)

// Instruction is a consumed FocusRequest as the map must apply it.
type Instruction struct {
	Request types.FocusRequest `json:"request"`
	// Camera is nil when the request does not ask for centering.
	Camera    *types.MapRegion `json:"camera,omitempty"`
	Highlight bool             `json:"highlight"`
}

// NewRequest builds a request for v.
func NewRequest(v types.VenueEntry, autoCenter, highlight bool) types.FocusRequest {
	return types.FocusRequest{
		ID:               uuid.New(),
		Venue:            v,
		ShouldAutoCenter: autoCenter,
		ShouldHighlight:  highlight,
	}
}

// Coordinator holds at most one pending FocusRequest and hands it out exactly
// once, when the map is both ready and on screen. Selection is a separate
// sub-state that is wiped whenever the map is left.
type Coordinator struct {
	mu       sync.Mutex
	pending  *types.FocusRequest
	ready    bool
	visible  bool
	selected *types.VenueEntry

	metrics *metrics.AppMetrics
	logger  *slog.Logger
}

func NewCoordinator(m *metrics.AppMetrics, logger *slog.Logger) *Coordinator {
	return &Coordinator{metrics: m, logger: logger}
}

// Request moves to Pending, replacing any unconsumed request. If the map is
// already up the request is consumed immediately.
func (c *Coordinator) Request(ctx context.Context, req types.FocusRequest) (Instruction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.logger.DebugContext(ctx, "Replacing unconsumed focus request",
			slog.String("previous", c.pending.ID.String()),
			slog.String("request", req.ID.String()))
	}
	c.pending = &req
	return c.consumeLocked(ctx)
}

// MapReady records that the map finished initializing.
func (c *Coordinator) MapReady(ctx context.Context) (Instruction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ready = true
	return c.consumeLocked(ctx)
}

// Enter records that the map screen gained focus.
func (c *Coordinator) Enter(ctx context.Context) (Instruction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.visible = true
	return c.consumeLocked(ctx)
}

// Leave records that the map screen lost focus and clears the selection.
// A pending request survives.
func (c *Coordinator) Leave(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.visible = false
	if c.selected != nil {
		c.logger.DebugContext(ctx, "Clearing map selection", slog.String("venue", c.selected.Key()))
	}
	c.selected = nil
}

// Select highlights v, as after a tap on its pin.
func (c *Coordinator) Select(v types.VenueEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &v
}

func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// Selected returns the highlighted venue, if any.
func (c *Coordinator) Selected() (types.VenueEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return types.VenueEntry{}, false
	}
	return *c.selected, true
}

// Pending returns the unconsumed request, if any.
func (c *Coordinator) Pending() (types.FocusRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return types.FocusRequest{}, false
	}
	return *c.pending, true
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		return StatePending
	}
	return StateIdle
}

func (c *Coordinator) consumeLocked(ctx context.Context) (Instruction, bool) {
	if c.pending == nil || !c.ready || !c.visible {
		return Instruction{}, false
	}
	req := *c.pending
	c.pending = nil

	in := Instruction{Request: req, Highlight: req.ShouldHighlight}
	if req.ShouldAutoCenter {
		camera := types.RegionAround(req.Venue.Location())
		in.Camera = &camera
	}
	if req.ShouldHighlight {
		v := req.Venue
		c.selected = &v
	}

	c.metrics.FocusConsumedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("auto_center", req.ShouldAutoCenter),
	))
	c.logger.InfoContext(ctx, "Focus request consumed",
		slog.String("request", req.ID.String()),
		slog.String("venue", req.Venue.Key()))
	return in, true
}

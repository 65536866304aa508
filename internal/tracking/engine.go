package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-demo/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/maps"
	"github.com/angelmondragon/storefront-demo/pkg/metrics"
)

const (
	// MapInitFailedMessage is shown when the map surface cannot be prepared.
	MapInitFailedMessage = "Failed to initialize map"

	PackageMarkerID = "package"
	FitPadding      = 50
)

// WaypointMarkerID names the marker placed for waypoint i.
func WaypointMarkerID(i int) string {
	return fmt.Sprintf("waypoint-%d", i)
}

// ReplayState is a snapshot of an Engine.
type ReplayState struct {
	OrderNumber      string             `json:"order_number"`
	Status           enums.ReplayStatus `json:"status"`
	IsPlaying        bool               `json:"is_playing"`
	CurrentIndex     int                `json:"current_index"`
	Fraction         float64            `json:"fraction"`
	Position         maps.LatLng        `json:"position"`
	TotalDurationMs  float64            `json:"total_duration_ms"`
	SelectedWaypoint *int               `json:"selected_waypoint,omitempty"`
	Error            string             `json:"error,omitempty"`
}

// EngineOption configures optional engine collaborators.
type EngineOption func(*Engine)

func WithMetrics(m *metrics.ReplayMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func WithLogger(l *logger.Logger) EngineOption {
	return func(e *Engine) { e.logg = l }
}

func WithOrderNumber(orderNumber string) EngineOption {
	return func(e *Engine) { e.orderNumber = orderNumber }
}

// Engine animates a package marker along a Route on a Viewport. At most one frame chain is
// pending at any time; a chain whose generation is stale never reschedules.
type Engine struct {
	mu       sync.Mutex
	route    *Route
	viewport maps.Viewport
	ticks    TickSource
	metrics  *metrics.ReplayMetrics
	logg     *logger.Logger

	orderNumber string
	attached    bool
	closed      bool
	status      enums.ReplayStatus
	index       int
	fraction    float64
	position    maps.LatLng
	selected    *int
	errMsg      string
	startTime   time.Time
	started     bool
	pending     FrameHandle
	gen         uint64
	settled     chan struct{}
}

func NewEngine(route *Route, viewport maps.Viewport, ticks TickSource, opts ...EngineOption) (*Engine, error) {
	if route == nil {
		return nil, fmt.Errorf("route required")
	}
	if viewport == nil {
		return nil, fmt.Errorf("viewport required")
	}
	if ticks == nil {
		return nil, fmt.Errorf("tick source required")
	}
	e := &Engine{
		route:    route,
		viewport: viewport,
		ticks:    ticks,
		status:   enums.ReplayStatusIdle,
		position: route.At(0).LatLng(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

func (e *Engine) Route() *Route { return e.route }

// Attach prepares the viewport: waypoint markers, the package marker, the route line and a
// camera fitted to the route. A failure leaves the engine permanently failed.
func (e *Engine) Attach(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == enums.ReplayStatusFailed {
		return e.failedErr()
	}
	if e.attached {
		return nil
	}
	if err := e.viewport.Init(ctx); err != nil {
		e.status = enums.ReplayStatusFailed
		e.errMsg = MapInitFailedMessage
		e.metrics.IncRun(metrics.ReplayOutcomeFailed)
		if e.logg != nil {
			e.logg.Error(e.logCtx(ctx), "map initialisation failed", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, MapInitFailedMessage)
	}

	for i, w := range e.route.waypoints {
		e.viewport.PlaceMarker(maps.Marker{
			ID:       WaypointMarkerID(i),
			Kind:     maps.MarkerKindWaypoint,
			Position: w.LatLng(),
			Title:    w.Label,
			Label:    fmt.Sprintf("%d", i+1),
		})
	}
	e.viewport.PlaceMarker(maps.Marker{
		ID:       PackageMarkerID,
		Kind:     maps.MarkerKindPackage,
		Position: e.position,
		Title:    "Package",
	})
	e.viewport.DrawPolyline(e.route.Path())
	e.viewport.FitBounds(e.route.Bounds(), FitPadding)
	e.route.TotalDuration()
	e.attached = true
	return nil
}

// Play restarts the replay from the first waypoint. Any running chain is cancelled first.
func (e *Engine) Play() (ReplayState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.playableLocked(); err != nil {
		return e.stateLocked(), err
	}

	e.cancelLocked()
	e.settleLocked()
	e.status = enums.ReplayStatusPlaying
	e.index = 0
	e.fraction = 0
	e.started = false
	e.settled = make(chan struct{})
	e.viewport.FitBounds(e.route.Bounds(), FitPadding)
	e.requestFrameLocked()
	e.metrics.IncRun(metrics.ReplayOutcomeStarted)
	if e.logg != nil {
		e.logg.Debug(e.logCtx(context.Background()), "replay started")
	}
	return e.stateLocked(), nil
}

// Stop halts playback and keeps the current position.
func (e *Engine) Stop() ReplayState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == enums.ReplayStatusPlaying {
		e.cancelLocked()
		e.status = enums.ReplayStatusIdle
		e.settleLocked()
		e.metrics.IncRun(metrics.ReplayOutcomeStopped)
	}
	return e.stateLocked()
}

// JumpTo frames waypoint i and the one after it and marks i selected. The package marker
// stays where it is.
func (e *Engine) JumpTo(i int) (ReplayState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= e.route.Len() {
		return e.stateLocked(), pkgerrors.Validation("waypoint index out of range", map[string]string{
			"index": fmt.Sprintf("must be between 0 and %d", e.route.Len()-1),
		})
	}
	if e.status == enums.ReplayStatusFailed {
		return e.stateLocked(), e.failedErr()
	}

	selected := i
	e.selected = &selected
	e.index = i
	points := []maps.LatLng{e.route.At(i).LatLng()}
	if i+1 < e.route.Len() {
		points = append(points, e.route.At(i+1).LatLng())
	}
	e.viewport.FitBounds(maps.BoundsOf(points...), FitPadding)
	return e.stateLocked(), nil
}

func (e *Engine) State() ReplayState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Wait blocks until the current run stops or finishes, or ctx ends.
func (e *Engine) Wait(ctx context.Context) (ReplayState, error) {
	e.mu.Lock()
	settled := e.settled
	playing := e.status == enums.ReplayStatusPlaying
	e.mu.Unlock()
	if !playing || settled == nil {
		return e.State(), nil
	}
	select {
	case <-settled:
		return e.State(), nil
	case <-ctx.Done():
		return e.State(), ctx.Err()
	}
}

// Close cancels pending frames. The engine cannot be played afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	if e.status == enums.ReplayStatusPlaying {
		e.status = enums.ReplayStatusIdle
	}
	e.settleLocked()
	e.closed = true
}

func (e *Engine) playableLocked() error {
	if e.status == enums.ReplayStatusFailed {
		return e.failedErr()
	}
	if e.closed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "replay closed")
	}
	if !e.attached {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "map not attached")
	}
	return nil
}

func (e *Engine) failedErr() error {
	return pkgerrors.New(pkgerrors.CodeDependency, MapInitFailedMessage)
}

func (e *Engine) cancelLocked() {
	if e.pending != nil {
		e.pending.Cancel()
		e.pending = nil
	}
	e.gen++
}

func (e *Engine) settleLocked() {
	if e.settled != nil {
		close(e.settled)
		e.settled = nil
	}
}

func (e *Engine) requestFrameLocked() {
	gen := e.gen
	e.pending = e.ticks.RequestFrame(func(now time.Time) {
		e.onFrame(gen, now)
	})
}

func (e *Engine) onFrame(gen uint64, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.status != enums.ReplayStatusPlaying {
		return
	}
	e.pending = nil
	e.metrics.IncFrame()

	if !e.started {
		e.startTime = now
		e.started = true
	}
	elapsed := float64(now.Sub(e.startTime)) / float64(time.Millisecond)
	frame := FrameAt(e.route, ProgressAt(e.route, elapsed))

	e.position = frame.Position
	e.viewport.MoveMarker(PackageMarkerID, frame.Position)
	if frame.Finished {
		e.index = e.route.Len() - 1
		e.fraction = 0
		e.status = enums.ReplayStatusFinished
		e.settleLocked()
		e.metrics.IncRun(metrics.ReplayOutcomeFinished)
		if e.logg != nil {
			e.logg.Debug(e.logCtx(context.Background()), "replay finished")
		}
		return
	}

	e.index = frame.Segment
	e.fraction = frame.Fraction
	e.viewport.PanToBounds(frame.Pan)
	e.requestFrameLocked()
}

func (e *Engine) stateLocked() ReplayState {
	state := ReplayState{
		OrderNumber:     e.orderNumber,
		Status:          e.status,
		IsPlaying:       e.status == enums.ReplayStatusPlaying,
		CurrentIndex:    e.index,
		Fraction:        e.fraction,
		Position:        e.position,
		TotalDurationMs: e.route.TotalDuration(),
		Error:           e.errMsg,
	}
	if e.selected != nil {
		selected := *e.selected
		state.SelectedWaypoint = &selected
	}
	return state
}

func (e *Engine) logCtx(ctx context.Context) context.Context {
	if e.orderNumber == "" {
		return ctx
	}
	return e.logg.WithOrderNumber(ctx, e.orderNumber)
}

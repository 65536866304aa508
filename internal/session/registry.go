package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-demo/internal/cart"
	"github.com/angelmondragon/storefront-demo/internal/checkout"
	"github.com/angelmondragon/storefront-demo/internal/tracking"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/maps"
	"github.com/angelmondragon/storefront-demo/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultIdleTTL = 2 * time.Hour
	// DefaultMaxReplays bounds the tracking replays one session keeps alive.
	DefaultMaxReplays = 8
)

var errSessionClosed = pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")

// Params wires the collaborators every new session shares.
type Params struct {
	TaxRate  decimal.Decimal
	Checkout checkout.Options
	IdleTTL  time.Duration
	// MaxReplays caps live replays per session; the least recently used one is closed first.
	MaxReplays int
	Orders     checkout.OrderRecorder
	Route      *tracking.Route
	// NewTicks returns the frame source for a new replay. Defaults to a FrameClock.
	NewTicks func() tracking.TickSource
	// NewSurface returns the map surface for a new replay. Defaults to maps.NewSurface.
	NewSurface func() *maps.Surface

	// Optional flow collaborators, mostly for tests.
	Numbers   checkout.OrderNumberGenerator
	Scheduler checkout.Scheduler
	Sleeper   checkout.Sleeper

	CheckoutMetrics *metrics.CheckoutMetrics
	ReplayMetrics   *metrics.ReplayMetrics
	Logger          *logger.Logger
	Clock           func() time.Time
}

// Registry holds live shopper sessions keyed by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	params   Params
}

func NewRegistry(params Params) (*Registry, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order recorder required")
	}
	if params.Route == nil {
		params.Route = tracking.DefaultRoute()
	}
	if params.NewTicks == nil {
		params.NewTicks = func() tracking.TickSource {
			return tracking.NewFrameClock(tracking.DefaultFrameInterval)
		}
	}
	if params.NewSurface == nil {
		params.NewSurface = func() *maps.Surface { return maps.NewSurface() }
	}
	if params.IdleTTL <= 0 {
		params.IdleTTL = DefaultIdleTTL
	}
	if params.MaxReplays <= 0 {
		params.MaxReplays = DefaultMaxReplays
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		params:   params,
	}, nil
}

// Create starts a session with a fresh id.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	return r.Ensure(ctx, uuid.New())
}

// Ensure returns the session for id, creating it when it is unknown. Tokens outlive evicted
// sessions, so a returning shopper gets an empty session under the same id.
func (r *Registry) Ensure(ctx context.Context, id uuid.UUID) (*Session, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	now := r.params.Clock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.touch(now)
		return s, nil
	}
	s, err := r.newSession(id, now)
	if err != nil {
		return nil, err
	}
	r.sessions[id] = s
	if r.params.Logger != nil {
		r.params.Logger.Info(r.params.Logger.WithSessionID(ctx, id.String()), "session created")
	}
	return s, nil
}

// Get returns a live session and marks it active.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		s.touch(r.params.Clock())
	}
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle longer than the TTL and returns how many it closed.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.params.Clock().Add(-r.params.IdleTTL)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.close()
		if r.params.Logger != nil {
			r.params.Logger.Debug(r.params.Logger.WithSessionID(ctx, s.ID.String()), "session evicted")
		}
	}
	return len(idle)
}

// Close tears down every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.close()
	}
}

func (r *Registry) newSession(id uuid.UUID, now time.Time) (*Session, error) {
	c := cart.New(r.params.TaxRate)
	purchased := cart.NewPurchasedSet()
	flow, err := checkout.NewFlow(r.params.Checkout, checkout.Dependencies{
		SessionID: id.String(),
		Cart:      c,
		Purchased: purchased,
		Orders:    r.params.Orders,
		Numbers:   r.params.Numbers,
		Scheduler: r.params.Scheduler,
		Sleeper:   r.params.Sleeper,
		Clock:     r.params.Clock,
		Metrics:   r.params.CheckoutMetrics,
		Logger:    r.params.Logger,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build checkout flow")
	}
	s := &Session{
		ID:         id,
		Cart:       c,
		Purchased:  purchased,
		Checkout:   flow,
		createdAt:  now,
		lastSeen:   now,
		settings:   DefaultSettings(),
		replays:    make(map[string]*Replay),
		maxReplays: r.params.MaxReplays,
	}
	s.newReplay = func(ctx context.Context, orderNumber string) (*Replay, error) {
		return r.newReplay(ctx, s, orderNumber)
	}
	return s, nil
}

func (r *Registry) newReplay(ctx context.Context, s *Session, orderNumber string) (*Replay, error) {
	surface := r.params.NewSurface()
	opts := []tracking.EngineOption{
		tracking.WithOrderNumber(orderNumber),
		tracking.WithMetrics(r.params.ReplayMetrics),
	}
	if r.params.Logger != nil {
		opts = append(opts, tracking.WithLogger(r.params.Logger))
	}
	engine, err := tracking.NewEngine(r.params.Route, surface, r.params.NewTicks(), opts...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build replay engine")
	}
	if err := engine.Attach(ctx); err != nil {
		if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
			return nil, err
		}
		if r.params.Logger != nil {
			ctx = r.params.Logger.WithSessionID(ctx, s.ID.String())
			r.params.Logger.Warn(r.params.Logger.WithOrderNumber(ctx, orderNumber), "replay map unavailable")
		}
	}
	return &Replay{Engine: engine, Surface: surface}, nil
}

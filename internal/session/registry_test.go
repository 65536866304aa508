package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-demo/internal/checkout"
	"github.com/angelmondragon/storefront-demo/internal/orders"
	"github.com/angelmondragon/storefront-demo/internal/tracking"
	"github.com/angelmondragon/storefront-demo/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/maps"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, orders.Order) error { return nil }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubTimer struct {
	mu      sync.Mutex
	stopped bool
}

func (t *stubTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (t *stubTimer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type stubScheduler struct {
	mu     sync.Mutex
	timers []*stubTimer
}

func (s *stubScheduler) AfterFunc(time.Duration, func()) checkout.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &stubTimer{}
	s.timers = append(s.timers, t)
	return t
}

type registryFixture struct {
	registry  *Registry
	clock     *testClock
	scheduler *stubScheduler
	frames    []*tracking.ManualFrames
}

func newRegistryFixture(t *testing.T, mutate func(*Params)) *registryFixture {
	t.Helper()
	fx := &registryFixture{
		clock:     &testClock{now: time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)},
		scheduler: &stubScheduler{},
	}
	params := Params{
		TaxRate:   decimal.RequireFromString("0.08"),
		Checkout:  checkout.Options{CloseGrace: 300 * time.Millisecond},
		IdleTTL:   time.Hour,
		Orders:    nopRecorder{},
		Scheduler: fx.scheduler,
		Clock:     fx.clock.Now,
		NewTicks: func() tracking.TickSource {
			frames := tracking.NewManualFrames(fx.clock.Now())
			fx.frames = append(fx.frames, frames)
			return frames
		},
	}
	if mutate != nil {
		mutate(&params)
	}
	registry, err := NewRegistry(params)
	require.NoError(t, err)
	fx.registry = registry
	return fx
}

func TestNewRegistryRequiresOrders(t *testing.T) {
	_, err := NewRegistry(Params{})
	require.Error(t, err)
}

func TestCreateAndGet(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	ctx := context.Background()

	s, err := fx.registry.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.True(t, s.Cart.IsEmpty())
	assert.Equal(t, enums.CheckoutStepCart, s.Checkout.Snapshot().Step)
	assert.Equal(t, DefaultSettings(), s.Settings())
	assert.False(t, s.Authenticated())

	got, ok := fx.registry.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = fx.registry.Get(uuid.New())
	assert.False(t, ok)
	assert.Equal(t, 1, fx.registry.Len())
}

func TestEnsureRestoresUnknownID(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	id := uuid.New()

	first, err := fx.registry.Ensure(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, first.ID)

	second, err := fx.registry.Ensure(context.Background(), id)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = fx.registry.Ensure(context.Background(), uuid.Nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSessionsAreIsolated(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	a, err := fx.registry.Create(context.Background())
	require.NoError(t, err)
	b, err := fx.registry.Create(context.Background())
	require.NoError(t, err)

	a.Purchased.Merge(1, 2)
	a.SignIn(User{Name: "John Doe"})
	a.UpdateSettings(Settings{PushNotifications: true})

	assert.False(t, b.Purchased.Contains(1))
	assert.False(t, b.Authenticated())
	assert.Equal(t, DefaultSettings(), b.Settings())
}

func TestSignInAndOut(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	s, err := fx.registry.Create(context.Background())
	require.NoError(t, err)

	s.SignIn(User{Name: "Jane Roe", Email: "jane@example.com"})
	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "Jane Roe", user.Name)

	s.SignOut()
	assert.False(t, s.Authenticated())
}

func TestReplayIsCreatedOncePerOrder(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	s, err := fx.registry.Create(context.Background())
	require.NoError(t, err)

	r1, err := s.Replay(context.Background(), "ORD123456")
	require.NoError(t, err)
	r2, err := s.Replay(context.Background(), "ORD123456")
	require.NoError(t, err)
	assert.Same(t, r1, r2)

	r3, err := s.Replay(context.Background(), "ABCD1234")
	require.NoError(t, err)
	assert.NotSame(t, r1, r3)
	assert.Equal(t, 2, s.ReplayCount())

	assert.True(t, r1.Surface.Ready())
	assert.Equal(t, "ORD123456", r1.Engine.State().OrderNumber)
	assert.Equal(t, enums.ReplayStatusIdle, r1.Engine.State().Status)
}

func TestReplayWithFailedMapIsReturned(t *testing.T) {
	fx := newRegistryFixture(t, func(p *Params) {
		p.NewSurface = func() *maps.Surface {
			return maps.NewSurface(maps.WithInitError(errors.New("no tiles")))
		}
	})
	s, err := fx.registry.Create(context.Background())
	require.NoError(t, err)

	r, err := s.Replay(context.Background(), "ORD123456")
	require.NoError(t, err)
	state := r.Engine.State()
	assert.Equal(t, enums.ReplayStatusFailed, state.Status)
	assert.Equal(t, tracking.MapInitFailedMessage, state.Error)
}

func TestReplayCapEvictsLeastRecentlyUsed(t *testing.T) {
	fx := newRegistryFixture(t, func(p *Params) { p.MaxReplays = 2 })
	ctx := context.Background()
	s, err := fx.registry.Create(ctx)
	require.NoError(t, err)

	first, err := s.Replay(ctx, "AAAA1111")
	require.NoError(t, err)
	second, err := s.Replay(ctx, "BBBB2222")
	require.NoError(t, err)
	again, err := s.Replay(ctx, "AAAA1111")
	require.NoError(t, err)
	require.Same(t, first, again)

	_, err = s.Replay(ctx, "CCCC3333")
	require.NoError(t, err)
	assert.Equal(t, 2, s.ReplayCount())

	_, err = second.Engine.Play()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	_, err = first.Engine.Play()
	require.NoError(t, err)

	reopened, err := s.Replay(ctx, "BBBB2222")
	require.NoError(t, err)
	assert.NotSame(t, second, reopened)
	assert.Equal(t, 2, s.ReplayCount())
}

func TestRegistryDefaultsReplayCap(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	assert.Equal(t, DefaultMaxReplays, fx.registry.params.MaxReplays)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	ctx := context.Background()

	idle, err := fx.registry.Create(ctx)
	require.NoError(t, err)
	replay, err := idle.Replay(ctx, "ORD123456")
	require.NoError(t, err)
	_, err = replay.Engine.Play()
	require.NoError(t, err)
	idle.Checkout.Open()
	idle.Checkout.Close()

	fx.clock.Advance(45 * time.Minute)
	active, err := fx.registry.Create(ctx)
	require.NoError(t, err)

	fx.clock.Advance(30 * time.Minute)
	_, ok := fx.registry.Get(active.ID)
	require.True(t, ok)

	assert.Equal(t, 1, fx.registry.Sweep(ctx))
	assert.Equal(t, 1, fx.registry.Len())

	_, ok = fx.registry.Get(idle.ID)
	assert.False(t, ok)

	require.Len(t, fx.frames, 1)
	assert.Zero(t, fx.frames[0].Pending(), "evicted session cancels its frame chain")
	require.Len(t, fx.scheduler.timers, 1)
	assert.True(t, fx.scheduler.timers[0].Stopped(), "evicted session cancels its reset timer")

	_, err = idle.Replay(ctx, "ORD123457")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	_, err = replay.Engine.Play()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestRegistryClose(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	_, err := fx.registry.Create(context.Background())
	require.NoError(t, err)
	fx.registry.Close()
	assert.Zero(t, fx.registry.Len())
}

func TestSweeperRunOnce(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	_, err := fx.registry.Create(context.Background())
	require.NoError(t, err)

	sweeper, err := NewSweeper(SweeperParams{
		Logger:   logger.New(logger.Options{ServiceName: "session-test"}),
		Registry: fx.registry,
	})
	require.NoError(t, err)

	assert.Zero(t, sweeper.RunOnce(context.Background()))
	fx.clock.Advance(2 * time.Hour)
	assert.Equal(t, 1, sweeper.RunOnce(context.Background()))
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	fx := newRegistryFixture(t, nil)
	sweeper, err := NewSweeper(SweeperParams{
		Logger:   logger.New(logger.Options{ServiceName: "session-test"}),
		Registry: fx.registry,
		Interval: time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestNewSweeperValidates(t *testing.T) {
	_, err := NewSweeper(SweeperParams{})
	require.Error(t, err)
}

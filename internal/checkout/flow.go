package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-demo/internal/cart"
	"github.com/angelmondragon/storefront-demo/internal/orders"
	pkgcheckout "github.com/angelmondragon/storefront-demo/pkg/checkout"
	"github.com/angelmondragon/storefront-demo/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/metrics"
)

const maxOrderNumberAttempts = 5

type cartStore interface {
	IsEmpty() bool
	Drain() ([]cart.Line, cart.Totals)
	Restore(lines []cart.Line)
}

type purchaseTracker interface {
	Merge(ids ...int)
}

// OrderRecorder stores placed orders.
type OrderRecorder interface {
	Record(ctx context.Context, order orders.Order) error
}

// Options carries the flow timings.
type Options struct {
	ProcessingDelay time.Duration
	CloseGrace      time.Duration
}

// Dependencies are the collaborators a Flow drives. Cart, Purchased and Orders are required.
type Dependencies struct {
	SessionID string
	Cart      cartStore
	Purchased purchaseTracker
	Orders    OrderRecorder
	Numbers   OrderNumberGenerator
	Scheduler Scheduler
	Sleeper   Sleeper
	Clock     func() time.Time
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
}

// AdvanceInput carries the form for the current step. Only the form matching the step is read.
type AdvanceInput struct {
	Shipping *ShippingDetails `json:"shipping,omitempty"`
	Payment  *PaymentDetails  `json:"payment,omitempty"`
}

// AdvanceResult is the flow state after Advance plus the order placed by the payment step.
type AdvanceResult struct {
	Snapshot Snapshot      `json:"checkout"`
	Order    *orders.Order `json:"order,omitempty"`
}

// Snapshot is a read-only copy of the flow state.
type Snapshot struct {
	Step        enums.CheckoutStep `json:"step"`
	StepName    string             `json:"step_name"`
	StepLabel   string             `json:"step_label"`
	Steps       []string           `json:"steps"`
	Open        bool               `json:"open"`
	Processing  bool               `json:"processing"`
	OrderNumber string             `json:"order_number,omitempty"`
	Shipping    *ShippingDetails   `json:"shipping,omitempty"`
	CardLast4   string             `json:"card_last4,omitempty"`
}

// Flow is the per-shopper checkout state holder. Safe for concurrent use.
type Flow struct {
	mu         sync.Mutex
	state      State
	processing bool
	resetTimer Timer
	resetGen   uint64
	opts       Options
	deps       Dependencies
}

func NewFlow(opts Options, deps Dependencies) (*Flow, error) {
	if deps.Cart == nil {
		return nil, fmt.Errorf("cart required")
	}
	if deps.Purchased == nil {
		return nil, fmt.Errorf("purchased item set required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("order recorder required")
	}
	if deps.Numbers == nil {
		deps.Numbers = RandomOrderNumbers{}
	}
	if deps.Scheduler == nil {
		deps.Scheduler = realScheduler{}
	}
	if deps.Sleeper == nil {
		deps.Sleeper = realSleeper{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Flow{
		state: State{Step: enums.CheckoutStepCart},
		opts:  opts,
		deps:  deps,
	}, nil
}

// Open shows the panel. A reset still pending from an earlier Close is applied first.
func (f *Flow) Open() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetTimer != nil {
		f.cancelResetLocked()
		f.applyLocked(Reset{})
	}
	f.applyLocked(Open{})
	return f.snapshotLocked()
}

// Advance moves one step forward using the form for the current step. The payment step blocks
// for the processing delay, records the order, and clears the cart.
func (f *Flow) Advance(ctx context.Context, in AdvanceInput) (AdvanceResult, error) {
	f.mu.Lock()
	if err := f.mutableLocked(); err != nil {
		f.mu.Unlock()
		return AdvanceResult{}, err
	}

	var err error
	switch f.state.Step {
	case enums.CheckoutStepCart:
		if f.deps.Cart.IsEmpty() {
			err = pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
			break
		}
		err = f.applyLocked(Proceed{})
	case enums.CheckoutStepShipping:
		if in.Shipping == nil {
			err = pkgerrors.Validation("shipping details are required", map[string]string{"shipping": "is required"})
			break
		}
		err = f.applyLocked(SubmitShipping{Details: *in.Shipping})
	case enums.CheckoutStepPayment:
		return f.placeOrderLocked(ctx, in.Payment)
	default:
		err = invalidTransition(f.state.Step, Proceed{})
	}

	snap := f.snapshotLocked()
	f.mu.Unlock()
	if err != nil {
		return AdvanceResult{}, err
	}
	return AdvanceResult{Snapshot: snap}, nil
}

// Retreat steps back from Shipping or Payment.
func (f *Flow) Retreat() (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutableLocked(); err != nil {
		return Snapshot{}, err
	}
	if err := f.applyLocked(Back{}); err != nil {
		return Snapshot{}, err
	}
	return f.snapshotLocked(), nil
}

// Close hides the panel and schedules the reset to Cart after the close grace delay.
func (f *Flow) Close() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyLocked(Close{})
	f.cancelResetLocked()
	gen := f.resetGen
	f.resetTimer = f.deps.Scheduler.AfterFunc(f.opts.CloseGrace, func() {
		f.onResetTimer(gen)
	})
	return f.snapshotLocked()
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Shutdown cancels the pending reset timer.
func (f *Flow) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelResetLocked()
}

func (f *Flow) onResetTimer(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.resetGen || f.resetTimer == nil {
		return
	}
	f.resetTimer = nil
	f.applyLocked(Reset{})
}

func (f *Flow) cancelResetLocked() {
	if f.resetTimer != nil {
		f.resetTimer.Stop()
		f.resetTimer = nil
	}
	f.resetGen++
}

func (f *Flow) mutableLocked() error {
	if !f.state.Open {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is closed")
	}
	if f.processing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is processing")
	}
	return nil
}

// placeOrderLocked is entered with f.mu held and returns with it released.
func (f *Flow) placeOrderLocked(ctx context.Context, payment *PaymentDetails) (AdvanceResult, error) {
	if payment == nil {
		f.mu.Unlock()
		return AdvanceResult{}, pkgerrors.Validation("payment details are required", map[string]string{"payment": "is required"})
	}
	details := payment.Normalize()
	if err := details.Validate(); err != nil {
		f.mu.Unlock()
		return AdvanceResult{}, err
	}
	// The purchase owns these lines from here on; later cart edits belong to the next order.
	lines, totals := f.deps.Cart.Drain()
	if len(lines) == 0 {
		f.mu.Unlock()
		return AdvanceResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	var shipping ShippingDetails
	if f.state.Shipping != nil {
		shipping = *f.state.Shipping
	}
	f.processing = true
	f.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	f.deps.Sleeper.Sleep(ctx, f.opts.ProcessingDelay)
	order, err := f.commit(ctx, lines, totals, shipping, details)
	if err != nil {
		f.deps.Cart.Restore(lines)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing = false
	if err != nil {
		return AdvanceResult{}, err
	}
	if f.state.Step == enums.CheckoutStepPayment {
		if err := f.applyLocked(SubmitPayment{Details: details, OrderNumber: order.OrderNumber}); err != nil {
			return AdvanceResult{}, err
		}
	}
	return AdvanceResult{Snapshot: f.snapshotLocked(), Order: &order}, nil
}

func (f *Flow) commit(ctx context.Context, lines []cart.Line, totals cart.Totals, shipping ShippingDetails, payment PaymentDetails) (orders.Order, error) {
	order := orders.Order{
		SessionID: f.deps.SessionID,
		Lines:     lines,
		Totals:    totals,
		Shipping:  shipping.ToAddress(),
		CardLast4: pkgcheckout.CardLast4(payment.CardNumber),
		PlacedAt:  f.deps.Clock().UTC(),
		Status:    enums.OrderStatusConfirmed,
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number, err := f.deps.Numbers.Next()
		if err != nil {
			return orders.Order{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint order number")
		}
		order.OrderNumber = number
		lastErr = f.deps.Orders.Record(ctx, order)
		if lastErr == nil {
			break
		}
		if !pkgerrors.IsCode(lastErr, pkgerrors.CodeConflict) {
			return orders.Order{}, lastErr
		}
		f.logWarn(ctx, fmt.Sprintf("order number %s already taken, minting another", number))
	}
	if lastErr != nil {
		return orders.Order{}, pkgerrors.Wrap(pkgerrors.CodeInternal, lastErr, "could not assign a unique order number")
	}

	ids := make([]int, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	f.deps.Purchased.Merge(ids...)
	f.deps.Metrics.IncOrdersPlaced()
	if f.deps.Logger != nil {
		f.deps.Logger.Info(f.deps.Logger.WithOrderNumber(ctx, order.OrderNumber), "order placed")
	}
	return order, nil
}

func (f *Flow) applyLocked(ev Event) error {
	next, err := Reduce(f.state, ev)
	if err != nil {
		return err
	}
	if next.Step != f.state.Step {
		f.deps.Metrics.IncTransition(f.state.Step.String(), next.Step.String())
	}
	f.state = next
	return nil
}

func (f *Flow) snapshotLocked() Snapshot {
	steps := enums.CheckoutSteps()
	labels := make([]string, len(steps))
	for i, step := range steps {
		labels[i] = step.Label()
	}
	snap := Snapshot{
		Step:        f.state.Step,
		StepName:    f.state.Step.String(),
		StepLabel:   f.state.Step.Label(),
		Steps:       labels,
		Open:        f.state.Open,
		Processing:  f.processing,
		OrderNumber: f.state.OrderNumber,
		CardLast4:   f.state.CardLast4,
	}
	if f.state.Shipping != nil {
		shipping := *f.state.Shipping
		snap.Shipping = &shipping
	}
	return snap
}

func (f *Flow) logWarn(ctx context.Context, msg string) {
	if f.deps.Logger == nil {
		return
	}
	f.deps.Logger.Warn(f.deps.Logger.WithField(ctx, "session_id", f.deps.SessionID), msg)
}

package checkout

import (
	"fmt"
	"strings"

	pkgcheckout "github.com/angelmondragon/storefront-demo/pkg/checkout"
	"github.com/angelmondragon/storefront-demo/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
)

// State is the checkout panel state owned by one shopper.
type State struct {
	Step        enums.CheckoutStep
	Open        bool
	OrderNumber string
	Shipping    *ShippingDetails
	CardLast4   string
}

// Event is an input to Reduce.
type Event interface {
	eventName() string
}

type (
	// Open shows the panel without changing the step.
	Open struct{}
	// Proceed moves Cart to Shipping.
	Proceed struct{}
	// SubmitShipping moves Shipping to Payment once the form validates.
	SubmitShipping struct{ Details ShippingDetails }
	// SubmitPayment moves Payment to Confirmation and assigns the order number.
	SubmitPayment struct {
		Details     PaymentDetails
		OrderNumber string
	}
	// Back steps one position towards Cart from Shipping or Payment.
	Back struct{}
	// Close hides the panel. The step is reset separately after the close grace delay.
	Close struct{}
	// Reset returns to Cart and forgets the order number.
	Reset struct{}
)

func (Open) eventName() string           { return "open" }
func (Proceed) eventName() string        { return "proceed" }
func (SubmitShipping) eventName() string { return "submit_shipping" }
func (SubmitPayment) eventName() string  { return "submit_payment" }
func (Back) eventName() string           { return "back" }
func (Close) eventName() string          { return "close" }
func (Reset) eventName() string          { return "reset" }

// Reduce applies ev to s. Invalid transitions return CodeStateConflict and form failures
// return CodeValidation; in both cases the returned state equals s.
func Reduce(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case Open:
		s.Open = true
		return s, nil
	case Close:
		s.Open = false
		return s, nil
	case Reset:
		s.Step = enums.CheckoutStepCart
		s.OrderNumber = ""
		s.Shipping = nil
		s.CardLast4 = ""
		return s, nil
	case Proceed:
		if s.Step != enums.CheckoutStepCart {
			return s, invalidTransition(s.Step, e)
		}
		s.Step = enums.CheckoutStepShipping
		return s, nil
	case SubmitShipping:
		if s.Step != enums.CheckoutStepShipping {
			return s, invalidTransition(s.Step, e)
		}
		details := e.Details.Normalize()
		if err := details.Validate(); err != nil {
			return s, err
		}
		s.Shipping = &details
		s.Step = enums.CheckoutStepPayment
		return s, nil
	case SubmitPayment:
		if s.Step != enums.CheckoutStepPayment {
			return s, invalidTransition(s.Step, e)
		}
		details := e.Details.Normalize()
		if err := details.Validate(); err != nil {
			return s, err
		}
		if strings.TrimSpace(e.OrderNumber) == "" {
			return s, pkgerrors.New(pkgerrors.CodeInternal, "order number missing")
		}
		s.OrderNumber = e.OrderNumber
		s.CardLast4 = pkgcheckout.CardLast4(details.CardNumber)
		s.Step = enums.CheckoutStepConfirmation
		return s, nil
	case Back:
		if s.Step != enums.CheckoutStepShipping && s.Step != enums.CheckoutStepPayment {
			return s, invalidTransition(s.Step, e)
		}
		s.Step--
		return s, nil
	case nil:
		return s, pkgerrors.New(pkgerrors.CodeValidation, "event is required")
	default:
		return s, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown checkout event %T", ev))
	}
}

func invalidTransition(step enums.CheckoutStep, ev Event) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot %s from %s step", strings.ReplaceAll(ev.eventName(), "_", " "), step)).
		WithDetails(map[string]any{
			"step":  step.String(),
			"event": ev.eventName(),
		})
}

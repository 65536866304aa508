package enums

import "fmt"

// CheckoutStep is the position of the checkout panel in the linear purchase flow.
type CheckoutStep int

const (
	CheckoutStepCart CheckoutStep = iota
	CheckoutStepShipping
	CheckoutStepPayment
	CheckoutStepConfirmation
)

var checkoutStepLabels = map[CheckoutStep]string{
	CheckoutStepCart:         "Cart",
	CheckoutStepShipping:     "Shipping",
	CheckoutStepPayment:      "Payment",
	CheckoutStepConfirmation: "Tracking",
}

var checkoutStepNames = map[CheckoutStep]string{
	CheckoutStepCart:         "cart",
	CheckoutStepShipping:     "shipping",
	CheckoutStepPayment:      "payment",
	CheckoutStepConfirmation: "confirmation",
}

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	if name, ok := checkoutStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("checkout_step(%d)", int(s))
}

// Label is the heading shown in the step indicator.
func (s CheckoutStep) Label() string {
	return checkoutStepLabels[s]
}

// IsValid reports whether the value is a known CheckoutStep.
func (s CheckoutStep) IsValid() bool {
	return s >= CheckoutStepCart && s <= CheckoutStepConfirmation
}

// CheckoutSteps lists every step in flow order.
func CheckoutSteps() []CheckoutStep {
	return []CheckoutStep{
		CheckoutStepCart,
		CheckoutStepShipping,
		CheckoutStepPayment,
		CheckoutStepConfirmation,
	}
}

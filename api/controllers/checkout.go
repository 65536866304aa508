package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-demo/api/responses"
	"github.com/angelmondragon/storefront-demo/api/validators"
	"github.com/angelmondragon/storefront-demo/internal/checkout"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
)

func CheckoutFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, sess.Checkout.Snapshot())
	}
}

// CheckoutOpen shows the checkout panel at the cart review step.
func CheckoutOpen(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, sess.Checkout.Open())
	}
}

// CheckoutAdvance submits the form for the current step. On the payment step the request
// blocks for the processing delay and returns the placed order.
func CheckoutAdvance(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		var payload checkout.AdvanceInput
		if err := validators.DecodeOptionalJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := sess.Checkout.Advance(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CheckoutBack(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		snapshot, err := sess.Checkout.Retreat()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CheckoutClose hides the panel; the flow resets to the cart step after the close grace delay.
func CheckoutClose(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, sess.Checkout.Close())
	}
}

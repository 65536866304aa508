package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-demo/api/responses"
	"github.com/angelmondragon/storefront-demo/api/validators"
	"github.com/angelmondragon/storefront-demo/internal/cart"
	"github.com/angelmondragon/storefront-demo/internal/catalog"
	"github.com/angelmondragon/storefront-demo/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
)

type cartResponse struct {
	Lines  []cart.Line `json:"lines"`
	Totals cart.Totals `json:"totals"`
}

func newCartResponse(c *cart.Cart) cartResponse {
	lines, totals := c.Snapshot()
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartResponse{Lines: lines, Totals: totals}
}

type addCartItemRequest struct {
	ItemID int `json:"item_id" validate:"required,gte=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// cartEditable rejects cart edits while a payment is being processed.
func cartEditable(w http.ResponseWriter, r *http.Request, sess *session.Session, logg *logger.Logger) bool {
	if sess.Checkout != nil && sess.Checkout.Snapshot().Processing {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeStateConflict, "cart is locked while payment is processing"))
		return false
	}
	return true
}

func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCartResponse(sess.Cart))
	}
}

// CartAddItem adds one unit of a catalog item, merging with an existing line.
func CartAddItem(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok || !cartEditable(w, r, sess, logg) {
			return
		}
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, found := cat.Item(payload.ItemID)
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "item not found"))
			return
		}
		sess.Cart.Add(item)
		responses.WriteSuccess(w, newCartResponse(sess.Cart))
	}
}

func CartUpdateItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok || !cartEditable(w, r, sess, logg) {
			return
		}
		itemID, err := validators.ParsePathInt(r, "itemId", 1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := sess.Cart.UpdateQuantity(itemID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sess.Cart))
	}
}

// CartRemoveItem drops a line. Removing an absent item is not an error.
func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok || !cartEditable(w, r, sess, logg) {
			return
		}
		itemID, err := validators.ParsePathInt(r, "itemId", 1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess.Cart.Remove(itemID)
		responses.WriteSuccess(w, newCartResponse(sess.Cart))
	}
}

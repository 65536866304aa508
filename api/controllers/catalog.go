package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-demo/api/middleware"
	"github.com/angelmondragon/storefront-demo/api/responses"
	"github.com/angelmondragon/storefront-demo/api/validators"
	"github.com/angelmondragon/storefront-demo/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
)

type catalogItemResponse struct {
	catalog.Item
	PreviouslyBought bool `json:"previously_bought"`
}

type categoryResponse struct {
	Key         string                `json:"key"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Items       []catalogItemResponse `json:"items"`
}

type purchasedLookup interface {
	Contains(id int) bool
}

func newCategoryResponse(category catalog.Category, purchased purchasedLookup) categoryResponse {
	out := categoryResponse{
		Key:         category.Key,
		Title:       category.Title,
		Description: category.Description,
		Items:       make([]catalogItemResponse, 0, len(category.Items)),
	}
	for _, item := range category.Items {
		out.Items = append(out.Items, catalogItemResponse{
			Item:             item,
			PreviouslyBought: purchased != nil && purchased.Contains(item.ID),
		})
	}
	return out
}

// CatalogList renders every category. Items the session bought before carry a badge.
func CatalogList(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchased := purchasedFor(r)
		categories := cat.Categories()
		out := make([]categoryResponse, 0, len(categories))
		for _, category := range categories {
			out = append(out, newCategoryResponse(category, purchased))
		}
		responses.WriteSuccess(w, out)
	}
}

func CatalogCategory(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := validators.PathString(r, "categoryKey", 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, ok := cat.Category(key)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "category not found"))
			return
		}
		responses.WriteSuccess(w, newCategoryResponse(category, purchasedFor(r)))
	}
}

func purchasedFor(r *http.Request) purchasedLookup {
	if sess := middleware.SessionFromContext(r.Context()); sess != nil {
		return sess.Purchased
	}
	return nil
}

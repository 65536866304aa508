package catalog

import (
	"github.com/angelmondragon/storefront-demo/pkg/types"
)

// Item is a product offered in the storefront.
type Item struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Price         types.Money `json:"price"`
	Quality       int         `json:"quality"`
	Image         string      `json:"image"`
	SellerComment string      `json:"seller_comment"`
}

// Category groups items under a themed heading.
type Category struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Items       []Item `json:"items"`
}

// Catalog is the read-only product listing. Category order is stable.
type Catalog struct {
	categories []Category
	byKey      map[string]int
	byID       map[int]Item
}

// New indexes the provided categories. Item ids must be unique across categories.
func New(categories []Category) *Catalog {
	c := &Catalog{
		categories: categories,
		byKey:      make(map[string]int, len(categories)),
		byID:       make(map[int]Item),
	}
	for idx, category := range categories {
		c.byKey[category.Key] = idx
		for _, item := range category.Items {
			c.byID[item.ID] = item
		}
	}
	return c
}

// Default returns the storefront's static catalog.
func Default() *Catalog {
	return New(defaultCategories())
}

// Categories returns a copy of every category in display order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, category := range c.categories {
		out[i] = copyCategory(category)
	}
	return out
}

func (c *Catalog) Category(key string) (Category, bool) {
	idx, ok := c.byKey[key]
	if !ok {
		return Category{}, false
	}
	return copyCategory(c.categories[idx]), true
}

func (c *Catalog) Item(id int) (Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

func copyCategory(category Category) Category {
	category.Items = append([]Item(nil), category.Items...)
	return category
}

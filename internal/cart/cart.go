package cart

import (
	"sync"

	"github.com/angelmondragon/storefront-demo/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/types"
	"github.com/shopspring/decimal"
)

// Line is one catalog item in the cart.
type Line struct {
	ItemID    int         `json:"item_id"`
	Name      string      `json:"name"`
	UnitPrice types.Money `json:"unit_price"`
	Quantity  int         `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (l Line) LineTotal() types.Money {
	return types.NewMoney(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Totals is the money summary shown with the cart.
type Totals struct {
	Subtotal  types.Money `json:"subtotal"`
	Tax       types.Money `json:"tax"`
	Total     types.Money `json:"total"`
	ItemCount int         `json:"item_count"`
}

// ComputeTotals derives subtotal, tax and total for lines. Tax is applied to the exact subtotal
// and each figure is rounded to currency precision independently.
func ComputeTotals(lines []Line, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		count += line.Quantity
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal:  types.NewMoney(subtotal),
		Tax:       types.NewMoney(tax),
		Total:     types.NewMoney(subtotal.Add(tax)),
		ItemCount: count,
	}
}

// Cart holds ordered lines, unique by item id. Safe for concurrent use.
type Cart struct {
	mu      sync.Mutex
	lines   []Line
	taxRate decimal.Decimal
}

func New(taxRate decimal.Decimal) *Cart {
	return &Cart{taxRate: taxRate}
}

// Add appends item with quantity 1, or increments the existing line for the same item.
func (c *Cart) Add(item catalog.Item) Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Quantity++
			return c.lines[i]
		}
	}
	line := Line{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
	}
	c.lines = append(c.lines, line)
	return line
}

// UpdateQuantity sets the quantity of an existing line. Quantities below 1 are rejected and
// leave the line untouched.
func (c *Cart) UpdateQuantity(itemID, quantity int) (Line, error) {
	if quantity < 1 {
		return Line{}, pkgerrors.Validation("quantity must be at least 1", map[string]string{
			"quantity": "must be at least 1",
		})
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity = quantity
			return c.lines[i], nil
		}
	}
	return Line{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
}

// Remove deletes the line for itemID and reports whether one existed.
func (c *Cart) Remove(itemID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputeTotals(c.lines, c.taxRate)
}

// Snapshot returns lines and totals computed under one lock.
func (c *Cart) Snapshot() ([]Line, Totals) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...), ComputeTotals(c.lines, c.taxRate)
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Drain snapshots and clears the cart atomically.
func (c *Cart) Drain() ([]Line, Totals) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := c.lines
	totals := ComputeTotals(lines, c.taxRate)
	c.lines = nil
	return lines, totals
}

// Restore puts drained lines back in front of the current ones. Lines for an item already in
// the cart merge their quantities.
func (c *Cart) Restore(lines []Line) {
	if len(lines) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	merged := append([]Line(nil), lines...)
	for _, current := range c.lines {
		found := false
		for i := range merged {
			if merged[i].ItemID == current.ItemID {
				merged[i].Quantity += current.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, current)
		}
	}
	c.lines = merged
}

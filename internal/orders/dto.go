package orders

import (
	"time"

	"github.com/angelmondragon/storefront-demo/internal/cart"
	"github.com/angelmondragon/storefront-demo/pkg/enums"
	"github.com/angelmondragon/storefront-demo/pkg/types"
)

// DateLayout renders order dates the way the order history shows them.
const DateLayout = "January 2, 2006"

// ShippingAddress is the destination captured at checkout.
type ShippingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// Order is an immutable record of a completed purchase.
type Order struct {
	OrderNumber string            `json:"order_number"`
	SessionID   string            `json:"-"`
	Lines       []cart.Line       `json:"lines"`
	Totals      cart.Totals       `json:"totals"`
	Shipping    ShippingAddress   `json:"shipping"`
	CardLast4   string            `json:"card_last4"`
	PlacedAt    time.Time         `json:"placed_at"`
	Status      enums.OrderStatus `json:"status"`
}

// ItemSummary is one row of an order card.
type ItemSummary struct {
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    types.Money `json:"price"`
}

// Summary is the order history card.
type Summary struct {
	OrderNumber string            `json:"order_number"`
	Date        string            `json:"date"`
	Status      enums.OrderStatus `json:"status"`
	Total       types.Money       `json:"total"`
	Items       []ItemSummary     `json:"items"`
	Placed      bool              `json:"placed"`
}

// Detail is a summary plus the full record when the order was placed in this process.
type Detail struct {
	Summary
	Order *Order `json:"order,omitempty"`
}

// Summarize renders a placed order as a history card.
func Summarize(order Order) Summary {
	items := make([]ItemSummary, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, ItemSummary{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}
	return Summary{
		OrderNumber: order.OrderNumber,
		Date:        order.PlacedAt.Format(DateLayout),
		Status:      order.Status,
		Total:       order.Totals.Total,
		Items:       items,
		Placed:      true,
	}
}

package orders

import (
	"github.com/angelmondragon/storefront-demo/internal/cart"
	"github.com/angelmondragon/storefront-demo/pkg/db/models"
	"github.com/angelmondragon/storefront-demo/pkg/types"
)

func toModel(order Order) *models.PlacedOrder {
	lines := make([]models.PlacedOrderLine, 0, len(order.Lines))
	for i, line := range order.Lines {
		lines = append(lines, models.PlacedOrderLine{
			OrderNumber:    order.OrderNumber,
			Position:       i,
			ItemID:         line.ItemID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPrice.Cents(),
			Qty:            line.Quantity,
		})
	}
	return &models.PlacedOrder{
		OrderNumber:   order.OrderNumber,
		SessionID:     order.SessionID,
		Status:        order.Status,
		SubtotalCents: order.Totals.Subtotal.Cents(),
		TaxCents:      order.Totals.Tax.Cents(),
		TotalCents:    order.Totals.Total.Cents(),
		ItemCount:     order.Totals.ItemCount,
		CardLast4:     order.CardLast4,
		ShipFirstName: order.Shipping.FirstName,
		ShipLastName:  order.Shipping.LastName,
		ShipAddress:   order.Shipping.Address,
		ShipCity:      order.Shipping.City,
		ShipState:     order.Shipping.State,
		ShipZipCode:   order.Shipping.ZipCode,
		ShipCountry:   order.Shipping.Country,
		PlacedAt:      order.PlacedAt.UTC(),
		Lines:         lines,
	}
}

func fromModel(m models.PlacedOrder) Order {
	lines := make([]cart.Line, 0, len(m.Lines))
	for _, line := range m.Lines {
		lines = append(lines, cart.Line{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: types.FromCents(line.UnitPriceCents),
			Quantity:  line.Qty,
		})
	}
	return Order{
		OrderNumber: m.OrderNumber,
		SessionID:   m.SessionID,
		Lines:       lines,
		Totals: cart.Totals{
			Subtotal:  types.FromCents(m.SubtotalCents),
			Tax:       types.FromCents(m.TaxCents),
			Total:     types.FromCents(m.TotalCents),
			ItemCount: m.ItemCount,
		},
		Shipping: ShippingAddress{
			FirstName: m.ShipFirstName,
			LastName:  m.ShipLastName,
			Address:   m.ShipAddress,
			City:      m.ShipCity,
			State:     m.ShipState,
			ZipCode:   m.ShipZipCode,
			Country:   m.ShipCountry,
		},
		CardLast4: m.CardLast4,
		PlacedAt:  m.PlacedAt,
		Status:    m.Status,
	}
}

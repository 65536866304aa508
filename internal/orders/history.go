package orders

import (
	"github.com/angelmondragon/storefront-demo/pkg/enums"
	"github.com/angelmondragon/storefront-demo/pkg/types"
)

// History returns the fixed order history shown on the orders page.
func History() []Summary {
	return []Summary{
		{
			OrderNumber: "ORD123456",
			Date:        "March 1, 2025",
			Status:      enums.OrderStatusDelivered,
			Total:       types.MustMoney("149.97"),
			Items: []ItemSummary{
				{Name: "Magic Rainbow Socks", Quantity: 2, Price: types.MustMoney("19.99")},
				{Name: "Anti-Gravity Coffee Mug", Quantity: 1, Price: types.MustMoney("24.99")},
			},
		},
		{
			OrderNumber: "ORD123457",
			Date:        "February 28, 2025",
			Status:      enums.OrderStatusInTransit,
			Total:       types.MustMoney("84.99"),
			Items: []ItemSummary{
				{Name: "Invisible Pen", Quantity: 1, Price: types.MustMoney("9.99")},
				{Name: "RGB Gaming Gloves", Quantity: 1, Price: types.MustMoney("39.99")},
			},
		},
	}
}

package models

import (
	"time"

	"github.com/angelmondragon/storefront-demo/pkg/enums"
)

// PlacedOrder is the persisted snapshot of a completed checkout.
type PlacedOrder struct {
	OrderNumber   string            `gorm:"column:order_number;size:8;primaryKey"`
	SessionID     string            `gorm:"column:session_id;size:36;index;not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null"`
	SubtotalCents int64             `gorm:"column:subtotal_cents;not null"`
	TaxCents      int64             `gorm:"column:tax_cents;not null"`
	TotalCents    int64             `gorm:"column:total_cents;not null"`
	ItemCount     int               `gorm:"column:item_count;not null"`
	CardLast4     string            `gorm:"column:card_last4;size:4"`
	ShipFirstName string            `gorm:"column:ship_first_name;not null"`
	ShipLastName  string            `gorm:"column:ship_last_name;not null"`
	ShipAddress   string            `gorm:"column:ship_address;not null"`
	ShipCity      string            `gorm:"column:ship_city;not null"`
	ShipState     string            `gorm:"column:ship_state;not null"`
	ShipZipCode   string            `gorm:"column:ship_zip_code;not null"`
	ShipCountry   string            `gorm:"column:ship_country;not null"`
	PlacedAt      time.Time         `gorm:"column:placed_at;not null"`
	Lines         []PlacedOrderLine `gorm:"foreignKey:OrderNumber;references:OrderNumber"`
}

func (PlacedOrder) TableName() string { return "placed_orders" }

// PlacedOrderLine captures one cart line at the moment of purchase.
type PlacedOrderLine struct {
	ID             uint   `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNumber    string `gorm:"column:order_number;size:8;index;not null"`
	Position       int    `gorm:"column:position;not null"`
	ItemID         int    `gorm:"column:item_id;not null"`
	Name           string `gorm:"column:name;not null"`
	UnitPriceCents int64  `gorm:"column:unit_price_cents;not null"`
	Qty            int    `gorm:"column:qty;not null"`
}

func (PlacedOrderLine) TableName() string { return "placed_order_lines" }

// All lists every model managed by AutoMigrate.
func All() []any {
	return []any{&PlacedOrder{}, &PlacedOrderLine{}}
}

package enums

import "fmt"

// OrderStatus is the display status of an order.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusInTransit OrderStatus = "In Transit"
	OrderStatusDelivered OrderStatus = "Delivered"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusConfirmed,
	OrderStatusInTransit,
	OrderStatusDelivered,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

package enums

import "fmt"

// OrderStatus tracks the lifecycle of a work order.
type OrderStatus string

const (
	OrderStatusOpen       OrderStatus = "open"
	OrderStatusQuote      OrderStatus = "quote"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusFinalized  OrderStatus = "finalized"
	OrderStatusDelivered  OrderStatus = "delivered"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusOpen,
	OrderStatusQuote,
	OrderStatusInProgress,
	OrderStatusFinalized,
	OrderStatusDelivered,
}

// orderStatusGraph lists the reachable targets for each status. Delivery is
// only reachable through finalized; the edges back out of the terminal pair
// are the explicit reopen path.
var orderStatusGraph = map[OrderStatus][]OrderStatus{
	OrderStatusOpen:       {OrderStatusQuote, OrderStatusInProgress},
	OrderStatusQuote:      {OrderStatusOpen, OrderStatusInProgress},
	OrderStatusInProgress: {OrderStatusQuote, OrderStatusFinalized},
	OrderStatusFinalized:  {OrderStatusDelivered, OrderStatusInProgress},
	OrderStatusDelivered:  {OrderStatusFinalized, OrderStatusInProgress},
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

// IsTerminal reports whether the status makes the order billable.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusFinalized || o == OrderStatusDelivered
}

// CanTransition reports whether `to` is directly reachable from `from`.
func CanTransition(from, to OrderStatus) bool {
	for _, candidate := range orderStatusGraph[from] {
		if candidate == to {
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

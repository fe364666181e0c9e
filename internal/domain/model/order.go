package model

import "time"

// PaymentType distinguishes the two checkout flows.
type PaymentType string

const (
	PaymentTypeCOD    PaymentType = "COD"
	PaymentTypeOnline PaymentType = "Online"
)

// OrderStatus describes the fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "Placed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// ParseOrderStatus validates a raw status value against the closed enumeration.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(raw), true
	}
	return "", false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CancelAllowed reports whether an order in the given status may be cancelled.
// Customers may cancel only before the order ships; sellers may cancel
// anything that has not reached a terminal state.
func CancelAllowed(status OrderStatus, bySeller bool) bool {
	if status.Terminal() {
		return false
	}
	if bySeller {
		return true
	}
	return status == OrderStatusPlaced || status == OrderStatusProcessing
}

// OrderItem is a single purchased position. Quantity is fixed at checkout.
type OrderItem struct {
	ProductID int64
	Quantity  int64
}

// Order is a priced, persisted purchase. Amount is computed once at creation
// from the server-side catalog and is never recomputed afterwards.
type Order struct {
	ID          int64
	UserID      int64
	AddressID   int64
	Items       []OrderItem
	Amount      float64
	PaymentType PaymentType
	IsPaid      bool
	PaymentID   string
	SessionID   string
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItemDetail is an order position populated with its catalog product.
type OrderItemDetail struct {
	Product  Product
	Quantity int64
}

// OrderDetail is an order populated with product and address information for
// listing endpoints.
type OrderDetail struct {
	Order
	ItemDetails []OrderItemDetail
	Address     Address
}

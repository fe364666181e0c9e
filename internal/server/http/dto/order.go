package dto

import "time"

// OrderItemRequest selects a product and quantity. Prices never cross this
// boundary; they are resolved server-side.
type OrderItemRequest struct {
	Product  int64 `json:"product"`
	Quantity int64 `json:"quantity"`
}

// PlaceOrderRequest is the body of both checkout endpoints.
type PlaceOrderRequest struct {
	Items   []OrderItemRequest `json:"items"`
	Address int64              `json:"address"`
}

// UpdateStatusRequest carries the target order status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ProductView is the catalog product as rendered in responses.
type ProductView struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Category   string   `json:"category,omitempty"`
	Price      float64  `json:"price"`
	OfferPrice *float64 `json:"offerPrice,omitempty"`
	ImageURL   string   `json:"imageUrl,omitempty"`
}

// OrderItemView is an order position populated with catalog detail.
type OrderItemView struct {
	Product  ProductView `json:"product"`
	Quantity int64       `json:"quantity"`
}

// OrderItemRefView is an order position carrying only the product id, used on
// responses that do not resolve the catalog.
type OrderItemRefView struct {
	Product  int64 `json:"product"`
	Quantity int64 `json:"quantity"`
}

// AddressView is a delivery address as rendered in responses.
type AddressView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zipCode,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// OrderSummary carries the order fields shared by every order view. The
// embedding views marshal it inline.
type OrderSummary struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Amount      float64   `json:"amount"`
	PaymentType string    `json:"paymentType"`
	IsPaid      bool      `json:"isPaid"`
	PaymentID   string    `json:"paymentId,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderView is an order as rendered after a mutation; items reference
// products by id only.
type OrderView struct {
	OrderSummary
	Items []OrderItemRefView `json:"items"`
}

// OrderDetailView is an order as rendered by the listing endpoints, with
// items resolved against the catalog and the delivery address attached.
type OrderDetailView struct {
	OrderSummary
	Items   []OrderItemView `json:"items"`
	Address *AddressView    `json:"address,omitempty"`
}

// OrderResponse is the single-order envelope.
type OrderResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Order   *OrderView `json:"order,omitempty"`
}

// OrdersResponse is the listing envelope.
type OrdersResponse struct {
	Success bool              `json:"success"`
	Orders  []OrderDetailView `json:"orders"`
}

// CheckoutResponse carries the gateway redirect URL for online payments.
type CheckoutResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// VerifySessionResponse is the post-redirect polling envelope.
type VerifySessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	OrderID int64  `json:"orderId,omitempty"`
}

// ErrorResponse is the generic failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

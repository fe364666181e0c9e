package dto

import "github.com/freshbasket/storefront/internal/cart"

// UpdateCartRequest replaces the server-side cart mirror with the client copy.
type UpdateCartRequest struct {
	CartItems cart.Cart `json:"cartItems"`
}

// CartResponse returns the stored mirror.
type CartResponse struct {
	Success   bool      `json:"success"`
	CartItems cart.Cart `json:"cartItems"`
}

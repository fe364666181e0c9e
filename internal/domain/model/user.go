package model

import (
	"time"

	"github.com/freshbasket/storefront/internal/cart"
)

// User roles. Sellers operate the admin endpoints.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
)

// User represents a registered shopper. CartItems is the server-side mirror of
// the client cart, synced best-effort after every mutation.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CartItems    cart.Cart
	CreatedAt    time.Time
}

// IsSeller reports whether the user may call seller-only endpoints.
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

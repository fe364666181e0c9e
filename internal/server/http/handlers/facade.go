package handlers

import (
	"context"

	"github.com/freshbasket/storefront/internal/cart"
	"github.com/freshbasket/storefront/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
	IsSeller(ctx context.Context, userID int64) (bool, error)
}

// OrderFacade encapsulates checkout and order lifecycle operations exposed
// via HTTP.
type OrderFacade interface {
	PlaceCODOrder(ctx context.Context, userID int64, items []model.OrderItem, addressID int64) (*model.Order, error)
	PlaceOnlineOrder(ctx context.Context, userID int64, items []model.OrderItem, addressID int64, origin string) (string, *model.Order, error)
	UserOrders(ctx context.Context, userID int64) ([]model.OrderDetail, error)
	AllOrders(ctx context.Context) ([]model.OrderDetail, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*model.Order, error)
	CancelOrderByUser(ctx context.Context, orderID, userID int64) (*model.Order, error)
	CancelOrderBySeller(ctx context.Context, orderID int64) (*model.Order, error)
}

// PaymentFacade provides payment confirmation operations.
type PaymentFacade interface {
	ConfirmPaymentEvent(ctx context.Context, payload []byte, signature string) error
	VerifyCheckoutSession(ctx context.Context, sessionID string) (int64, error)
}

// CartFacade mirrors the client cart on the server.
type CartFacade interface {
	UpdateCart(ctx context.Context, userID int64, items cart.Cart) error
	Cart(ctx context.Context, userID int64) (cart.Cart, error)
}

// AddressFacade manages the shopper address book.
type AddressFacade interface {
	AddAddress(ctx context.Context, address *model.Address) (*model.Address, error)
	Addresses(ctx context.Context, userID int64) ([]model.Address, error)
}

// CatalogFacade exposes the read-only product catalog.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	OrderFacade
	PaymentFacade
	CartFacade
	AddressFacade
	CatalogFacade
}

package app

import (
	"context"

	"github.com/freshbasket/storefront/internal/cart"
	"github.com/freshbasket/storefront/internal/domain/model"
	"github.com/freshbasket/storefront/internal/usecase"
)

// StorefrontFacade aggregates the storefront use cases behind a single
// surface consumed by HTTP handlers, middleware, and the payment worker.
type StorefrontFacade struct {
	auth      *usecase.AuthUseCase
	checkout  *usecase.CheckoutUseCase
	orders    *usecase.OrderUseCase
	payments  *usecase.PaymentUseCase
	carts     *usecase.CartUseCase
	addresses *usecase.AddressUseCase
	catalog   *usecase.CatalogUseCase
}

// NewStorefrontFacade constructs the facade from its use cases.
func NewStorefrontFacade(
	auth *usecase.AuthUseCase,
	checkout *usecase.CheckoutUseCase,
	orders *usecase.OrderUseCase,
	payments *usecase.PaymentUseCase,
	carts *usecase.CartUseCase,
	addresses *usecase.AddressUseCase,
	catalog *usecase.CatalogUseCase,
) *StorefrontFacade {
	return &StorefrontFacade{
		auth:      auth,
		checkout:  checkout,
		orders:    orders,
		payments:  payments,
		carts:     carts,
		addresses: addresses,
		catalog:   catalog,
	}
}

func (f *StorefrontFacade) Register(ctx context.Context, name, email, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, name, email, password)
	return token, err
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *StorefrontFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) IsSeller(ctx context.Context, userID int64) (bool, error) {
	user, err := f.auth.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsSeller(), nil
}

func (f *StorefrontFacade) PlaceCODOrder(ctx context.Context, userID int64, items []model.OrderItem, addressID int64) (*model.Order, error) {
	return f.checkout.PlaceCODOrder(ctx, userID, items, addressID)
}

func (f *StorefrontFacade) PlaceOnlineOrder(ctx context.Context, userID int64, items []model.OrderItem, addressID int64, origin string) (string, *model.Order, error) {
	return f.checkout.PlaceOnlineOrder(ctx, userID, items, addressID, origin)
}

func (f *StorefrontFacade) UserOrders(ctx context.Context, userID int64) ([]model.OrderDetail, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *StorefrontFacade) AllOrders(ctx context.Context) ([]model.OrderDetail, error) {
	return f.orders.ListAll(ctx)
}

func (f *StorefrontFacade) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, orderID, status)
}

func (f *StorefrontFacade) CancelOrderByUser(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	return f.orders.CancelByUser(ctx, orderID, userID)
}

func (f *StorefrontFacade) CancelOrderBySeller(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.CancelBySeller(ctx, orderID)
}

func (f *StorefrontFacade) ConfirmPaymentEvent(ctx context.Context, payload []byte, signature string) error {
	return f.payments.ConfirmEvent(ctx, payload, signature)
}

func (f *StorefrontFacade) VerifyCheckoutSession(ctx context.Context, sessionID string) (int64, error) {
	return f.payments.VerifySession(ctx, sessionID)
}

func (f *StorefrontFacade) PendingOnlineOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.payments.PendingOnlineOrders(ctx, limit)
}

func (f *StorefrontFacade) CheckPendingOrder(ctx context.Context, order model.Order) error {
	return f.payments.CheckPendingOrder(ctx, order)
}

func (f *StorefrontFacade) UpdateCart(ctx context.Context, userID int64, items cart.Cart) error {
	return f.carts.Update(ctx, userID, items)
}

func (f *StorefrontFacade) Cart(ctx context.Context, userID int64) (cart.Cart, error) {
	return f.carts.Get(ctx, userID)
}

func (f *StorefrontFacade) AddAddress(ctx context.Context, address *model.Address) (*model.Address, error) {
	return f.addresses.Add(ctx, address)
}

func (f *StorefrontFacade) Addresses(ctx context.Context, userID int64) ([]model.Address, error) {
	return f.addresses.ListByUser(ctx, userID)
}

func (f *StorefrontFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.List(ctx)
}

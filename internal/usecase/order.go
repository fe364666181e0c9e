package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
	"github.com/freshbasket/storefront/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle operations after placement.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// ListByUser returns the user's orders with product and address detail,
// newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.OrderDetail, error) {
	return u.orders.ListByUser(ctx, userID)
}

// ListAll returns every order similarly populated, for the seller dashboard.
func (u *OrderUseCase) ListAll(ctx context.Context) ([]model.OrderDetail, error) {
	return u.orders.ListAll(ctx)
}

// UpdateStatus moves an order to the given status. The raw value is checked
// against the closed enumeration before any persistence write.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID int64, rawStatus string) (*model.Order, error) {
	status, ok := model.ParseOrderStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("status %q: %w", rawStatus, domainErrors.ErrInvalidInput)
	}
	return u.orders.SetStatus(ctx, orderID, status)
}

// CancelByUser cancels the shopper's own order while it is still Placed or
// Processing.
func (u *OrderUseCase) CancelByUser(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	return u.orders.Cancel(ctx, orderID, userID, false)
}

// CancelBySeller cancels any order that has not reached a terminal state.
func (u *OrderUseCase) CancelBySeller(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.orders.Cancel(ctx, orderID, 0, true)
}

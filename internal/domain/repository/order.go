package repository

import (
	"context"

	"github.com/freshbasket/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Transition
// methods re-read the order inside the updating transaction so preconditions
// are checked against fresh state, never a cached copy.
type OrderRepository interface {
	// Create persists the order with its items atomically and returns the
	// stored record. The order always enters the Placed status, unpaid.
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	// ListByUser returns the user's orders populated with product and address
	// detail, newest first. ListAll does the same across all users.
	ListByUser(ctx context.Context, userID int64) ([]model.OrderDetail, error)
	ListAll(ctx context.Context) ([]model.OrderDetail, error)
	// SetStatus moves the order to the target status. Delivering a COD order
	// also marks it paid. Terminal orders reject any further transition.
	SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error)
	// Cancel moves the order to Cancelled when the cancellation rules for the
	// acting party permit it. userID scopes the lookup unless bySeller is set.
	Cancel(ctx context.Context, orderID, userID int64, bySeller bool) (*model.Order, error)
	// MarkPaid idempotently records a confirmed online payment. Replays leave
	// the already-paid order untouched.
	MarkPaid(ctx context.Context, orderID int64, paymentID string) (*model.Order, error)
	// SetSessionID attaches the gateway checkout session reference.
	SetSessionID(ctx context.Context, orderID int64, sessionID string) error
	// ListPendingOnline returns unpaid online orders that already have a
	// checkout session, oldest first.
	ListPendingOnline(ctx context.Context, limit int) ([]model.Order, error)
}

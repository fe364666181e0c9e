package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/freshbasket/storefront/internal/adapter/stripegw"
	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
	"github.com/freshbasket/storefront/internal/domain/repository"
)

// PaymentUseCase reconciles out-of-band payment confirmations with orders.
// Every path funnels into the same idempotent transition keyed by order id,
// so redelivered or concurrent confirmations cannot double-apply.
type PaymentUseCase struct {
	orders  repository.OrderRepository
	users   repository.UserRepository
	gateway stripegw.Gateway
	logger  *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(orders repository.OrderRepository, users repository.UserRepository, gateway stripegw.Gateway, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{orders: orders, users: users, gateway: gateway, logger: logger}
}

// ConfirmEvent handles a raw gateway webhook delivery. The payload is never
// parsed before its signature verifies. Event kinds other than a completed
// checkout are acknowledged and ignored.
func (u *PaymentUseCase) ConfirmEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := u.gateway.VerifyEvent(payload, signature)
	if err != nil {
		return err
	}
	if !event.CheckoutCompleted {
		return nil
	}
	return u.confirmSession(ctx, &event.Session)
}

// VerifySession is the post-redirect polling path. It applies the same paid
// predicate and the same idempotent transition as the webhook, so the two
// confirmation channels cannot diverge.
func (u *PaymentUseCase) VerifySession(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, domainErrors.ErrInvalidInput
	}
	session, err := u.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if err := u.confirmSession(ctx, session); err != nil {
		return 0, err
	}
	return session.OrderID, nil
}

// PendingOnlineOrders lists unpaid online orders with an open checkout
// session for the background reconciler.
func (u *PaymentUseCase) PendingOnlineOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.ListPendingOnline(ctx, limit)
}

// CheckPendingOrder re-reads the order's checkout session and settles it when
// the gateway reports it paid. Sessions still awaiting payment are left
// alone; abandoned orders persist unpaid indefinitely.
func (u *PaymentUseCase) CheckPendingOrder(ctx context.Context, order model.Order) error {
	session, err := u.gateway.RetrieveSession(ctx, order.SessionID)
	if err != nil {
		return err
	}
	if !session.Paid {
		return nil
	}
	if session.OrderID == 0 {
		session.OrderID = order.ID
		session.UserID = order.UserID
	}
	return u.confirmSession(ctx, session)
}

// confirmSession applies a paid checkout session to its order: re-checks the
// paid status, marks the order paid with the gateway transaction reference,
// and clears the payer's cart mirror. Safe to call any number of times.
func (u *PaymentUseCase) confirmSession(ctx context.Context, session *stripegw.Session) error {
	if !session.Paid {
		return domainErrors.ErrPaymentNotCompleted
	}

	order, err := u.orders.MarkPaid(ctx, session.OrderID, session.PaymentID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Error("paid session references unknown order",
				slog.String("session", session.ID), slog.Int64("order", session.OrderID))
		}
		return err
	}

	if err := u.users.ClearCart(ctx, order.UserID); err != nil {
		u.logger.Warn("clear cart mirror failed",
			slog.Int64("user", order.UserID), slog.String("error", err.Error()))
	}
	return nil
}

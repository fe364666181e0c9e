package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/freshbasket/storefront/internal/adapter/stripegw"
	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
	"github.com/freshbasket/storefront/internal/domain/repository"
	"github.com/freshbasket/storefront/internal/pricing"
)

// CheckoutUseCase turns a cart into a priced, persisted order. Prices always
// come from the catalog at the moment of checkout; the client only ever
// supplies product ids and quantities.
type CheckoutUseCase struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	addresses repository.AddressRepository
	users     repository.UserRepository
	gateway   stripegw.Gateway
	taxRate   float64
	minOnline float64
	logger    *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	addresses repository.AddressRepository,
	users repository.UserRepository,
	gateway stripegw.Gateway,
	taxRate, minOnline float64,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:    orders,
		products:  products,
		addresses: addresses,
		users:     users,
		gateway:   gateway,
		taxRate:   taxRate,
		minOnline: minOnline,
		logger:    logger,
	}
}

// PlaceCODOrder creates a cash-on-delivery order. Placement is confirmation:
// the order is returned directly and the cart mirror is cleared.
func (u *CheckoutUseCase) PlaceCODOrder(ctx context.Context, userID int64, items []model.OrderItem, addressID int64) (*model.Order, error) {
	_, quote, err := u.resolveAndPrice(ctx, userID, items, addressID)
	if err != nil {
		return nil, err
	}

	order, err := u.orders.Create(ctx, &model.Order{
		UserID:      userID,
		AddressID:   addressID,
		Items:       items,
		Amount:      quote.Total,
		PaymentType: model.PaymentTypeCOD,
	})
	if err != nil {
		return nil, err
	}

	u.clearCartMirror(ctx, userID)
	return order, nil
}

// PlaceOnlineOrder creates an order for hosted online payment and returns the
// gateway redirect URL. The order stays unpaid in Placed until a verified
// confirmation arrives; the cart is cleared only then, since the shopper may
// abandon the payment page.
func (u *CheckoutUseCase) PlaceOnlineOrder(ctx context.Context, userID int64, items []model.OrderItem, addressID int64, origin string) (string, *model.Order, error) {
	priced, quote, err := u.resolveAndPrice(ctx, userID, items, addressID)
	if err != nil {
		return "", nil, err
	}

	// Gateway processing floor, checked before anything is persisted.
	if quote.Total < u.minOnline {
		return "", nil, domainErrors.ErrBelowMinimum
	}

	order, err := u.orders.Create(ctx, &model.Order{
		UserID:      userID,
		AddressID:   addressID,
		Items:       items,
		Amount:      quote.Total,
		PaymentType: model.PaymentTypeOnline,
	})
	if err != nil {
		return "", nil, err
	}

	lineItems := make([]stripegw.LineItem, 0, len(priced))
	for _, item := range priced {
		lineItems = append(lineItems, stripegw.LineItem{
			Name:      item.Product.Name,
			UnitPrice: item.Product.EffectivePrice(),
			Quantity:  item.Quantity,
		})
	}

	session, err := u.gateway.CreateCheckoutSession(ctx, order, lineItems,
		quote.Tax,
		origin+"/order-success?session_id={CHECKOUT_SESSION_ID}",
		origin+"/cart",
	)
	if err != nil {
		// The order is already persisted; it stays unpaid in Placed rather
		// than being rolled back, so a later retry or reconcile can pick it up.
		u.logger.Error("checkout session creation failed",
			slog.Int64("order", order.ID), slog.String("error", err.Error()))
		return "", order, err
	}

	if err := u.orders.SetSessionID(ctx, order.ID, session.ID); err != nil {
		u.logger.Error("store checkout session id failed",
			slog.Int64("order", order.ID), slog.String("error", err.Error()))
	}
	order.SessionID = session.ID

	return session.URL, order, nil
}

// resolveAndPrice validates the request, resolves catalog products, checks the
// address belongs to the buyer, and prices the item set.
func (u *CheckoutUseCase) resolveAndPrice(ctx context.Context, userID int64, items []model.OrderItem, addressID int64) ([]pricing.Item, pricing.Quote, error) {
	if len(items) == 0 || addressID == 0 {
		return nil, pricing.Quote{}, domainErrors.ErrInvalidInput
	}

	address, err := u.addresses.GetByID(ctx, addressID)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	if address.UserID != userID {
		return nil, pricing.Quote{}, domainErrors.ErrNotFound
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	catalog, err := u.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, pricing.Quote{}, err
	}

	priced := make([]pricing.Item, 0, len(items))
	for _, item := range items {
		product, ok := catalog[item.ProductID]
		if !ok {
			return nil, pricing.Quote{}, fmt.Errorf("product %d: %w", item.ProductID, domainErrors.ErrNotFound)
		}
		priced = append(priced, pricing.Item{Product: product, Quantity: item.Quantity})
	}

	quote, err := pricing.Compute(priced, u.taxRate)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	return priced, quote, nil
}

// clearCartMirror empties the server-side cart copy. Best-effort: a failure
// is logged and never blocks the placed order.
func (u *CheckoutUseCase) clearCartMirror(ctx context.Context, userID int64) {
	if err := u.users.ClearCart(ctx, userID); err != nil {
		u.logger.Warn("clear cart mirror failed",
			slog.Int64("user", userID), slog.String("error", err.Error()))
	}
}

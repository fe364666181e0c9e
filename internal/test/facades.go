package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/freshbasket/storefront/internal/cart"
	"github.com/freshbasket/storefront/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceCODFn     func(context.Context, int64, []model.OrderItem, int64) (*model.Order, error)
	PlaceOnlineFn  func(context.Context, int64, []model.OrderItem, int64, string) (string, *model.Order, error)
	UserOrdersFn   func(context.Context, int64) ([]model.OrderDetail, error)
	AllOrdersFn    func(context.Context) ([]model.OrderDetail, error)
	UpdateStatusFn func(context.Context, int64, string) (*model.Order, error)
	CancelUserFn   func(context.Context, int64, int64) (*model.Order, error)
	CancelSellerFn func(context.Context, int64) (*model.Order, error)
}

// PlaceCODOrder delegates to provided function or returns a placed order.
func (s OrderFacadeStub) PlaceCODOrder(ctx context.Context, userID int64, items []model.OrderItem, addressID int64) (*model.Order, error) {
	if s.PlaceCODFn != nil {
		return s.PlaceCODFn(ctx, userID, items, addressID)
	}
	return &model.Order{ID: 1, UserID: userID, AddressID: addressID, Items: items, PaymentType: model.PaymentTypeCOD, Status: model.OrderStatusPlaced}, nil
}

// PlaceOnlineOrder delegates to provided function or returns a redirect URL.
func (s OrderFacadeStub) PlaceOnlineOrder(ctx context.Context, userID int64, items []model.OrderItem, addressID int64, origin string) (string, *model.Order, error) {
	if s.PlaceOnlineFn != nil {
		return s.PlaceOnlineFn(ctx, userID, items, addressID, origin)
	}
	order := &model.Order{ID: 1, UserID: userID, AddressID: addressID, Items: items, PaymentType: model.PaymentTypeOnline, Status: model.OrderStatusPlaced}
	return "https://pay.example/cs_test", order, nil
}

// UserOrders returns configured listing.
func (s OrderFacadeStub) UserOrders(ctx context.Context, userID int64) ([]model.OrderDetail, error) {
	if s.UserOrdersFn != nil {
		return s.UserOrdersFn(ctx, userID)
	}
	return []model.OrderDetail{{Order: model.Order{ID: 1, UserID: userID, Status: model.OrderStatusPlaced}}}, nil
}

// AllOrders returns configured listing across users.
func (s OrderFacadeStub) AllOrders(ctx context.Context) ([]model.OrderDetail, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx)
	}
	return []model.OrderDetail{{Order: model.Order{ID: 1, Status: model.OrderStatusPlaced}}}, nil
}

// UpdateOrderStatus delegates to provided function or echoes the status.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatus(status)}, nil
}

// CancelOrderByUser delegates to provided function or cancels the order.
func (s OrderFacadeStub) CancelOrderByUser(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	if s.CancelUserFn != nil {
		return s.CancelUserFn(ctx, orderID, userID)
	}
	return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusCancelled}, nil
}

// CancelOrderBySeller delegates to provided function or cancels the order.
func (s OrderFacadeStub) CancelOrderBySeller(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.CancelSellerFn != nil {
		return s.CancelSellerFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCancelled}, nil
}

// PaymentFacadeStub simulates payment confirmation operations.
type PaymentFacadeStub struct {
	ConfirmFn func(context.Context, []byte, string) error
	VerifyFn  func(context.Context, string) (int64, error)

	ConfirmedPayloads [][]byte
}

// ConfirmPaymentEvent records the payload and delegates to the override.
func (s *PaymentFacadeStub) ConfirmPaymentEvent(ctx context.Context, payload []byte, signature string) error {
	s.ConfirmedPayloads = append(s.ConfirmedPayloads, payload)
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, payload, signature)
	}
	return nil
}

// VerifyCheckoutSession delegates to the override or confirms order 1.
func (s *PaymentFacadeStub) VerifyCheckoutSession(ctx context.Context, sessionID string) (int64, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, sessionID)
	}
	return 1, nil
}

// CartFacadeStub mirrors cart operations.
type CartFacadeStub struct {
	UpdateFn func(context.Context, int64, cart.Cart) error
	GetFn    func(context.Context, int64) (cart.Cart, error)

	Updated []cart.Cart
}

// UpdateCart records the submitted cart.
func (s *CartFacadeStub) UpdateCart(ctx context.Context, userID int64, items cart.Cart) error {
	s.Updated = append(s.Updated, items)
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, userID, items)
	}
	return nil
}

// Cart returns the configured mirror.
func (s *CartFacadeStub) Cart(ctx context.Context, userID int64) (cart.Cart, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID)
	}
	return cart.Cart{1: 2}, nil
}

// AddressFacadeStub simulates the address book.
type AddressFacadeStub struct {
	AddFn  func(context.Context, *model.Address) (*model.Address, error)
	ListFn func(context.Context, int64) ([]model.Address, error)
}

// AddAddress delegates to the override or assigns id 1.
func (s AddressFacadeStub) AddAddress(ctx context.Context, address *model.Address) (*model.Address, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, address)
	}
	stored := *address
	stored.ID = 1
	return &stored, nil
}

// Addresses returns the configured address list.
func (s AddressFacadeStub) Addresses(ctx context.Context, userID int64) ([]model.Address, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID)
	}
	return []model.Address{{ID: 1, UserID: userID, FirstName: "Ann", Street: "1 Main", City: "Springfield"}}, nil
}

// CatalogFacadeStub serves a fixed product list.
type CatalogFacadeStub struct {
	ProductsFn func(context.Context) ([]model.Product, error)
}

// Products returns the configured catalog.
func (s CatalogFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: 1, Name: "Apples", Price: 120}}, nil
}

// StorefrontFacadeStub aggregates facade dependencies for HTTP layer tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
	CartFacadeStub
	AddressFacadeStub
	CatalogFacadeStub
}

// WorkerFacadeStub mimics reconciler interactions with the storefront facade.
type WorkerFacadeStub struct {
	Batches   [][]model.Order
	PendingFn func(context.Context, int) ([]model.Order, error)
	CheckFn   func(context.Context, model.Order) error

	Checked []int64

	mu             sync.Mutex
	batchCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PendingOnlineOrders returns batches from the configured queue.
func (s *WorkerFacadeStub) PendingOnlineOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckPendingOrder records checked order ids.
func (s *WorkerFacadeStub) CheckPendingOrder(ctx context.Context, order model.Order) error {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Checked = append(s.Checked, order.ID)
	return nil
}

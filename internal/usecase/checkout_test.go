package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/freshbasket/storefront/internal/adapter/stripegw"
	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
	testhelpers "github.com/freshbasket/storefront/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type checkoutFixture struct {
	uc        *CheckoutUseCase
	orders    *testhelpers.OrderRepositoryStub
	users     *testhelpers.UserRepositoryStub
	addresses *testhelpers.AddressRepositoryStub
	gateway   *testhelpers.GatewayStub
	addressID int64
	userID    int64
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	orders := testhelpers.NewOrderRepositoryStub()
	users := testhelpers.NewUserRepositoryStub()
	addresses := testhelpers.NewAddressRepositoryStub()
	gateway := &testhelpers.GatewayStub{}
	products := testhelpers.NewProductRepositoryStub(
		model.Product{ID: 1, Name: "Apples", Price: 100},
		model.Product{ID: 2, Name: "Bread", Price: 50},
		model.Product{ID: 3, Name: "Gum", Price: 10},
	)

	ctx := context.Background()
	user, err := users.Create(ctx, "Ann", "ann@example.com", "hash", model.RoleCustomer)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	address, err := addresses.Create(ctx, &model.Address{UserID: user.ID, FirstName: "Ann", Street: "1 Main", City: "Springfield"})
	if err != nil {
		t.Fatalf("seed address: %v", err)
	}

	uc := NewCheckoutUseCase(orders, products, addresses, users, gateway, 0.02, 50, discardLogger())
	return &checkoutFixture{
		uc:        uc,
		orders:    orders,
		users:     users,
		addresses: addresses,
		gateway:   gateway,
		addressID: address.ID,
		userID:    user.ID,
	}
}

func TestPlaceCODOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	items := []model.OrderItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	order, err := f.uc.PlaceCODOrder(ctx, f.userID, items, f.addressID)
	if err != nil {
		t.Fatalf("place COD order failed: %v", err)
	}
	if order.Amount != 255 {
		t.Fatalf("expected amount 255 (250 subtotal + 5 tax), got %v", order.Amount)
	}
	if order.PaymentType != model.PaymentTypeCOD {
		t.Fatalf("unexpected payment type %q", order.PaymentType)
	}
	if order.Status != model.OrderStatusPlaced {
		t.Fatalf("expected Placed status, got %q", order.Status)
	}
	if order.IsPaid {
		t.Fatalf("COD order must not be paid at placement")
	}
	if len(f.users.CartClears) != 1 {
		t.Fatalf("expected cart mirror cleared once, got %d", len(f.users.CartClears))
	}
}

func TestPlaceCODOrderUnknownProduct(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.uc.PlaceCODOrder(context.Background(), f.userID, []model.OrderItem{{ProductID: 99, Quantity: 1}}, f.addressID)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown product, got %v", err)
	}
	if len(f.orders.Orders) != 0 {
		t.Fatalf("no order should be created")
	}
}

func TestPlaceCODOrderEmptyItems(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.uc.PlaceCODOrder(context.Background(), f.userID, nil, f.addressID)
	if !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlaceCODOrderForeignAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	other, err := f.addresses.Create(ctx, &model.Address{UserID: 999, FirstName: "Bob", Street: "2 Side", City: "Shelbyville"})
	if err != nil {
		t.Fatalf("seed address: %v", err)
	}

	_, err = f.uc.PlaceCODOrder(ctx, f.userID, []model.OrderItem{{ProductID: 1, Quantity: 1}}, other.ID)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign address, got %v", err)
	}
}

func TestPlaceOnlineOrderBelowMinimum(t *testing.T) {
	f := newCheckoutFixture(t)

	// 10 + 0 tax is below the 50 floor; nothing must be persisted.
	_, _, err := f.uc.PlaceOnlineOrder(context.Background(), f.userID, []model.OrderItem{{ProductID: 3, Quantity: 1}}, f.addressID, "https://shop.example")
	if !errors.Is(err, domainErrors.ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}
	if len(f.orders.Orders) != 0 {
		t.Fatalf("order must not be created below the floor")
	}
	if len(f.gateway.CreatedFor) != 0 {
		t.Fatalf("gateway must not be called below the floor")
	}
}

func TestPlaceOnlineOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	url, order, err := f.uc.PlaceOnlineOrder(ctx, f.userID, []model.OrderItem{{ProductID: 1, Quantity: 1}}, f.addressID, "https://shop.example")
	if err != nil {
		t.Fatalf("place online order failed: %v", err)
	}
	if url != "https://pay.example/cs_test" {
		t.Fatalf("unexpected redirect URL %q", url)
	}
	if order.SessionID != "cs_test" {
		t.Fatalf("expected session id stored on order, got %q", order.SessionID)
	}
	if f.orders.SessionIDs[order.ID] != "cs_test" {
		t.Fatalf("session id not persisted")
	}
	if order.IsPaid {
		t.Fatalf("online order must stay unpaid until confirmation")
	}
	// The cart survives until a verified payment confirmation.
	if len(f.users.CartClears) != 0 {
		t.Fatalf("cart mirror must not be cleared at online placement")
	}
}

func TestPlaceOnlineOrderGatewayFailureKeepsOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	gatewayErr := &domainErrors.GatewayError{Op: "create checkout session", Err: errors.New("boom")}
	f.gateway.CreateFn = func(context.Context, *model.Order, []stripegw.LineItem, float64, string, string) (*stripegw.Session, error) {
		return nil, gatewayErr
	}

	_, order, err := f.uc.PlaceOnlineOrder(context.Background(), f.userID, []model.OrderItem{{ProductID: 1, Quantity: 1}}, f.addressID, "https://shop.example")
	if err == nil {
		t.Fatalf("expected gateway error")
	}
	if order == nil {
		t.Fatalf("the persisted order must be returned alongside the error")
	}

	stored, err := f.orders.GetByID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("order missing after gateway failure: %v", err)
	}
	if stored.Status != model.OrderStatusPlaced || stored.IsPaid {
		t.Fatalf("order must remain unpaid Placed, got %+v", stored)
	}
}

func TestPlaceOnlineOrderSendsTaxAwareLineItems(t *testing.T) {
	f := newCheckoutFixture(t)

	_, _, err := f.uc.PlaceOnlineOrder(context.Background(), f.userID, []model.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}, f.addressID, "https://shop.example")
	if err != nil {
		t.Fatalf("place online order failed: %v", err)
	}
	if len(f.gateway.LineItems) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(f.gateway.LineItems))
	}
	items := f.gateway.LineItems[0]
	if len(items) != 2 {
		t.Fatalf("expected one line item per order position, got %d", len(items))
	}
	if items[0].UnitPrice != 100 || items[0].Quantity != 2 {
		t.Fatalf("unexpected first line item %+v", items[0])
	}
}

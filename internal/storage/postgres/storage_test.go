package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	tableStatements := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS addresses",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
	}
	for _, stmt := range tableStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_user ON orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_pending_online ON orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

var orderRowColumns = []string{"id", "user_id", "address_id", "amount", "payment_type", "is_paid", "payment_id", "session_id", "status", "created_at", "updated_at"}

func expectGetOrder(mock pgxmockv3.PgxPoolIface, orderID int64, status model.OrderStatus, isPaid bool) {
	now := time.Now()
	mock.ExpectQuery("SELECT id, user_id, address_id, amount, payment_type, is_paid, payment_id, session_id, status, created_at, updated_at FROM orders WHERE id=").
		WithArgs(orderID).
		WillReturnRows(pgxmockv3.NewRows(orderRowColumns).
			AddRow(orderID, int64(7), int64(3), 255.0, model.PaymentTypeCOD, isPaid, "", "", status, now, now))
	mock.ExpectQuery("SELECT product_id, quantity FROM order_items WHERE order_id=").
		WithArgs(orderID).
		WillReturnRows(pgxmockv3.NewRows([]string{"product_id", "quantity"}).AddRow(int64(1), int64(2)))
}

func TestInitSchema(t *testing.T) {
	storage, mock := newMockStorage(t)
	expectSchema(mock)

	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("init schema failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	createdAt := time.Now()
	mock.ExpectQuery("INSERT INTO users").WithArgs("Ann", "ann@example.com", "hash", "customer").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(1), createdAt),
	)

	user, err := storage.Users().Create(context.Background(), "Ann", "ann@example.com", "hash", "customer")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.ID != 1 || user.Email != "ann@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.CartItems == nil || len(user.CartItems) != 0 {
		t.Fatalf("new user must start with an empty cart")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("INSERT INTO users").WithArgs("Ann", "ann@example.com", "hash", "customer").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := storage.Users().Create(context.Background(), "Ann", "ann@example.com", "hash", "customer")
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserGetByEmailDecodesCart(t *testing.T) {
	storage, mock := newMockStorage(t)
	createdAt := time.Now()
	mock.ExpectQuery("SELECT id, name, email, password_hash, role, cart_items, created_at FROM users WHERE email=").
		WithArgs("ann@example.com").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "name", "email", "password_hash", "role", "cart_items", "created_at"}).
			AddRow(int64(1), "Ann", "ann@example.com", "hash", "customer", []byte(`{"5":3}`), createdAt))

	user, err := storage.Users().GetByEmail(context.Background(), "ann@example.com")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if user.CartItems[5] != 3 {
		t.Fatalf("cart mirror not decoded: %v", user.CartItems)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT id, name, email, password_hash, role, cart_items, created_at FROM users WHERE id=").
		WithArgs(int64(2)).WillReturnError(pgx.ErrNoRows)

	_, err := storage.Users().GetByID(context.Background(), 2)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClearCartUnknownUser(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("UPDATE users SET cart_items=").WithArgs(int64(9)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))

	if err := storage.Users().ClearCart(context.Background(), 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderCreateInsertsItemsAtomically(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(int64(7), int64(3), 255.0, model.PaymentTypeCOD, model.OrderStatusPlaced).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(int64(10), int64(1), int64(2)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(int64(10), int64(2), int64(1)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	order, err := storage.Orders().Create(context.Background(), &model.Order{
		UserID:      7,
		AddressID:   3,
		Amount:      255,
		PaymentType: model.PaymentTypeCOD,
		Items: []model.OrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if order.ID != 10 || order.Status != model.OrderStatusPlaced || order.IsPaid {
		t.Fatalf("unexpected order %+v", order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderCreateRollsBackOnItemFailure(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(int64(7), int64(3), 100.0, model.PaymentTypeCOD, model.OrderStatusPlaced).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(int64(10), int64(1), int64(2)).
		WillReturnError(errors.New("insert item"))
	mock.ExpectRollback()

	_, err := storage.Orders().Create(context.Background(), &model.Order{
		UserID: 7, AddressID: 3, Amount: 100, PaymentType: model.PaymentTypeCOD,
		Items: []model.OrderItem{{ProductID: 1, Quantity: 2}},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetStatusDeliveredMarksCODPaid(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, is_paid FROM orders WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"status", "payment_type", "is_paid"}).
			AddRow(model.OrderStatusShipped, model.PaymentTypeCOD, false))
	mock.ExpectExec("UPDATE orders SET status=").
		WithArgs(model.OrderStatusDelivered, true, int64(1)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	expectGetOrder(mock, 1, model.OrderStatusDelivered, true)

	order, err := storage.Orders().SetStatus(context.Background(), 1, model.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if !order.IsPaid {
		t.Fatalf("delivered COD order must be paid")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetStatusTerminalOrder(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, is_paid FROM orders WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"status", "payment_type", "is_paid"}).
			AddRow(model.OrderStatusCancelled, model.PaymentTypeOnline, false))
	mock.ExpectRollback()

	_, err := storage.Orders().SetStatus(context.Background(), 1, model.OrderStatusProcessing)
	if !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	var stateErr *domainErrors.InvalidStateError
	if !errors.As(err, &stateErr) || stateErr.Status != string(model.OrderStatusCancelled) {
		t.Fatalf("expected state error naming Cancelled, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelByCustomerAfterShipment(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM orders WHERE id=").
		WithArgs(int64(1), int64(7)).
		WillReturnRows(pgxmockv3.NewRows([]string{"status"}).AddRow(model.OrderStatusShipped))
	mock.ExpectRollback()

	_, err := storage.Orders().Cancel(context.Background(), 1, 7, false)
	if !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBySellerShippedOrder(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM orders WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"status"}).AddRow(model.OrderStatusShipped))
	mock.ExpectExec("UPDATE orders SET status=").
		WithArgs(model.OrderStatusCancelled, int64(1)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	expectGetOrder(mock, 1, model.OrderStatusCancelled, false)

	order, err := storage.Orders().Cancel(context.Background(), 1, 0, true)
	if err != nil {
		t.Fatalf("seller cancel failed: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Fatalf("expected Cancelled, got %q", order.Status)
	}
}

func TestCancelUnknownOrder(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM orders WHERE id=").
		WithArgs(int64(404), int64(7)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := storage.Orders().Cancel(context.Background(), 404, 7, false)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkPaidFirstDelivery(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT is_paid FROM orders WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"is_paid"}).AddRow(false))
	mock.ExpectExec("UPDATE orders SET is_paid=TRUE").
		WithArgs("pi_1", int64(1)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	expectGetOrder(mock, 1, model.OrderStatusPlaced, true)

	order, err := storage.Orders().MarkPaid(context.Background(), 1, "pi_1")
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if !order.IsPaid {
		t.Fatalf("expected paid order")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkPaidReplaySkipsWrite(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT is_paid FROM orders WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"is_paid"}).AddRow(true))
	mock.ExpectCommit()
	expectGetOrder(mock, 1, model.OrderStatusPlaced, true)

	order, err := storage.Orders().MarkPaid(context.Background(), 1, "pi_replay")
	if err != nil {
		t.Fatalf("replay must succeed: %v", err)
	}
	if !order.IsPaid {
		t.Fatalf("expected paid order")
	}
	// No UPDATE expectation: a replay never writes.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetSessionIDUnknownOrder(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("UPDATE orders SET session_id=").
		WithArgs("cs_1", int64(404)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))

	if err := storage.Orders().SetSessionID(context.Background(), 404, "cs_1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPendingOnline(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, user_id, address_id, amount, payment_type, is_paid, payment_id, session_id, status, created_at, updated_at FROM orders").
		WithArgs(model.PaymentTypeOnline, model.OrderStatusPlaced, 10).
		WillReturnRows(pgxmockv3.NewRows(orderRowColumns).
			AddRow(int64(1), int64(7), int64(3), 255.0, model.PaymentTypeOnline, false, "", "cs_1", model.OrderStatusPlaced, now, now))

	orders, err := storage.Orders().ListPendingOnline(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(orders) != 1 || orders[0].SessionID != "cs_1" {
		t.Fatalf("unexpected result %+v", orders)
	}
}

func TestHealthCheck(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectPing()

	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
}

func TestAddressCreateAndGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	createdAt := time.Now()

	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs(int64(7), "Ann", "Lee", "ann@example.com", "1 Main", "Springfield", "IL", "62704", "US", "555-0101").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(3), createdAt))

	saved, err := storage.Addresses().Create(context.Background(), &model.Address{
		UserID: 7, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com",
		Street: "1 Main", City: "Springfield", State: "IL", ZipCode: "62704",
		Country: "US", Phone: "555-0101",
	})
	if err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	if saved.ID != 3 {
		t.Fatalf("unexpected id %d", saved.ID)
	}

	mock.ExpectQuery("SELECT id, user_id, first_name, last_name, email, street, city, state, zip_code, country, phone, created_at FROM addresses WHERE id=").
		WithArgs(int64(404)).WillReturnError(pgx.ErrNoRows)
	if _, err := storage.Addresses().GetByID(context.Background(), 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductGetByIDsEmptyInput(t *testing.T) {
	storage, _ := newMockStorage(t)

	result, err := storage.Products().GetByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected empty map")
	}
}

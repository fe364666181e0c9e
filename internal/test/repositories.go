package test

import (
	"context"
	"sort"
	"time"

	"github.com/freshbasket/storefront/internal/cart"
	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error

	CartUpdates []cart.Cart
	CartClears  []int64
	ClearErr    error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, name, email, passwordHash, role string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Name: name, Email: email, PasswordHash: passwordHash, Role: role, CartItems: cart.Cart{}}
	s.Next++
	s.Users[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateCart replaces the stored cart mirror and records the call.
func (s *UserRepositoryStub) UpdateCart(ctx context.Context, userID int64, items cart.Cart) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[userID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.CartItems = items
	s.CartUpdates = append(s.CartUpdates, items)
	return nil
}

// ClearCart empties the stored cart mirror and records the call.
func (s *UserRepositoryStub) ClearCart(ctx context.Context, userID int64) error {
	s.CartClears = append(s.CartClears, userID)
	if s.ClearErr != nil {
		return s.ClearErr
	}
	if user, ok := s.ByID[userID]; ok {
		user.CartItems = cart.Cart{}
	}
	return nil
}

// ProductRepositoryStub serves a fixed catalog.
type ProductRepositoryStub struct {
	Products map[int64]model.Product
	Err      error
}

// NewProductRepositoryStub constructs the stub with the given products.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	catalog := make(map[int64]model.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	return &ProductRepositoryStub{Products: catalog}
}

// GetByIDs returns the matching subset of the catalog.
func (s *ProductRepositoryStub) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[int64]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.Products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// List returns the whole catalog ordered by id.
func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Product, 0, len(s.Products))
	for _, p := range s.Products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddressRepositoryStub stores addresses in-memory for tests.
type AddressRepositoryStub struct {
	Addresses map[int64]*model.Address
	Next      int64
	Err       error
}

// NewAddressRepositoryStub constructs stub repository with initialized map.
func NewAddressRepositoryStub() *AddressRepositoryStub {
	return &AddressRepositoryStub{Addresses: make(map[int64]*model.Address), Next: 1}
}

// Create stores the address and assigns an identifier.
func (s *AddressRepositoryStub) Create(ctx context.Context, address *model.Address) (*model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Addresses == nil {
		s.Addresses = make(map[int64]*model.Address)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	stored := *address
	stored.ID = s.Next
	stored.CreatedAt = time.Now()
	s.Next++
	s.Addresses[stored.ID] = &stored
	return &stored, nil
}

// GetByID fetches address by identifier or returns not found.
func (s *AddressRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if address, ok := s.Addresses[id]; ok {
		return address, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns the user's addresses ordered by id descending.
func (s *AddressRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Address, 0)
	for _, a := range s.Addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// OrderRepositoryStub stores orders in-memory and applies the same transition
// rules as the real repository, so use case tests exercise realistic state.
type OrderRepositoryStub struct {
	Orders map[int64]*model.Order
	Next   int64

	CreateErr   error
	MarkPaidErr error
	Pending     []model.Order

	CreateFn   func(context.Context, *model.Order) (*model.Order, error)
	MarkPaidFn func(context.Context, int64, string) (*model.Order, error)

	SessionIDs map[int64]string
	PaidCalls  []int64
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders:     make(map[int64]*model.Order),
		Next:       1,
		SessionIDs: make(map[int64]string),
	}
}

// Seed stores an order without going through Create.
func (s *OrderRepositoryStub) Seed(order model.Order) *model.Order {
	if order.ID == 0 {
		order.ID = s.Next
		s.Next++
	} else if order.ID >= s.Next {
		s.Next = order.ID + 1
	}
	stored := order
	s.Orders[stored.ID] = &stored
	return &stored
}

// Create persists the order in Placed status.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	stored := *order
	stored.ID = s.Next
	stored.Status = model.OrderStatusPlaced
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Next++
	s.Orders[stored.ID] = &stored
	result := stored
	return &result, nil
}

// GetByID fetches order by identifier or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	if order, ok := s.Orders[orderID]; ok {
		result := *order
		return &result, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns stored orders for the user as bare details.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.OrderDetail, error) {
	out := make([]model.OrderDetail, 0)
	for _, o := range s.Orders {
		if o.UserID == userID {
			out = append(out, model.OrderDetail{Order: *o})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ListAll returns every stored order as bare details.
func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.OrderDetail, error) {
	out := make([]model.OrderDetail, 0, len(s.Orders))
	for _, o := range s.Orders {
		out = append(out, model.OrderDetail{Order: *o})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// SetStatus applies the target status with the terminal-state guard.
func (s *OrderRepositoryStub) SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	order, ok := s.Orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if order.Status.Terminal() {
		return nil, &domainErrors.InvalidStateError{Status: string(order.Status)}
	}
	order.Status = status
	if status == model.OrderStatusDelivered && order.PaymentType == model.PaymentTypeCOD {
		order.IsPaid = true
	}
	order.UpdatedAt = time.Now()
	result := *order
	return &result, nil
}

// Cancel applies the cancellation rules for the acting party.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, orderID, userID int64, bySeller bool) (*model.Order, error) {
	order, ok := s.Orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if !bySeller && order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	if !model.CancelAllowed(order.Status, bySeller) {
		return nil, &domainErrors.InvalidStateError{Status: string(order.Status)}
	}
	order.Status = model.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	result := *order
	return &result, nil
}

// MarkPaid records the payment once; replays return the stored order as-is.
func (s *OrderRepositoryStub) MarkPaid(ctx context.Context, orderID int64, paymentID string) (*model.Order, error) {
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, orderID, paymentID)
	}
	if s.MarkPaidErr != nil {
		return nil, s.MarkPaidErr
	}
	order, ok := s.Orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	s.PaidCalls = append(s.PaidCalls, orderID)
	if !order.IsPaid {
		order.IsPaid = true
		order.PaymentID = paymentID
		order.UpdatedAt = time.Now()
	}
	result := *order
	return &result, nil
}

// SetSessionID attaches the checkout session reference.
func (s *OrderRepositoryStub) SetSessionID(ctx context.Context, orderID int64, sessionID string) error {
	order, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.SessionID = sessionID
	s.SessionIDs[orderID] = sessionID
	return nil
}

// ListPendingOnline returns the configured pending slice or derives it from
// stored orders.
func (s *OrderRepositoryStub) ListPendingOnline(ctx context.Context, limit int) ([]model.Order, error) {
	if s.Pending != nil {
		if limit > 0 && len(s.Pending) > limit {
			return s.Pending[:limit], nil
		}
		return s.Pending, nil
	}
	out := make([]model.Order, 0)
	for _, o := range s.Orders {
		if o.PaymentType == model.PaymentTypeOnline && !o.IsPaid && o.SessionID != "" && o.Status == model.OrderStatusPlaced {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

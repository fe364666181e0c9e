package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freshbasket/storefront/internal/cart"
	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
	"github.com/freshbasket/storefront/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage relies on.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type addressRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Addresses() repository.AddressRepository {
	return &addressRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'customer',
            cart_items JSONB NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            price DOUBLE PRECISION NOT NULL,
            offer_price DOUBLE PRECISION,
            image_url TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS addresses (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            street TEXT NOT NULL,
            city TEXT NOT NULL,
            state TEXT NOT NULL DEFAULT '',
            zip_code TEXT NOT NULL DEFAULT '',
            country TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            address_id BIGINT NOT NULL REFERENCES addresses(id),
            amount DOUBLE PRECISION NOT NULL,
            payment_type TEXT NOT NULL,
            is_paid BOOLEAN NOT NULL DEFAULT FALSE,
            payment_id TEXT NOT NULL DEFAULT '',
            session_id TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL REFERENCES products(id),
            quantity BIGINT NOT NULL CHECK (quantity > 0)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending_online ON orders(created_at)
            WHERE payment_type = 'Online' AND NOT is_paid`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, name, email, passwordHash, role string) (*model.User, error) {
	const query = `INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, name, email, passwordHash, role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Name = name
	u.Email = email
	u.PasswordHash = passwordHash
	u.Role = role
	u.CartItems = cart.New()
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, role, cart_items, created_at FROM users WHERE email=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, role, cart_items, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var (
		u        model.User
		rawItems []byte
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &rawItems, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	u.CartItems = cart.New()
	if len(rawItems) > 0 {
		if err := json.Unmarshal(rawItems, &u.CartItems); err != nil {
			return nil, fmt.Errorf("decode cart items: %w", err)
		}
	}
	return &u, nil
}

func (r *userRepository) UpdateCart(ctx context.Context, userID int64, items cart.Cart) error {
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}
	const query = `UPDATE users SET cart_items=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, userID, encoded)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) ClearCart(ctx context.Context, userID int64) error {
	const query = `UPDATE users SET cart_items='{}'::jsonb WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- ProductRepository implementation ---

const productColumns = `id, name, category, price, offer_price, image_url, created_at`

func scanProduct(rows pgx.Rows) (model.Product, error) {
	var p model.Product
	err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.OfferPrice, &p.ImageURL, &p.CreatedAt)
	return p, err
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	if len(ids) == 0 {
		return map[int64]model.Product{}, nil
	}
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]model.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- AddressRepository implementation ---

const addressColumns = `id, user_id, first_name, last_name, email, street, city, state, zip_code, country, phone, created_at`

func (r *addressRepository) Create(ctx context.Context, address *model.Address) (*model.Address, error) {
	const query = `INSERT INTO addresses (user_id, first_name, last_name, email, street, city, state, zip_code, country, phone)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING id, created_at`
	stored := *address
	err := r.storage.pool.QueryRow(ctx, query,
		address.UserID, address.FirstName, address.LastName, address.Email,
		address.Street, address.City, address.State, address.ZipCode,
		address.Country, address.Phone,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *addressRepository) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	const query = `SELECT ` + addressColumns + ` FROM addresses WHERE id=$1`
	var a model.Address
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.FirstName, &a.LastName, &a.Email,
		&a.Street, &a.City, &a.State, &a.ZipCode, &a.Country, &a.Phone, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID int64) ([]model.Address, error) {
	const query = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Address
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.FirstName, &a.LastName, &a.Email,
			&a.Street, &a.City, &a.State, &a.ZipCode, &a.Country, &a.Phone, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, user_id, address_id, amount, payment_type, is_paid, payment_id, session_id, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &o.Amount, &o.PaymentType,
		&o.IsPaid, &o.PaymentID, &o.SessionID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	stored := *order
	stored.Status = model.OrderStatusPlaced
	stored.IsPaid = false

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (user_id, address_id, amount, payment_type, status)
                             VALUES ($1, $2, $3, $4, $5)
                             RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			stored.UserID, stored.AddressID, stored.Amount, stored.PaymentType, stored.Status,
		).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)`
		for _, item := range stored.Items {
			if _, err := tx.Exec(ctx, insertItem, stored.ID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, err
	}

	const itemsQuery = `SELECT product_id, quantity FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.OrderDetail, error) {
	const query = `SELECT o.id, o.user_id, o.address_id, o.amount, o.payment_type, o.is_paid, o.payment_id,
                          o.session_id, o.status, o.created_at, o.updated_at, ` + prefixedAddressColumns + `
                   FROM orders o JOIN addresses a ON a.id = o.address_id
                   WHERE o.user_id=$1 ORDER BY o.created_at DESC`
	return r.listDetailed(ctx, query, userID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.OrderDetail, error) {
	const query = `SELECT o.id, o.user_id, o.address_id, o.amount, o.payment_type, o.is_paid, o.payment_id,
                          o.session_id, o.status, o.created_at, o.updated_at, ` + prefixedAddressColumns + `
                   FROM orders o JOIN addresses a ON a.id = o.address_id
                   ORDER BY o.created_at DESC`
	return r.listDetailed(ctx, query)
}

const prefixedAddressColumns = `a.id, a.user_id, a.first_name, a.last_name, a.email, a.street, a.city, a.state, a.zip_code, a.country, a.phone, a.created_at`

func (r *orderRepository) listDetailed(ctx context.Context, query string, args ...any) ([]model.OrderDetail, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		details  []model.OrderDetail
		orderIDs []int64
		position = make(map[int64]int)
	)
	for rows.Next() {
		var d model.OrderDetail
		err := rows.Scan(&d.ID, &d.UserID, &d.AddressID, &d.Amount, &d.PaymentType, &d.IsPaid,
			&d.PaymentID, &d.SessionID, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.Address.ID, &d.Address.UserID, &d.Address.FirstName, &d.Address.LastName,
			&d.Address.Email, &d.Address.Street, &d.Address.City, &d.Address.State,
			&d.Address.ZipCode, &d.Address.Country, &d.Address.Phone, &d.Address.CreatedAt)
		if err != nil {
			return nil, err
		}
		position[d.ID] = len(details)
		orderIDs = append(orderIDs, d.ID)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	const itemsQuery = `SELECT oi.order_id, oi.quantity, p.id, p.name, p.category, p.price, p.offer_price, p.image_url, p.created_at
                        FROM order_items oi JOIN products p ON p.id = oi.product_id
                        WHERE oi.order_id = ANY($1) ORDER BY oi.id`
	itemRows, err := r.storage.pool.Query(ctx, itemsQuery, orderIDs)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID int64
			detail  model.OrderItemDetail
		)
		err := itemRows.Scan(&orderID, &detail.Quantity,
			&detail.Product.ID, &detail.Product.Name, &detail.Product.Category,
			&detail.Product.Price, &detail.Product.OfferPrice, &detail.Product.ImageURL,
			&detail.Product.CreatedAt)
		if err != nil {
			return nil, err
		}
		idx, ok := position[orderID]
		if !ok {
			continue
		}
		details[idx].ItemDetails = append(details[idx].ItemDetails, detail)
		details[idx].Items = append(details[idx].Items, model.OrderItem{
			ProductID: detail.Product.ID,
			Quantity:  detail.Quantity,
		})
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *orderRepository) SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT status, payment_type, is_paid FROM orders WHERE id=$1 FOR UPDATE`
		var (
			current model.OrderStatus
			ptype   model.PaymentType
			isPaid  bool
		)
		if err := tx.QueryRow(ctx, selectQuery, orderID).Scan(&current, &ptype, &isPaid); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if current.Terminal() {
			return &domainErrors.InvalidStateError{Status: string(current)}
		}

		// Cash is collected at the door, so delivery confirms COD payment.
		if status == model.OrderStatusDelivered && ptype == model.PaymentTypeCOD {
			isPaid = true
		}

		const updateQuery = `UPDATE orders SET status=$1, is_paid=$2, updated_at=NOW() WHERE id=$3`
		_, err := tx.Exec(ctx, updateQuery, status, isPaid, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) Cancel(ctx context.Context, orderID, userID int64, bySeller bool) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		query := `SELECT status FROM orders WHERE id=$1 FOR UPDATE`
		args := []any{orderID}
		if !bySeller {
			query = `SELECT status FROM orders WHERE id=$1 AND user_id=$2 FOR UPDATE`
			args = append(args, userID)
		}

		var current model.OrderStatus
		if err := tx.QueryRow(ctx, query, args...).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if !model.CancelAllowed(current, bySeller) {
			return &domainErrors.InvalidStateError{Status: string(current)}
		}

		const updateQuery = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
		_, err := tx.Exec(ctx, updateQuery, model.OrderStatusCancelled, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) MarkPaid(ctx context.Context, orderID int64, paymentID string) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT is_paid FROM orders WHERE id=$1 FOR UPDATE`
		var alreadyPaid bool
		if err := tx.QueryRow(ctx, selectQuery, orderID).Scan(&alreadyPaid); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if alreadyPaid {
			// Replayed confirmation; the first delivery already applied it.
			return nil
		}

		const updateQuery = `UPDATE orders SET is_paid=TRUE, payment_id=$1, updated_at=NOW() WHERE id=$2`
		_, err := tx.Exec(ctx, updateQuery, paymentID, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) SetSessionID(ctx context.Context, orderID int64, sessionID string) error {
	const query = `UPDATE orders SET session_id=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, sessionID, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ListPendingOnline(ctx context.Context, limit int) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
                   WHERE payment_type=$1 AND NOT is_paid AND session_id <> '' AND status=$2
                   ORDER BY created_at LIMIT $3`
	rows, err := r.storage.pool.Query(ctx, query, model.PaymentTypeOnline, model.OrderStatusPlaced, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

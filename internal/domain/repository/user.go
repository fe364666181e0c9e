package repository

import (
	"context"

	"github.com/freshbasket/storefront/internal/cart"
	"github.com/freshbasket/storefront/internal/domain/model"
)

// UserRepository describes persistence operations with user records.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// UpdateCart replaces the server-side cart mirror. ClearCart empties it.
	UpdateCart(ctx context.Context, userID int64, items cart.Cart) error
	ClearCart(ctx context.Context, userID int64) error
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/freshbasket/storefront/internal/cart"
	"github.com/freshbasket/storefront/internal/domain/repository"
)

// CartUseCase maintains the server-side mirror of the client cart. The mirror
// is advisory: clients sync it opportunistically after mutations and a lost
// update only costs the shopper a stale cart on their next device.
type CartUseCase struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(users repository.UserRepository, logger *slog.Logger) *CartUseCase {
	return &CartUseCase{users: users, logger: logger}
}

// Update replaces the user's cart mirror with the client copy, dropping
// entries with non-positive quantities.
func (u *CartUseCase) Update(ctx context.Context, userID int64, items cart.Cart) error {
	return u.users.UpdateCart(ctx, userID, items.Normalized())
}

// Get returns the stored mirror.
func (u *CartUseCase) Get(ctx context.Context, userID int64) (cart.Cart, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.CartItems, nil
}

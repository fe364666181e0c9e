package repository

import (
	"context"

	"github.com/freshbasket/storefront/internal/domain/model"
)

// AddressRepository describes persistence operations with delivery addresses.
type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) (*model.Address, error)
	GetByID(ctx context.Context, id int64) (*model.Address, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Address, error)
}

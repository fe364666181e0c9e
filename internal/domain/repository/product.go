package repository

import (
	"context"

	"github.com/freshbasket/storefront/internal/domain/model"
)

// ProductRepository describes read access to the catalog.
type ProductRepository interface {
	// GetByIDs returns the requested products keyed by id. Missing ids are
	// simply absent from the map; the caller decides whether that is an error.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
}

package usecase

import (
	"context"

	"github.com/freshbasket/storefront/internal/domain/model"
	"github.com/freshbasket/storefront/internal/domain/repository"
)

// CatalogUseCase exposes read access to the product catalog. Clients use the
// listing to price carts for display; the numbers are advisory only.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// List returns the full catalog.
func (u *CatalogUseCase) List(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx)
}

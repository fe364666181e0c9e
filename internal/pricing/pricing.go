// Package pricing computes order totals from server-resolved catalog prices.
// Both payment paths and the client-side advisory display must agree on the
// arithmetic here; nothing else in the module computes an order amount.
package pricing

import (
	"math"

	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
)

// Item pairs a catalog product with the ordered quantity.
type Item struct {
	Product  model.Product
	Quantity int64
}

// Quote is a priced order breakdown. Total = Subtotal + Tax.
type Quote struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Compute prices the item set. Tax is truncated, not rounded: floor(subtotal
// times rate), matching the persisted amount on every path.
func Compute(items []Item, taxRate float64) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, domainErrors.ErrInvalidInput
	}

	var subtotal float64
	for _, item := range items {
		if item.Quantity <= 0 {
			return Quote{}, domainErrors.ErrInvalidInput
		}
		subtotal += item.Product.EffectivePrice() * float64(item.Quantity)
	}

	tax := math.Floor(subtotal * taxRate)
	return Quote{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}, nil
}

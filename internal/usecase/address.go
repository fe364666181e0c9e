package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
	"github.com/freshbasket/storefront/internal/domain/repository"
)

// AddressUseCase manages the shopper's saved delivery addresses.
type AddressUseCase struct {
	addresses repository.AddressRepository
}

// NewAddressUseCase constructs AddressUseCase.
func NewAddressUseCase(addresses repository.AddressRepository) *AddressUseCase {
	return &AddressUseCase{addresses: addresses}
}

// Add stores a new address for the user.
func (u *AddressUseCase) Add(ctx context.Context, address *model.Address) (*model.Address, error) {
	if strings.TrimSpace(address.FirstName) == "" ||
		strings.TrimSpace(address.Street) == "" ||
		strings.TrimSpace(address.City) == "" {
		return nil, domainErrors.ErrInvalidInput
	}
	return u.addresses.Create(ctx, address)
}

// ListByUser returns the user's saved addresses, newest first.
func (u *AddressUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Address, error) {
	return u.addresses.ListByUser(ctx, userID)
}

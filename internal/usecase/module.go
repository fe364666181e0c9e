package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/freshbasket/storefront/internal/adapter/stripegw"
	"github.com/freshbasket/storefront/internal/config"
	"github.com/freshbasket/storefront/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewOrderUseCase,
	NewCartUseCase,
	NewAddressUseCase,
	NewCatalogUseCase,
	NewPaymentUseCase,
	newCheckoutUseCase,
)

type checkoutParams struct {
	fx.In

	Orders    repository.OrderRepository
	Products  repository.ProductRepository
	Addresses repository.AddressRepository
	Users     repository.UserRepository
	Gateway   stripegw.Gateway
	Config    *config.Config
	Logger    *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(
		p.Orders, p.Products, p.Addresses, p.Users, p.Gateway,
		p.Config.TaxRate, p.Config.MinOnlineOrderAmount, p.Logger,
	)
}

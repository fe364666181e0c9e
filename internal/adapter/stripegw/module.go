package stripegw

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/freshbasket/storefront/internal/config"
)

// Module exposes the Stripe gateway implementation to the fx graph.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) (Gateway, error) {
	return New(
		p.Config.StripeSecretKey,
		p.Config.StripeWebhookSecret,
		p.Config.Currency,
		p.Config.MinOnlineOrderAmount,
		p.Logger,
	)
}

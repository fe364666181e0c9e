package di

import (
	"go.uber.org/fx"

	"github.com/freshbasket/storefront/internal/adapter/stripegw"
	"github.com/freshbasket/storefront/internal/app"
	"github.com/freshbasket/storefront/internal/config"
	"github.com/freshbasket/storefront/internal/logger"
	"github.com/freshbasket/storefront/internal/pkg/auth"
	"github.com/freshbasket/storefront/internal/server/http/handlers"
	"github.com/freshbasket/storefront/internal/server/http/router"
	"github.com/freshbasket/storefront/internal/storage/postgres"
	"github.com/freshbasket/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		stripegw.Module,
		usecase.Module,
		fx.Provide(func(facade *app.StorefrontFacade) handlers.StorefrontFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

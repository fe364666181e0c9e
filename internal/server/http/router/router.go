package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/freshbasket/storefront/internal/config"
	"github.com/freshbasket/storefront/internal/server/http/handlers"
	"github.com/freshbasket/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade, facade, cfg.PublicOrigin)
	webhookHandler := handlers.NewWebhookHandler(facade, logger)
	cartHandler := handlers.NewCartHandler(facade)
	addressHandler := handlers.NewAddressHandler(facade)
	productHandler := handlers.NewProductHandler(facade)

	api := engine.Group("/api")

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	api.GET("/product/list", productHandler.List)

	order := api.Group("/order")
	order.POST("/webhook", webhookHandler.Handle)

	orderAuth := order.Group("")
	orderAuth.Use(middleware.AuthRequired(facade))
	orderAuth.POST("/cod", orderHandler.PlaceCOD)
	orderAuth.POST("/online", orderHandler.PlaceOnline)
	orderAuth.GET("/user", orderHandler.ListUser)
	orderAuth.GET("/verify-session", orderHandler.VerifySession)
	orderAuth.POST("/cancel/user/:orderId", orderHandler.CancelUser)

	orderAdmin := order.Group("")
	orderAdmin.Use(middleware.AuthRequired(facade), middleware.SellerRequired(facade))
	orderAdmin.GET("/all", orderHandler.ListAll)
	orderAdmin.PATCH("/status/:orderId", orderHandler.UpdateStatus)
	orderAdmin.POST("/cancel/admin/:orderId", orderHandler.CancelAdmin)

	cartGroup := api.Group("/cart")
	cartGroup.Use(middleware.AuthRequired(facade))
	cartGroup.POST("/update", cartHandler.Update)
	cartGroup.GET("", cartHandler.Get)

	address := api.Group("/address")
	address.Use(middleware.AuthRequired(facade))
	address.POST("/add", addressHandler.Add)
	address.GET("/list", addressHandler.List)

	return engine
}

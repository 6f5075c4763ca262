package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/potensio/gii-backend/internal/http/handlers"
	httpMW "github.com/potensio/gii-backend/internal/http/middleware"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	IdentityMiddleware *httpMW.IdentityMiddleware
	AuthMiddleware     *httpMW.AuthMiddleware

	AuthHandler     *httpH.AuthHandler
	CartHandler     *httpH.CartHandler
	CheckoutHandler *httpH.CheckoutHandler
	AddressHandler  *httpH.AddressHandler
	OrderHandler    *httpH.OrderHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Every route below carries an identity: a verified user or a guest
	// session (minted here when missing).
	resolved := r.Group("/")
	if cfg.IdentityMiddleware != nil {
		resolved.Use(cfg.IdentityMiddleware.ResolveIdentity())
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		resolved.POST("/auth/register", cfg.AuthHandler.Register)
		resolved.POST("/auth/login", cfg.AuthHandler.Login)
	}

	// Cart (guest or user)
	if cfg.CartHandler != nil {
		resolved.GET("/cart", cfg.CartHandler.GetCart)
		resolved.POST("/cart", cfg.CartHandler.AddItem)
		resolved.DELETE("/cart", cfg.CartHandler.ClearCart)
		resolved.PATCH("/cart/:itemId", cfg.CartHandler.UpdateItem)
		resolved.DELETE("/cart/:itemId", cfg.CartHandler.RemoveItem)
		resolved.POST("/cart/validate", cfg.CartHandler.Validate)
	}

	// Guest checkout (guest session)
	if cfg.CheckoutHandler != nil {
		resolved.POST("/checkout/guest", cfg.CheckoutHandler.CheckoutGuest)
	}

	protected := resolved.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.CartHandler != nil {
			protected.POST("/cart/claim", cfg.CartHandler.Claim)
		}

		if cfg.CheckoutHandler != nil {
			protected.POST("/checkout/authenticated", cfg.CheckoutHandler.CheckoutAuthenticated)
		}

		if cfg.AddressHandler != nil {
			protected.GET("/addresses", cfg.AddressHandler.List)
			protected.POST("/addresses", cfg.AddressHandler.Create)
			protected.PATCH("/addresses/:id", cfg.AddressHandler.Update)
			protected.DELETE("/addresses/:id", cfg.AddressHandler.Delete)
			protected.POST("/addresses/:id/set-default", cfg.AddressHandler.SetDefault)
		}

		if cfg.OrderHandler != nil {
			protected.GET("/orders/my-orders", cfg.OrderHandler.ListMyOrders)
			protected.GET("/orders/:id", cfg.OrderHandler.GetMyOrder)
		}
	}

	return r
}

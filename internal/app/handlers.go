package app

import (
	httpH "github.com/potensio/gii-backend/internal/http/handlers"
	httpMW "github.com/potensio/gii-backend/internal/http/middleware"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type Handlers struct {
	Auth     *httpH.AuthHandler
	Cart     *httpH.CartHandler
	Checkout *httpH.CheckoutHandler
	Address  *httpH.AddressHandler
	Order    *httpH.OrderHandler
	Health   *httpH.HealthHandler
}

type Middleware struct {
	Identity *httpMW.IdentityMiddleware
	Auth     *httpMW.AuthMiddleware
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     httpH.NewAuthHandler(log, s.Auth),
		Cart:     httpH.NewCartHandler(log, s.Cart, s.CartMerge),
		Checkout: httpH.NewCheckoutHandler(log, s.Checkout),
		Address:  httpH.NewAddressHandler(log, s.Address),
		Order:    httpH.NewOrderHandler(log, s.Order),
		Health:   httpH.NewHealthHandler(),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	return Middleware{
		Identity: httpMW.NewIdentityMiddleware(log, s.Identity),
		Auth:     httpMW.NewAuthMiddleware(log),
	}
}

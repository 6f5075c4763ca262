package app

import (
	redisclient "github.com/potensio/gii-backend/internal/clients/redis"
	"github.com/potensio/gii-backend/internal/platform/logger"
	"github.com/potensio/gii-backend/internal/services"
)

type Services struct {
	Token        services.TokenService
	Identity     services.IdentityService
	Auth         services.AuthService
	CartValidate services.CartValidationService
	Cart         services.CartService
	CartMerge    services.CartMergeService
	Address      services.AddressService
	Checkout     services.CheckoutService
	Order        services.OrderService
}

func wireServices(log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	tokenService := services.NewTokenService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	identityService := services.NewIdentityService(log, tokenService)
	authService := services.NewAuthService(log, r.TxRunner, r.User, r.UserToken, tokenService, cfg.RefreshTokenTTL)
	validateService := services.NewCartValidationService(log, r.Product)
	cartService := services.NewCartService(log, r.TxRunner, r.Cart, r.CartItem, r.Product, validateService)
	mergeService := services.NewCartMergeService(log, r.TxRunner, r.Cart, r.CartItem)
	addressService := services.NewAddressService(log, r.TxRunner, r.Address)
	orderService := services.NewOrderService(log, r.Order)

	// Checkout idempotency is best effort: without redis the guard is off
	// and repeated submissions create repeated orders.
	idemStore, err := redisclient.NewIdempotencyStore(log)
	if err != nil {
		log.Warn("Checkout idempotency store disabled", "error", err)
		idemStore = nil
	}

	checkoutService := services.NewCheckoutService(
		log,
		r.TxRunner,
		r.Cart,
		r.CartItem,
		r.Address,
		r.Order,
		r.User,
		validateService,
		authService,
		idemStore,
		cfg.ShippingCost,
	)

	return Services{
		Token:        tokenService,
		Identity:     identityService,
		Auth:         authService,
		CartValidate: validateService,
		Cart:         cartService,
		CartMerge:    mergeService,
		Address:      addressService,
		Checkout:     checkoutService,
		Order:        orderService,
	}
}

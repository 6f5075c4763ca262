package app

import (
	"time"

	"github.com/potensio/gii-backend/internal/platform/envutil"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ShippingCost    int64
}

func LoadConfig() Config {
	return Config{
		Port:            envutil.String("PORT", "8080"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 7*86400)) * time.Second,
		ShippingCost:    envutil.Int64("SHIPPING_COST", 15000),
	}
}

package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/potensio/gii-backend/internal/http/response"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/ctxutil"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type AuthMiddleware struct {
	log *logger.Logger
}

func NewAuthMiddleware(log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware")}
}

// RequireAuth rejects guests. It runs after ResolveIdentity, so a user
// identity here is already token-verified.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ctxutil.GetIdentity(c.Request.Context())
		if !id.IsUser() {
			response.AbortError(c, apierr.Unauthorized("unauthorized", fmt.Errorf("authenticated user required")))
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/potensio/gii-backend/internal/http/response"
	"github.com/potensio/gii-backend/internal/platform/ctxutil"
	"github.com/potensio/gii-backend/internal/platform/logger"
	"github.com/potensio/gii-backend/internal/services"
)

const (
	SessionCookieName = "session_id"
	AccessCookieName  = "token"
)

type IdentityMiddleware struct {
	log      *logger.Logger
	identity services.IdentityService
}

func NewIdentityMiddleware(log *logger.Logger, identity services.IdentityService) *IdentityMiddleware {
	return &IdentityMiddleware{log: log.With("Middleware", "IdentityMiddleware"), identity: identity}
}

// ResolveIdentity attaches an identity to every request. Authenticated users
// win over guest sessions; a missing session cookie mints a fresh guest and
// sets the cookie on the way out.
func (im *IdentityMiddleware) ResolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := extractAccessToken(c)
		sessionToken, _ := c.Cookie(SessionCookieName)

		id, instruction, err := im.identity.Resolve(accessToken, sessionToken)
		if err != nil {
			response.AbortError(c, err)
			return
		}
		if instruction != nil {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, instruction.Token, instruction.MaxAge, "/", "", false, true)
		}

		c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

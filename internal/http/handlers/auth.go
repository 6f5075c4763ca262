package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/potensio/gii-backend/internal/http/middleware"
	"github.com/potensio/gii-backend/internal/http/response"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/logger"
	"github.com/potensio/gii-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("Handler", "AuthHandler"), authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.Validation("invalid_request", err))
		return
	}
	user, tokens, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	setAccessCookie(c, tokens)
	response.Created(c, "registered", gin.H{"user": user, "tokens": tokens})
}

// Login returns tokens and sets the access cookie. Clients holding a guest
// session cookie should follow up with POST /cart/claim to merge their cart.
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.Validation("invalid_request", err))
		return
	}
	user, tokens, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	setAccessCookie(c, tokens)
	response.OK(c, "logged_in", gin.H{"user": user, "tokens": tokens})
}

func setAccessCookie(c *gin.Context, tokens *services.TokenPair) {
	if tokens == nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookieName, tokens.AccessToken, tokens.ExpiresIn, "/", "", false, true)
}

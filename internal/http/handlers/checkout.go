package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/potensio/gii-backend/internal/http/middleware"
	"github.com/potensio/gii-backend/internal/http/response"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/ctxutil"
	"github.com/potensio/gii-backend/internal/platform/logger"
	"github.com/potensio/gii-backend/internal/services"
)

const idempotencyKeyHeader = "Idempotency-Key"

type CheckoutHandler struct {
	log             *logger.Logger
	checkoutService services.CheckoutService
}

func NewCheckoutHandler(log *logger.Logger, checkoutService services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		log:             log.With("Handler", "CheckoutHandler"),
		checkoutService: checkoutService,
	}
}

func (ch *CheckoutHandler) CheckoutAuthenticated(c *gin.Context) {
	var req struct {
		AddressID string `json:"address_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.Validation("invalid_request", err))
		return
	}
	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		response.Error(c, apierr.Validation("invalid_address_id", fmt.Errorf("parse address id: %w", err)))
		return
	}

	id := ctxutil.GetIdentity(c.Request.Context())
	receipt, err := ch.checkoutService.CheckoutAuthenticated(
		c.Request.Context(), id.UserID, addressID, c.GetHeader(idempotencyKeyHeader))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "order_created", gin.H{"order": receipt})
}

// CheckoutGuest creates the account, address, and order in one shot, then
// signs the guest in: the access token is both returned and set as a cookie.
func (ch *CheckoutHandler) CheckoutGuest(c *gin.Context) {
	var req struct {
		FullName     string `json:"full_name"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		AddressLabel string `json:"address_label"`
		FullAddress  string `json:"full_address"`
		Village      string `json:"village"`
		District     string `json:"district"`
		City         string `json:"city"`
		Province     string `json:"province"`
		PostalCode   string `json:"postal_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.Validation("invalid_request", err))
		return
	}

	id := ctxutil.GetIdentity(c.Request.Context())
	if !id.IsGuest() {
		response.Error(c, apierr.Validation("not_a_guest", fmt.Errorf("guest checkout requires a guest session")))
		return
	}

	receipt, tokens, err := ch.checkoutService.CheckoutGuest(c.Request.Context(), id.SessionID, services.GuestCheckoutInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		AddressLabel: req.AddressLabel,
		FullAddress:  req.FullAddress,
		Village:      req.Village,
		District:     req.District,
		City:         req.City,
		Province:     req.Province,
		PostalCode:   req.PostalCode,
	}, c.GetHeader(idempotencyKeyHeader))
	if err != nil {
		response.Error(c, err)
		return
	}

	data := gin.H{"order": receipt}
	if tokens != nil {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.AccessCookieName, tokens.AccessToken, tokens.ExpiresIn, "/", "", false, true)
		data["tokens"] = tokens
	}
	response.Created(c, "order_created", data)
}

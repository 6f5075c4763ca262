package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/potensio/gii-backend/internal/http/middleware"
	"github.com/potensio/gii-backend/internal/http/response"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/ctxutil"
	"github.com/potensio/gii-backend/internal/platform/logger"
	"github.com/potensio/gii-backend/internal/services"
)

type CartHandler struct {
	log          *logger.Logger
	cartService  services.CartService
	mergeService services.CartMergeService
}

func NewCartHandler(log *logger.Logger, cartService services.CartService, mergeService services.CartMergeService) *CartHandler {
	return &CartHandler{
		log:          log.With("Handler", "CartHandler"),
		cartService:  cartService,
		mergeService: mergeService,
	}
}

func (ch *CartHandler) GetCart(c *gin.Context) {
	id := ctxutil.GetIdentity(c.Request.Context())
	items, err := ch.cartService.GetCart(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "cart", gin.H{"items": items})
}

func (ch *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID         string                 `json:"product_id"`
		VariantSelections map[string]interface{} `json:"variant_selections"`
		Quantity          int                    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.Validation("invalid_request", err))
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.Error(c, apierr.Validation("invalid_product", fmt.Errorf("parse product id: %w", err)))
		return
	}

	id := ctxutil.GetIdentity(c.Request.Context())
	item, err := ch.cartService.AddItem(c.Request.Context(), id, services.AddItemInput{
		ProductID:         productID,
		VariantSelections: req.VariantSelections,
		Quantity:          req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "item_added", gin.H{"item": item})
}

// UpdateItem handles quantity changes and checkout selection toggles on a
// single line. Quantity zero or below removes the line.
func (ch *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.Error(c, apierr.Validation("invalid_item_id", fmt.Errorf("parse item id: %w", err)))
		return
	}
	var req struct {
		Quantity *int  `json:"quantity"`
		Selected *bool `json:"selected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.Validation("invalid_request", err))
		return
	}
	if req.Quantity == nil && req.Selected == nil {
		response.Error(c, apierr.Validation("invalid_request", fmt.Errorf("quantity or selected required")))
		return
	}

	id := ctxutil.GetIdentity(c.Request.Context())
	if req.Quantity != nil {
		if err := ch.cartService.UpdateQuantity(c.Request.Context(), id, itemID, *req.Quantity); err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.Selected != nil {
		if err := ch.cartService.SetSelected(c.Request.Context(), id, []uuid.UUID{itemID}, *req.Selected); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.OK(c, "item_updated", nil)
}

func (ch *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.Error(c, apierr.Validation("invalid_item_id", fmt.Errorf("parse item id: %w", err)))
		return
	}
	id := ctxutil.GetIdentity(c.Request.Context())
	if err := ch.cartService.RemoveItem(c.Request.Context(), id, itemID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "item_removed", nil)
}

func (ch *CartHandler) ClearCart(c *gin.Context) {
	id := ctxutil.GetIdentity(c.Request.Context())
	if err := ch.cartService.ClearCart(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "cart_cleared", nil)
}

// Claim merges the guest cart referenced by the session cookie into the
// logged-in user's cart. No guest cart is a success: the merge is idempotent
// so clients can retry after login without checking state first.
func (ch *CartHandler) Claim(c *gin.Context) {
	id := ctxutil.GetIdentity(c.Request.Context())
	sessionToken, _ := c.Cookie(middleware.SessionCookieName)
	if sessionToken == "" {
		var req struct {
			SessionID string `json:"session_id"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			sessionToken = req.SessionID
		}
	}
	if sessionToken == "" {
		response.OK(c, "nothing_to_claim", nil)
		return
	}
	if err := ch.mergeService.Claim(c.Request.Context(), sessionToken, id.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "cart_claimed", nil)
}

func (ch *CartHandler) Validate(c *gin.Context) {
	id := ctxutil.GetIdentity(c.Request.Context())
	result, err := ch.cartService.ValidateCart(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "cart_validated", result)
}

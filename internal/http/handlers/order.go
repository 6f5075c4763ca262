package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/potensio/gii-backend/internal/http/response"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/ctxutil"
	"github.com/potensio/gii-backend/internal/platform/logger"
	"github.com/potensio/gii-backend/internal/services"
)

type OrderHandler struct {
	log          *logger.Logger
	orderService services.OrderService
}

func NewOrderHandler(log *logger.Logger, orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		log:          log.With("Handler", "OrderHandler"),
		orderService: orderService,
	}
}

func (oh *OrderHandler) ListMyOrders(c *gin.Context) {
	id := ctxutil.GetIdentity(c.Request.Context())
	orders, err := oh.orderService.ListMyOrders(c.Request.Context(), id.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "orders", gin.H{"orders": orders})
}

func (oh *OrderHandler) GetMyOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.Validation("invalid_order_id", fmt.Errorf("parse order id: %w", err)))
		return
	}
	id := ctxutil.GetIdentity(c.Request.Context())
	order, err := oh.orderService.GetMyOrder(c.Request.Context(), orderID, id.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "order", gin.H{"order": order})
}

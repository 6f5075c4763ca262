package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	orderrepo "github.com/potensio/gii-backend/internal/data/repos/order"
	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

// OrderService is the read-only projection of a user's orders.
type OrderService interface {
	ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*types.Order, error)
	GetMyOrder(ctx context.Context, orderID, userID uuid.UUID) (*types.Order, error)
}

type orderService struct {
	log    *logger.Logger
	orders orderrepo.OrderRepo
}

func NewOrderService(log *logger.Logger, orders orderrepo.OrderRepo) OrderService {
	return &orderService{log: log.With("service", "OrderService"), orders: orders}
}

func (os *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*types.Order, error) {
	return os.orders.ListByUserID(ctx, nil, userID)
}

func (os *orderService) GetMyOrder(ctx context.Context, orderID, userID uuid.UUID) (*types.Order, error) {
	o, err := os.orders.GetByIDForUser(ctx, nil, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if o == nil {
		return nil, apierr.NotFound("order_not_found", fmt.Errorf("order %s not found for user", orderID))
	}
	return o, nil
}

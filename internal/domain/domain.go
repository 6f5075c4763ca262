package domain

import (
	"github.com/potensio/gii-backend/internal/domain/auth"
	"github.com/potensio/gii-backend/internal/domain/cart"
	"github.com/potensio/gii-backend/internal/domain/catalog"
	"github.com/potensio/gii-backend/internal/domain/order"
	"github.com/potensio/gii-backend/internal/domain/user"
)

type (
	User    = user.User
	Address = user.Address

	UserToken = auth.UserToken

	Product        = catalog.Product
	ProductVariant = catalog.ProductVariant

	Cart             = cart.Cart
	CartItem         = cart.CartItem
	ValidationIssue  = cart.ValidationIssue
	ValidationResult = cart.ValidationResult

	Order            = order.Order
	OrderItem        = order.OrderItem
	ShippingSnapshot = order.ShippingSnapshot
)

const (
	IssueProductUnavailable = cart.IssueProductUnavailable
	IssueOutOfStock         = cart.IssueOutOfStock
	IssuePriceChanged       = cart.IssuePriceChanged

	ActionRemove         = cart.ActionRemove
	ActionUpdateQuantity = cart.ActionUpdateQuantity
	ActionUpdatePrice    = cart.ActionUpdatePrice

	OrderStatusPending    = order.StatusPending
	OrderStatusProcessing = order.StatusProcessing
	OrderStatusShipped    = order.StatusShipped
	OrderStatusDelivered  = order.StatusDelivered
	OrderStatusCancelled  = order.StatusCancelled
	OrderStatusRefunded   = order.StatusRefunded

	PaymentStatusPending  = order.PaymentPending
	PaymentStatusPaid     = order.PaymentPaid
	PaymentStatusFailed   = order.PaymentFailed
	PaymentStatusRefunded = order.PaymentRefunded
)

// NormalizeSelections is re-exported for callers that hold the aggregate
// package only.
var NormalizeSelections = cart.NormalizeSelections

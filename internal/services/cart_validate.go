package services

import (
	"fmt"

	"github.com/google/uuid"

	catalogrepo "github.com/potensio/gii-backend/internal/data/repos/catalog"
	types "github.com/potensio/gii-backend/internal/domain"
	domaincart "github.com/potensio/gii-backend/internal/domain/cart"
	"github.com/potensio/gii-backend/internal/platform/dbctx"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

// CartValidationService re-checks cart lines against the live catalog. It is
// strictly read-only; remediation is the caller's decision. Per line at most
// one issue is reported: existence dominates stock dominates price.
type CartValidationService interface {
	Validate(dbc dbctx.Context, items []*types.CartItem) (*types.ValidationResult, error)
}

type cartValidationService struct {
	log      *logger.Logger
	products catalogrepo.ProductRepo
}

func NewCartValidationService(log *logger.Logger, products catalogrepo.ProductRepo) CartValidationService {
	return &cartValidationService{
		log:      log.With("service", "CartValidationService"),
		products: products,
	}
}

func (vs *cartValidationService) Validate(dbc dbctx.Context, items []*types.CartItem) (*types.ValidationResult, error) {
	result := &types.ValidationResult{Valid: true, Issues: []types.ValidationIssue{}}
	if len(items) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := vs.products.GetByIDs(dbc.Ctx, dbc.Tx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range items {
		if issue := vs.checkItem(item, byID[item.ProductID]); issue != nil {
			result.Valid = false
			result.Issues = append(result.Issues, *issue)
		}
	}
	return result, nil
}

func (vs *cartValidationService) checkItem(item *types.CartItem, product *types.Product) *types.ValidationIssue {
	if product == nil || !product.IsActive {
		return unavailable(item, "product is no longer available")
	}

	currentPrice := product.Price
	currentStock := product.Stock
	if item.SelectionKey != "" {
		variant := matchVariant(product, item.SelectionKey)
		if variant == nil {
			return unavailable(item, "selected variant is no longer available")
		}
		currentPrice = variant.Price
		currentStock = variant.Stock
	}

	if item.Quantity > currentStock {
		stock := currentStock
		return &types.ValidationIssue{
			ItemID:          item.ID,
			ProductID:       item.ProductID,
			Code:            domaincart.IssueOutOfStock,
			Message:         fmt.Sprintf("only %d in stock", currentStock),
			SuggestedAction: domaincart.ActionUpdateQuantity,
			CurrentStock:    &stock,
		}
	}

	if item.UnitPrice != currentPrice {
		price := currentPrice
		return &types.ValidationIssue{
			ItemID:          item.ID,
			ProductID:       item.ProductID,
			Code:            domaincart.IssuePriceChanged,
			Message:         "price has changed since the item was added",
			SuggestedAction: domaincart.ActionUpdatePrice,
			CurrentPrice:    &price,
		}
	}

	return nil
}

func unavailable(item *types.CartItem, msg string) *types.ValidationIssue {
	return &types.ValidationIssue{
		ItemID:          item.ID,
		ProductID:       item.ProductID,
		Code:            domaincart.IssueProductUnavailable,
		Message:         msg,
		SuggestedAction: domaincart.ActionRemove,
	}
}

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/platform/dbctx"
)

func testDBC() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

func activeProduct(price int64, stock int) *types.Product {
	return &types.Product{ID: uuid.New(), Name: "Kopi Gayo 250g", SKU: "KG-250", Price: price, Stock: stock, IsActive: true}
}

func lineFor(p *types.Product, qty int, price int64) *types.CartItem {
	return &types.CartItem{
		ID:          uuid.New(),
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		UnitPrice:   price,
	}
}

func TestValidateCleanCart(t *testing.T) {
	p := activeProduct(50000, 10)
	vs := NewCartValidationService(testLogger(t), &fakeProductRepo{products: map[uuid.UUID]*types.Product{p.ID: p}})

	result, err := vs.Validate(testDBC(), []*types.CartItem{lineFor(p, 2, 50000)})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid || len(result.Issues) != 0 {
		t.Fatalf("expected clean result, got %+v", result)
	}
}

func TestValidateEmptyCartIsValid(t *testing.T) {
	vs := NewCartValidationService(testLogger(t), &fakeProductRepo{products: map[uuid.UUID]*types.Product{}})
	result, err := vs.Validate(testDBC(), nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid {
		t.Fatal("an empty cart has nothing to be invalid about")
	}
	if result.Issues == nil {
		t.Fatal("issues must serialize as an empty list, not null")
	}
}

func TestValidateMissingProduct(t *testing.T) {
	vs := NewCartValidationService(testLogger(t), &fakeProductRepo{products: map[uuid.UUID]*types.Product{}})
	item := &types.CartItem{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPrice: 10000}

	result, err := vs.Validate(testDBC(), []*types.CartItem{item})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid || len(result.Issues) != 1 {
		t.Fatalf("expected one issue, got %+v", result)
	}
	issue := result.Issues[0]
	if issue.Code != types.IssueProductUnavailable || issue.SuggestedAction != types.ActionRemove {
		t.Fatalf("unexpected issue %+v", issue)
	}
}

func TestValidateInactiveProduct(t *testing.T) {
	p := activeProduct(50000, 10)
	p.IsActive = false
	vs := NewCartValidationService(testLogger(t), &fakeProductRepo{products: map[uuid.UUID]*types.Product{p.ID: p}})

	result, err := vs.Validate(testDBC(), []*types.CartItem{lineFor(p, 1, 50000)})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid || result.Issues[0].Code != types.IssueProductUnavailable {
		t.Fatalf("expected PRODUCT_UNAVAILABLE, got %+v", result)
	}
}

func TestValidateStockIssueCarriesCurrentStock(t *testing.T) {
	p := activeProduct(50000, 3)
	vs := NewCartValidationService(testLogger(t), &fakeProductRepo{products: map[uuid.UUID]*types.Product{p.ID: p}})

	result, err := vs.Validate(testDBC(), []*types.CartItem{lineFor(p, 5, 50000)})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	issue := result.Issues[0]
	if issue.Code != types.IssueOutOfStock || issue.SuggestedAction != types.ActionUpdateQuantity {
		t.Fatalf("unexpected issue %+v", issue)
	}
	if issue.CurrentStock == nil || *issue.CurrentStock != 3 {
		t.Fatalf("expected current_stock 3, got %v", issue.CurrentStock)
	}
}

func TestValidatePriceIssueCarriesCurrentPrice(t *testing.T) {
	p := activeProduct(60000, 10)
	vs := NewCartValidationService(testLogger(t), &fakeProductRepo{products: map[uuid.UUID]*types.Product{p.ID: p}})

	result, err := vs.Validate(testDBC(), []*types.CartItem{lineFor(p, 1, 50000)})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	issue := result.Issues[0]
	if issue.Code != types.IssuePriceChanged || issue.SuggestedAction != types.ActionUpdatePrice {
		t.Fatalf("unexpected issue %+v", issue)
	}
	if issue.CurrentPrice == nil || *issue.CurrentPrice != 60000 {
		t.Fatalf("expected current_price 60000, got %v", issue.CurrentPrice)
	}
}

// A line that is inactive, short on stock, and mispriced at once reports
// only the dominant issue.
func TestValidateOneIssuePerLineByPriority(t *testing.T) {
	p := activeProduct(60000, 0)
	p.IsActive = false
	vs := NewCartValidationService(testLogger(t), &fakeProductRepo{products: map[uuid.UUID]*types.Product{p.ID: p}})

	result, err := vs.Validate(testDBC(), []*types.CartItem{lineFor(p, 5, 50000)})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(result.Issues) != 1 {
		t.Fatalf("expected exactly one issue, got %d", len(result.Issues))
	}
	if result.Issues[0].Code != types.IssueProductUnavailable {
		t.Fatalf("existence must dominate, got %s", result.Issues[0].Code)
	}
}

func TestValidateVariantLine(t *testing.T) {
	p := activeProduct(50000, 10)
	p.Variants = []types.ProductVariant{
		{ID: uuid.New(), ProductID: p.ID, SelectionKey: "size=m", Price: 55000, Stock: 2, IsActive: true},
	}
	vs := NewCartValidationService(testLogger(t), &fakeProductRepo{products: map[uuid.UUID]*types.Product{p.ID: p}})

	item := lineFor(p, 4, 55000)
	item.SelectionKey = "size=m"
	result, err := vs.Validate(testDBC(), []*types.CartItem{item})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	issue := result.Issues[0]
	if issue.Code != types.IssueOutOfStock {
		t.Fatalf("variant stock must win over product stock, got %+v", issue)
	}
	if *issue.CurrentStock != 2 {
		t.Fatalf("expected variant stock 2, got %d", *issue.CurrentStock)
	}

	// A vanished variant means the line is unavailable even though the
	// product itself still exists.
	item.SelectionKey = "size=xl"
	result, err = vs.Validate(testDBC(), []*types.CartItem{item})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Issues[0].Code != types.IssueProductUnavailable {
		t.Fatalf("expected PRODUCT_UNAVAILABLE for missing variant, got %+v", result.Issues[0])
	}
}

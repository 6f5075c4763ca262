package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	repos "github.com/potensio/gii-backend/internal/data/repos"
	cartrepo "github.com/potensio/gii-backend/internal/data/repos/cart"
	catalogrepo "github.com/potensio/gii-backend/internal/data/repos/catalog"
	types "github.com/potensio/gii-backend/internal/domain"
	domaincart "github.com/potensio/gii-backend/internal/domain/cart"
	"github.com/potensio/gii-backend/internal/domain/identity"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/dbctx"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type AddItemInput struct {
	ProductID         uuid.UUID
	VariantSelections map[string]interface{}
	Quantity          int
}

// CartService is the CRUD surface over cart lines, keyed by identity. Carts
// are created lazily on first add; quantity <= 0 on update means removal.
// Stock is not enforced here; that is the validator's job.
type CartService interface {
	GetCart(ctx context.Context, id identity.Identity) ([]*types.CartItem, error)
	AddItem(ctx context.Context, id identity.Identity, input AddItemInput) (*types.CartItem, error)
	UpdateQuantity(ctx context.Context, id identity.Identity, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, id identity.Identity, itemID uuid.UUID) error
	ClearCart(ctx context.Context, id identity.Identity) error
	SetSelected(ctx context.Context, id identity.Identity, itemIDs []uuid.UUID, selected bool) error
	ValidateCart(ctx context.Context, id identity.Identity) (*types.ValidationResult, error)
}

type cartService struct {
	log       *logger.Logger
	txRunner  repos.TxRunner
	cartRepo  cartrepo.CartRepo
	itemRepo  cartrepo.CartItemRepo
	products  catalogrepo.ProductRepo
	validator CartValidationService
}

func NewCartService(
	log *logger.Logger,
	txRunner repos.TxRunner,
	cartRepo cartrepo.CartRepo,
	itemRepo cartrepo.CartItemRepo,
	products catalogrepo.ProductRepo,
	validator CartValidationService,
) CartService {
	return &cartService{
		log:       log.With("service", "CartService"),
		txRunner:  txRunner,
		cartRepo:  cartRepo,
		itemRepo:  itemRepo,
		products:  products,
		validator: validator,
	}
}

func (cs *cartService) GetCart(ctx context.Context, id identity.Identity) ([]*types.CartItem, error) {
	if id.Zero() {
		return nil, apierr.Unauthorized("identity_unresolved", fmt.Errorf("no identity on request"))
	}
	cart, err := cs.cartRepo.GetByIdentity(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		return []*types.CartItem{}, nil
	}
	return cs.itemRepo.ListByCartID(ctx, nil, cart.ID)
}

func (cs *cartService) AddItem(ctx context.Context, id identity.Identity, input AddItemInput) (*types.CartItem, error) {
	if id.Zero() {
		return nil, apierr.Unauthorized("identity_unresolved", fmt.Errorf("no identity on request"))
	}
	if input.Quantity <= 0 {
		return nil, apierr.Validation("invalid_quantity", fmt.Errorf("quantity must be positive, got %d", input.Quantity))
	}
	if input.ProductID == uuid.Nil {
		return nil, apierr.Validation("invalid_product", fmt.Errorf("product id required"))
	}

	product, err := cs.products.GetByID(ctx, nil, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, apierr.NotFound("product_not_found", fmt.Errorf("product %s not found", input.ProductID))
	}
	if !product.IsActive {
		return nil, apierr.Validation("product_unavailable", fmt.Errorf("product %s is not active", input.ProductID))
	}

	selKey := domaincart.NormalizeSelections(input.VariantSelections)
	unitPrice := product.Price
	stock := product.Stock
	sku := product.SKU
	if selKey != "" {
		variant := matchVariant(product, selKey)
		if variant == nil {
			return nil, apierr.Validation("variant_unavailable", fmt.Errorf("no variant matches selection"))
		}
		unitPrice = variant.Price
		stock = variant.Stock
		sku = variant.SKU
	}

	var line *types.CartItem
	err = cs.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		cart, err := cs.cartRepo.GetByIdentityForUpdate(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if cart == nil {
			cart = newCartFor(id)
			if cart, err = cs.cartRepo.Create(dbc.Ctx, dbc.Tx, cart); err != nil {
				return fmt.Errorf("create cart: %w", err)
			}
		}

		existing, err := cs.itemRepo.FindLine(dbc.Ctx, dbc.Tx, cart.ID, input.ProductID, selKey)
		if err != nil {
			return fmt.Errorf("find line: %w", err)
		}
		now := time.Now()
		if existing != nil {
			existing.Quantity += input.Quantity
			existing.UnitPrice = unitPrice
			existing.StockSnapshot = stock
			existing.ProductName = product.Name
			existing.SKU = sku
			existing.ThumbnailURL = product.ImageURL
			existing.UpdatedAt = now
			if err := cs.itemRepo.Update(dbc.Ctx, dbc.Tx, existing); err != nil {
				return fmt.Errorf("accumulate line: %w", err)
			}
			line = existing
		} else {
			created, err := cs.itemRepo.Create(dbc.Ctx, dbc.Tx, &types.CartItem{
				CartID:            cart.ID,
				ProductID:         input.ProductID,
				VariantSelections: datatypes.JSONMap(input.VariantSelections),
				SelectionKey:      selKey,
				Quantity:          input.Quantity,
				UnitPrice:         unitPrice,
				StockSnapshot:     stock,
				ProductName:       product.Name,
				SKU:               sku,
				ThumbnailURL:      product.ImageURL,
				Selected:          true,
				AddedAt:           now,
				UpdatedAt:         now,
			})
			if err != nil {
				return fmt.Errorf("create line: %w", err)
			}
			line = created
		}
		return cs.cartRepo.Touch(dbc.Ctx, dbc.Tx, cart.ID, now)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (cs *cartService) UpdateQuantity(ctx context.Context, id identity.Identity, itemID uuid.UUID, quantity int) error {
	if id.Zero() {
		return apierr.Unauthorized("identity_unresolved", fmt.Errorf("no identity on request"))
	}
	return cs.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		cart, err := cs.cartRepo.GetByIdentityForUpdate(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if cart == nil {
			return apierr.NotFound("cart_item_not_found", fmt.Errorf("no cart for identity"))
		}
		item, err := cs.itemRepo.GetByID(dbc.Ctx, dbc.Tx, cart.ID, itemID)
		if err != nil {
			return fmt.Errorf("load line: %w", err)
		}
		if item == nil {
			return apierr.NotFound("cart_item_not_found", fmt.Errorf("line %s not in cart", itemID))
		}
		if quantity <= 0 {
			if err := cs.itemRepo.Delete(dbc.Ctx, dbc.Tx, cart.ID, itemID); err != nil {
				return fmt.Errorf("remove line: %w", err)
			}
		} else if err := cs.itemRepo.UpdateQuantity(dbc.Ctx, dbc.Tx, itemID, quantity); err != nil {
			return fmt.Errorf("update quantity: %w", err)
		}
		return cs.cartRepo.Touch(dbc.Ctx, dbc.Tx, cart.ID, time.Now())
	})
}

func (cs *cartService) RemoveItem(ctx context.Context, id identity.Identity, itemID uuid.UUID) error {
	if id.Zero() {
		return apierr.Unauthorized("identity_unresolved", fmt.Errorf("no identity on request"))
	}
	return cs.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		cart, err := cs.cartRepo.GetByIdentityForUpdate(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if cart == nil {
			return apierr.NotFound("cart_item_not_found", fmt.Errorf("no cart for identity"))
		}
		item, err := cs.itemRepo.GetByID(dbc.Ctx, dbc.Tx, cart.ID, itemID)
		if err != nil {
			return fmt.Errorf("load line: %w", err)
		}
		if item == nil {
			return apierr.NotFound("cart_item_not_found", fmt.Errorf("line %s not in cart", itemID))
		}
		if err := cs.itemRepo.Delete(dbc.Ctx, dbc.Tx, cart.ID, itemID); err != nil {
			return fmt.Errorf("remove line: %w", err)
		}
		return cs.cartRepo.Touch(dbc.Ctx, dbc.Tx, cart.ID, time.Now())
	})
}

func (cs *cartService) ClearCart(ctx context.Context, id identity.Identity) error {
	if id.Zero() {
		return apierr.Unauthorized("identity_unresolved", fmt.Errorf("no identity on request"))
	}
	return cs.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		cart, err := cs.cartRepo.GetByIdentityForUpdate(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if cart == nil {
			return nil
		}
		if err := cs.itemRepo.DeleteByCartID(dbc.Ctx, dbc.Tx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return cs.cartRepo.Touch(dbc.Ctx, dbc.Tx, cart.ID, time.Now())
	})
}

func (cs *cartService) SetSelected(ctx context.Context, id identity.Identity, itemIDs []uuid.UUID, selected bool) error {
	if id.Zero() {
		return apierr.Unauthorized("identity_unresolved", fmt.Errorf("no identity on request"))
	}
	return cs.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		cart, err := cs.cartRepo.GetByIdentityForUpdate(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if cart == nil {
			return apierr.NotFound("cart_item_not_found", fmt.Errorf("no cart for identity"))
		}
		if err := cs.itemRepo.SetSelected(dbc.Ctx, dbc.Tx, cart.ID, itemIDs, selected); err != nil {
			return fmt.Errorf("set selected: %w", err)
		}
		return cs.cartRepo.Touch(dbc.Ctx, dbc.Tx, cart.ID, time.Now())
	})
}

// ValidateCart is advisory: it reports what checkout would reject right now,
// without mutating the cart.
func (cs *cartService) ValidateCart(ctx context.Context, id identity.Identity) (*types.ValidationResult, error) {
	if id.Zero() {
		return nil, apierr.Unauthorized("identity_unresolved", fmt.Errorf("no identity on request"))
	}
	cart, err := cs.cartRepo.GetByIdentity(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		return &types.ValidationResult{Valid: true, Issues: []types.ValidationIssue{}}, nil
	}
	items, err := cs.itemRepo.ListByCartID(ctx, nil, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	return cs.validator.Validate(dbctx.Context{Ctx: ctx}, items)
}

func newCartFor(id identity.Identity) *types.Cart {
	cart := &types.Cart{LastActivityAt: time.Now()}
	if id.IsUser() {
		uid := id.UserID
		cart.UserID = &uid
	} else {
		sid := id.SessionID
		cart.SessionID = &sid
	}
	return cart
}

func matchVariant(product *types.Product, selectionKey string) *types.ProductVariant {
	for i := range product.Variants {
		v := &product.Variants[i]
		if v.IsActive && v.SelectionKey == selectionKey {
			return v
		}
	}
	return nil
}

package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type CartItemRepo interface {
	ListByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*types.CartItem, error)
	ListSelectedByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*types.CartItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, cartID, itemID uuid.UUID) (*types.CartItem, error)
	// FindLine locates a line by its identity (productID, selectionKey).
	FindLine(ctx context.Context, tx *gorm.DB, cartID, productID uuid.UUID, selectionKey string) (*types.CartItem, error)
	Create(ctx context.Context, tx *gorm.DB, item *types.CartItem) (*types.CartItem, error)
	Update(ctx context.Context, tx *gorm.DB, item *types.CartItem) error
	UpdateQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error
	SetSelected(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, itemIDs []uuid.UUID, selected bool) error
	MoveToCart(ctx context.Context, tx *gorm.DB, itemID, targetCartID uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, cartID, itemID uuid.UUID) error
	DeleteByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, itemIDs []uuid.UUID) error
}

type cartItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartItemRepo(db *gorm.DB, baseLog *logger.Logger) CartItemRepo {
	return &cartItemRepo{db: db, log: baseLog.With("repo", "CartItemRepo")}
}

func (r *cartItemRepo) ListByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CartItem
	if err := transaction.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("added_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *cartItemRepo) ListSelectedByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CartItem
	if err := transaction.WithContext(ctx).
		Where("cart_id = ? AND selected = ?", cartID, true).
		Order("added_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *cartItemRepo) GetByID(ctx context.Context, tx *gorm.DB, cartID, itemID uuid.UUID) (*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.CartItem
	if err := transaction.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *cartItemRepo) FindLine(ctx context.Context, tx *gorm.DB, cartID, productID uuid.UUID, selectionKey string) (*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.CartItem
	if err := transaction.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND selection_key = ?", cartID, productID, selectionKey).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *cartItemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.CartItem) (*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *cartItemRepo) Update(ctx context.Context, tx *gorm.DB, item *types.CartItem) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(item).Error
}

func (r *cartItemRepo) UpdateQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *cartItemRepo) SetSelected(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, itemIDs []uuid.UUID, selected bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.CartItem{}).
		Where("cart_id = ?", cartID)
	if len(itemIDs) > 0 {
		q = q.Where("id IN ?", itemIDs)
	}
	return q.Update("selected", selected).Error
}

func (r *cartItemRepo) MoveToCart(ctx context.Context, tx *gorm.DB, itemID, targetCartID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CartItem{}).
		Where("id = ?", itemID).
		Update("cart_id", targetCartID).Error
}

func (r *cartItemRepo) Delete(ctx context.Context, tx *gorm.DB, cartID, itemID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&types.CartItem{}).Error
}

func (r *cartItemRepo) DeleteByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&types.CartItem{}).Error
}

func (r *cartItemRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, itemIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(itemIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("cart_id = ? AND id IN ?", cartID, itemIDs).
		Delete(&types.CartItem{}).Error
}

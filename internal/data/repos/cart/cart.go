package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/domain/identity"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type CartRepo interface {
	GetByIdentity(ctx context.Context, tx *gorm.DB, id identity.Identity) (*types.Cart, error)
	// GetByIdentityForUpdate takes a row lock on the cart so merge and
	// checkout do not race concurrent mutations of the same cart.
	GetByIdentityForUpdate(ctx context.Context, tx *gorm.DB, id identity.Identity) (*types.Cart, error)
	Create(ctx context.Context, tx *gorm.DB, c *types.Cart) (*types.Cart, error)
	Touch(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, at time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
}

type cartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo {
	return &cartRepo{db: db, log: baseLog.With("repo", "CartRepo")}
}

func ownerScope(q *gorm.DB, id identity.Identity) *gorm.DB {
	if id.IsUser() {
		return q.Where("user_id = ?", id.UserID)
	}
	return q.Where("session_id = ?", id.SessionID)
}

func (cr *cartRepo) GetByIdentity(ctx context.Context, tx *gorm.DB, id identity.Identity) (*types.Cart, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Cart
	if err := ownerScope(transaction.WithContext(ctx), id).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (cr *cartRepo) GetByIdentityForUpdate(ctx context.Context, tx *gorm.DB, id identity.Identity) (*types.Cart, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Cart
	if err := ownerScope(transaction.WithContext(ctx), id).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (cr *cartRepo) Create(ctx context.Context, tx *gorm.DB, c *types.Cart) (*types.Cart, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (cr *cartRepo) Touch(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Cart{}).
		Where("id = ?", cartID).
		Update("last_activity_at", at).Error
}

func (cr *cartRepo) Delete(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", cartID).
		Delete(&types.Cart{}).Error
}

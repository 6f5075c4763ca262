package address

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

// AddressRepo is ownership-scoped: lookups always filter by user_id so a
// miss for the wrong owner reads the same as a miss for a missing row.
type AddressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, a *types.Address) (*types.Address, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, addressID, userID uuid.UUID) (*types.Address, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Address, error)
	Update(ctx context.Context, tx *gorm.DB, a *types.Address) error
	Delete(ctx context.Context, tx *gorm.DB, addressID, userID uuid.UUID) error
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	UnsetDefaults(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	SetDefault(ctx context.Context, tx *gorm.DB, addressID, userID uuid.UUID) error
	// MostRecent returns the newest remaining address, used to promote a
	// survivor when the default is deleted.
	MostRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Address, error)
}

type addressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return &addressRepo{db: db, log: baseLog.With("repo", "AddressRepo")}
}

func (ar *addressRepo) Create(ctx context.Context, tx *gorm.DB, a *types.Address) (*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (ar *addressRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, addressID, userID uuid.UUID) (*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Address
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ar *addressRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Address
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *addressRepo) Update(ctx context.Context, tx *gorm.DB, a *types.Address) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(a).Error
}

func (ar *addressRepo) Delete(ctx context.Context, tx *gorm.DB, addressID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&types.Address{}).Error
}

func (ar *addressRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Address{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ar *addressRepo) UnsetDefaults(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func (ar *addressRepo) SetDefault(ctx context.Context, tx *gorm.DB, addressID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Update("is_default", true).Error
}

func (ar *addressRepo) MostRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Address
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

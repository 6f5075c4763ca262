package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a user-managed shipping address. At most one address per user
// carries IsDefault; once the user has any address, exactly one is default.
// The default swap always happens inside the same transaction as the
// triggering mutation.
type Address struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Label       string    `gorm:"column:label" json:"label"`
	Recipient   string    `gorm:"not null;column:recipient" json:"recipient"`
	Phone       string    `gorm:"not null;column:phone" json:"phone"`
	FullAddress string    `gorm:"type:text;not null;column:full_address" json:"full_address"`
	Village     string    `gorm:"column:village" json:"village"`
	District    string    `gorm:"column:district" json:"district"`
	City        string    `gorm:"not null;column:city" json:"city"`
	Province    string    `gorm:"not null;column:province" json:"province"`
	PostalCode  string    `gorm:"column:postal_code" json:"postal_code"`
	Country     string    `gorm:"not null;default:'ID';column:country" json:"country"`
	IsDefault   bool      `gorm:"not null;default:false;column:is_default" json:"is_default"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Address) TableName() string { return "address" }

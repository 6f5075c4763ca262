package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is the live catalog record the cart validates against. Prices are
// rupiah, stored as whole int64 amounts.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	SKU         string    `gorm:"column:sku" json:"sku"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	Price       int64     `gorm:"not null;column:price" json:"price"`
	Stock       int       `gorm:"not null;default:0;column:stock" json:"stock"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`
	IsActive    bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }

// ProductVariant is one sellable combination of options (e.g. color=black,
// size=m) with its own price and stock. SelectionKey is the normalized form
// of Selections and is what cart lines match against.
type ProductVariant struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProductID    uuid.UUID         `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	SKU          string            `gorm:"column:sku" json:"sku"`
	Selections   datatypes.JSONMap `gorm:"type:jsonb;not null;column:selections" json:"selections"`
	SelectionKey string            `gorm:"not null;index;column:selection_key" json:"selection_key"`
	Price        int64             `gorm:"not null;column:price" json:"price"`
	Stock        int               `gorm:"not null;default:0;column:stock" json:"stock"`
	IsActive     bool              `gorm:"not null;default:true;column:is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProductVariant) TableName() string { return "product_variant" }

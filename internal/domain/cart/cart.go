package cart

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Cart is owned by exactly one identity: UserID xor SessionID. The partial
// unique indexes keep a row from ever resolving under both keys, and one
// cart per key.
type Cart struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         *uuid.UUID `gorm:"type:uuid;uniqueIndex;column:user_id" json:"user_id,omitempty"`
	SessionID      *string    `gorm:"uniqueIndex;column:session_id" json:"session_id,omitempty"`
	LastActivityAt time.Time  `gorm:"not null;default:now();column:last_activity_at" json:"last_activity_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Cart) TableName() string { return "cart" }

// CartItem is one cart line. Line identity is (ProductID, SelectionKey);
// price and stock are snapshots captured at add time, refreshed when the
// same line is added again.
type CartItem struct {
	ID                uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CartID            uuid.UUID         `gorm:"type:uuid;not null;index;column:cart_id" json:"cart_id"`
	ProductID         uuid.UUID         `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	VariantSelections datatypes.JSONMap `gorm:"type:jsonb;column:variant_selections" json:"variant_selections"`
	SelectionKey      string            `gorm:"not null;default:'';index;column:selection_key" json:"-"`
	Quantity          int               `gorm:"not null;column:quantity" json:"quantity"`
	UnitPrice         int64             `gorm:"not null;column:unit_price" json:"unit_price"`
	StockSnapshot     int               `gorm:"not null;default:0;column:stock_snapshot" json:"stock_snapshot"`
	ProductName       string            `gorm:"not null;column:product_name" json:"product_name"`
	SKU               string            `gorm:"column:sku" json:"sku"`
	ThumbnailURL      string            `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	Selected          bool              `gorm:"not null;default:true;column:selected" json:"selected"`

	AddedAt   time.Time `gorm:"not null;default:now();column:added_at" json:"added_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CartItem) TableName() string { return "cart_item" }

// NormalizeSelections flattens a variant-selection map into a canonical
// key: lowercase, sorted by option name, "k=v" pairs joined by ";". Two adds
// with maps that differ only in key order or case land on the same line.
func NormalizeSelections(selections map[string]interface{}) string {
	if len(selections) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(selections))
	for k, v := range selections {
		key := strings.ToLower(strings.TrimSpace(k))
		val := strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
		if key == "" || val == "" {
			continue
		}
		pairs = append(pairs, key+"="+val)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ";")
}

package order

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderStatus follows pending → processing → shipped → delivered, with
// cancelled/refunded reachable from any non-terminal state. This core only
// creates orders as pending; transitions are driven by fulfillment events.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

// PaymentStatus transitions pending → paid | failed, refunded from paid.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is immutable once created. Customer and shipping address are
// snapshots, not live foreign keys; the items are snapshots of the cart
// lines at purchase time.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderNumber string    `gorm:"uniqueIndex;not null;column:order_number" json:"order_number"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`

	CustomerName  string `gorm:"not null;column:customer_name" json:"customer_name"`
	CustomerEmail string `gorm:"not null;column:customer_email" json:"customer_email"`
	CustomerPhone string `gorm:"column:customer_phone" json:"customer_phone"`

	ShippingAddress datatypes.JSON `gorm:"type:jsonb;not null;column:shipping_address" json:"shipping_address"`

	Subtotal     int64  `gorm:"not null;column:subtotal" json:"subtotal"`
	ShippingCost int64  `gorm:"not null;column:shipping_cost" json:"shipping_cost"`
	Total        int64  `gorm:"not null;column:total" json:"total"`
	Currency     string `gorm:"not null;default:'IDR';column:currency" json:"currency"`

	OrderStatus   OrderStatus   `gorm:"not null;default:'pending';column:order_status" json:"order_status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'pending';column:payment_status" json:"payment_status"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Order) TableName() string { return "order" }

// OrderItem is the frozen copy of one cart line at purchase time; it is
// never recomputed from live product data.
type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index;column:order_id" json:"order_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;column:product_id" json:"product_id"`
	ProductName string    `gorm:"not null;column:product_name" json:"product_name"`
	SKU         string    `gorm:"column:sku" json:"sku"`
	UnitPrice   int64     `gorm:"not null;column:unit_price" json:"unit_price"`
	Quantity    int       `gorm:"not null;column:quantity" json:"quantity"`
	Subtotal    int64     `gorm:"not null;column:subtotal" json:"subtotal"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`

	VariantSelections datatypes.JSONMap `gorm:"type:jsonb;column:variant_selections" json:"variant_selections"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_item" }

// ShippingSnapshot is the serialized form persisted onto the order.
type ShippingSnapshot struct {
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	Label       string `json:"label,omitempty"`
	FullAddress string `json:"full_address"`
	Village     string `json:"village,omitempty"`
	District    string `json:"district,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostalCode  string `json:"postal_code,omitempty"`
	Country     string `json:"country"`
}

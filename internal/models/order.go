/**
 * @description
 * Order and OrderItem database models.
 * Map to the 'orders' and 'order_items' tables in PostgreSQL.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 * - github.com/shopspring/decimal
 *
 * @notes
 * - OrderItem.Price snapshots the product price at order time, so later
 *   product edits do not change historical totals.
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus defines the state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the accepted order states
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a stock-deducting purchase of one or more products
type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_user" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"type:varchar(16);default:'pending';index:idx_orders_status" json:"status"`
	OrderDate   time.Time       `gorm:"column:order_date;autoCreateTime" json:"order_date"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName overrides the table name used by Order to `orders`
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate ensures UUID is generated if not present
func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// OrderItem is one product line within an order
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_items_order" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`

	// Associations
	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

// TableName overrides the table name used by OrderItem to `order_items`
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate ensures UUID is generated if not present
func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

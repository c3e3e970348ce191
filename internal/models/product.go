/**
 * @description
 * Product database model.
 * Maps to the 'products' table in PostgreSQL.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 * - github.com/shopspring/decimal
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a fixed-price marketplace listing
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	ImageURL    string          `gorm:"column:image_url" json:"image_url"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null;index:idx_products_creator" json:"created_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Creator User `gorm:"foreignKey:CreatedBy" json:"-"`
}

// TableName overrides the table name used by Product to `products`
func (Product) TableName() string {
	return "products"
}

// BeforeCreate ensures UUID is generated if not present
func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

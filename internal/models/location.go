/**
 * @description
 * Location database model.
 * Maps to the 'locations' table in PostgreSQL.
 * Name and DetailAddress come from reverse geocoding at creation time.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a geocoded point auctions can reference
type Location struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Latitude      float64   `gorm:"type:numeric(9,6);not null" json:"latitude"`
	Longitude     float64   `gorm:"type:numeric(9,6);not null" json:"longitude"`
	DetailAddress string    `gorm:"column:detail_address" json:"detail_address"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName overrides the table name used by Location to `locations`
func (Location) TableName() string {
	return "locations"
}

// BeforeCreate ensures UUID is generated if not present
func (l *Location) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

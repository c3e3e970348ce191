/**
 * @description
 * RoleChangeRequest database model.
 * Maps to the 'role_change_requests' table in PostgreSQL.
 * Tracks buyer -> seller promotion requests reviewed by admins.
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

// RoleChangeStatus is the review state of a promotion request
type RoleChangeStatus string

const (
	RoleChangePending  RoleChangeStatus = "pending"
	RoleChangeApproved RoleChangeStatus = "approved"
	RoleChangeRejected RoleChangeStatus = "rejected"
)

// RoleChangeRequest is a buyer's request to become a seller
type RoleChangeRequest struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_role_requests_user" json:"user_id"`
	Reason      string           `json:"reason"`
	Status      RoleChangeStatus `gorm:"type:varchar(16);default:'pending'" json:"status"`
	RequestedAt time.Time        `gorm:"column:requested_at;autoCreateTime" json:"requested_at"`
	ReviewedAt  *time.Time       `gorm:"column:reviewed_at" json:"reviewed_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name used by RoleChangeRequest to `role_change_requests`
func (RoleChangeRequest) TableName() string {
	return "role_change_requests"
}

// BeforeCreate ensures UUID is generated if not present
func (r *RoleChangeRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

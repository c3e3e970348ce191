/**
 * @description
 * User and profile database models.
 * Map to the 'users' and 'user_profiles' tables in PostgreSQL.
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

// Role controls what a user may do. Sellers can create auctions and
// products; admins review role-change requests.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// User represents a registered user in the system
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Phone        string    `gorm:"uniqueIndex;not null" json:"phone"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(16);default:'buyer'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides the table name used by User to `users`
func (User) TableName() string {
	return "users"
}

// BeforeCreate ensures UUID is generated if not present (though DB usually handles this)
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// UserProfile holds the optional profile data created alongside a user
type UserProfile struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Address        string    `json:"address"`
	ProfilePicture string    `gorm:"column:profile_picture" json:"profile_picture"`
	Bio            string    `json:"bio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name used by UserProfile to `user_profiles`
func (UserProfile) TableName() string {
	return "user_profiles"
}

// BeforeCreate ensures UUID is generated if not present
func (p *UserProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

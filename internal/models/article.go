/**
 * @description
 * Article database model.
 * Maps to the 'articles' table in PostgreSQL.
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

// Article is an editorial post written by a user
type Article struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Title    string    `gorm:"not null" json:"title"`
	Content  string    `gorm:"not null" json:"content"`
	ImageURL string    `gorm:"column:image_url" json:"image_url"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index:idx_articles_author" json:"author_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName overrides the table name used by Article to `articles`
func (Article) TableName() string {
	return "articles"
}

// BeforeCreate ensures UUID is generated if not present
func (a *Article) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

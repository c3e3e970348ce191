/**
 * @description
 * Chat and Message database models.
 * Map to the 'chats' and 'messages' tables in PostgreSQL.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 *
 * @notes
 * - A chat is a unique pair of users; User1ID sorts before User2ID so a
 *   pair always maps to the same row regardless of who messaged first.
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is a direct-message conversation between two users
type Chat struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	User1ID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_pair" json:"user1_id"`
	User2ID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_pair" json:"user2_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName overrides the table name used by Chat to `chats`
func (Chat) TableName() string {
	return "chats"
}

// BeforeCreate ensures UUID is generated if not present
func (c *Chat) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// OrderedPair returns the two user ids in canonical (sorted) order.
func OrderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}

// Message is a single message inside a chat
type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ChatID   uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_chat" json:"chat_id"`
	SenderID uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Body     string    `gorm:"column:message;not null" json:"message"`
	SentAt   time.Time `gorm:"column:sent_at;autoCreateTime" json:"sent_at"`

	// Associations
	Chat   Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	Sender User `gorm:"foreignKey:SenderID" json:"-"`
}

// TableName overrides the table name used by Message to `messages`
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate ensures UUID is generated if not present
func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

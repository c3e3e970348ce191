/**
 * @description
 * Auction and Bid database models.
 * Map to the 'auctions' and 'bids' tables in PostgreSQL.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 * - github.com/shopspring/decimal
 *
 * @notes
 * - CurrentPrice always equals the highest admitted bid amount, or
 *   StartingPrice when no bids exist.
 * - Status only ever moves open -> closed.
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AuctionStatus is the lifecycle state of an auction
type AuctionStatus string

const (
	AuctionOpen   AuctionStatus = "open"
	AuctionClosed AuctionStatus = "closed"
)

// Auction represents a time-boxed listing open for competitive bidding
type Auction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OwnerID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_auctions_owner" json:"owner_id"`
	Title         string          `gorm:"not null" json:"title"`
	Description   string          `json:"description"`
	StartingPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"starting_price"`
	CurrentPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"current_price"`
	Deadline      time.Time       `gorm:"not null;index:idx_auctions_deadline" json:"deadline"`
	Status        AuctionStatus   `gorm:"type:varchar(8);default:'open';index:idx_auctions_status" json:"status"`
	WinnerID      *uuid.UUID      `gorm:"type:uuid" json:"winner_id"`
	LocationID    *uuid.UUID      `gorm:"type:uuid" json:"location_id"`
	ImageURL      string          `gorm:"column:image_url" json:"image_url"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Owner    User      `gorm:"foreignKey:OwnerID" json:"-"`
	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

// TableName overrides the table name used by Auction to `auctions`
func (Auction) TableName() string {
	return "auctions"
}

// BeforeCreate ensures UUID is generated if not present
func (a *Auction) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// Bid represents a single admitted bid. Bids are immutable once written.
type Bid struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AuctionID uuid.UUID       `gorm:"type:uuid;not null;index:idx_bids_auction" json:"auction_id"`
	BidderID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_bids_bidder" json:"bidder_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	PlacedAt  time.Time       `gorm:"column:placed_at;autoCreateTime" json:"placed_at"`

	// Associations
	Auction Auction `gorm:"foreignKey:AuctionID;constraint:OnDelete:CASCADE" json:"-"`
	Bidder  User    `gorm:"foreignKey:BidderID" json:"-"`
}

// TableName overrides the table name used by Bid to `bids`
func (Bid) TableName() string {
	return "bids"
}

// BeforeCreate ensures UUID is generated if not present
func (b *Bid) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

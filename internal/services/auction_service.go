/**
 * @description
 * Service for the auction lifecycle: create, bid admission, closing
 * (manual and expiry-triggered) and winner determination.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 * - github.com/redis/go-redis/v9 (bid event publishing)
 *
 * @notes
 * - Bid admission, manual close and the expiry sweep all take a row-level
 *   FOR UPDATE lock on the auction inside a transaction. The read of
 *   current_price, the comparison, the bid insert and the price update are
 *   therefore serialized per auction; operations on different auctions do
 *   not contend.
 * - Winner = highest amount, ties broken by earliest placed_at. Closing an
 *   already-closed auction is a no-op.
 */

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuctionService struct {
	DB    *gorm.DB
	Redis *redis.Client // optional; nil disables bid event publishing
}

func NewAuctionService(db *gorm.DB, rdb *redis.Client) *AuctionService {
	return &AuctionService{DB: db, Redis: rdb}
}

// CreateAuctionInput carries the validated fields for a new auction
type CreateAuctionInput struct {
	Title         string
	Description   string
	StartingPrice decimal.Decimal
	Deadline      time.Time
	LocationID    uuid.UUID
	ImageURL      string
}

func (in *CreateAuctionInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if !in.StartingPrice.IsPositive() {
		return fmt.Errorf("%w: starting price must be positive", ErrValidation)
	}
	if in.Deadline.IsZero() {
		return fmt.Errorf("%w: deadline is required", ErrValidation)
	}
	if in.LocationID == uuid.Nil {
		return fmt.Errorf("%w: location_id is required", ErrValidation)
	}
	return nil
}

// CreateAuction inserts a new open auction owned by ownerID.
// Only sellers may create auctions.
func (s *AuctionService) CreateAuction(ctx context.Context, ownerID uuid.UUID, in CreateAuctionInput) (*models.Auction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var owner models.User
	if err := s.DB.WithContext(ctx).First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	if owner.Role != models.RoleSeller {
		return nil, fmt.Errorf("%w: only sellers can create auctions", ErrForbidden)
	}

	locationID := in.LocationID
	auction := &models.Auction{
		OwnerID:       ownerID,
		Title:         in.Title,
		Description:   in.Description,
		StartingPrice: in.StartingPrice,
		CurrentPrice:  in.StartingPrice,
		Deadline:      in.Deadline,
		Status:        models.AuctionOpen,
		LocationID:    &locationID,
		ImageURL:      in.ImageURL,
	}

	if err := s.DB.WithContext(ctx).Create(auction).Error; err != nil {
		return nil, err
	}
	logger.Info("Auction created: %s by %s", auction.ID, ownerID)
	return auction, nil
}

// UpdateAuctionInput carries optional replacement fields; nil means keep
type UpdateAuctionInput struct {
	Title         *string
	Description   *string
	StartingPrice *decimal.Decimal
	Deadline      *time.Time
	LocationID    *uuid.UUID
}

// UpdateAuction applies in to an auction owned by callerID.
func (s *AuctionService) UpdateAuction(ctx context.Context, auctionID, callerID uuid.UUID, in UpdateAuctionInput) error {
	if in.StartingPrice != nil && !in.StartingPrice.IsPositive() {
		return fmt.Errorf("%w: starting price must be positive", ErrValidation)
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := lockAuction(tx, auctionID)
		if err != nil {
			return err
		}
		if auction.OwnerID != callerID {
			return fmt.Errorf("%w: not the auction owner", ErrForbidden)
		}

		updates := map[string]interface{}{}
		if in.Title != nil {
			updates["title"] = *in.Title
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.StartingPrice != nil {
			updates["starting_price"] = *in.StartingPrice
		}
		if in.Deadline != nil {
			updates["deadline"] = *in.Deadline
		}
		if in.LocationID != nil {
			updates["location_id"] = *in.LocationID
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Auction{}).Where("id = ?", auctionID).Updates(updates).Error
	})
}

// DeleteAuction removes an auction and its bids in one transaction so no
// bid can outlive its auction.
func (s *AuctionService) DeleteAuction(ctx context.Context, auctionID, callerID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := lockAuction(tx, auctionID)
		if err != nil {
			return err
		}
		if auction.OwnerID != callerID {
			return fmt.Errorf("%w: not the auction owner", ErrForbidden)
		}
		if err := tx.Where("auction_id = ?", auctionID).Delete(&models.Bid{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Auction{}, "id = ?", auctionID).Error
	})
}

// PlaceBid admits a bid if the auction is open and amount strictly exceeds
// the current price. The check and the writes run under the auction row lock.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*models.Bid, error) {
	var bid *models.Bid
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := lockAuction(tx, auctionID)
		if err != nil {
			return err
		}
		if auction.Status != models.AuctionOpen {
			return ErrAuctionClosed
		}
		if amount.Cmp(auction.CurrentPrice) <= 0 {
			return fmt.Errorf("%w (%s)", ErrBidTooLow, auction.CurrentPrice.String())
		}

		bid = &models.Bid{
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			PlacedAt:  time.Now(),
		}
		if err := tx.Create(bid).Error; err != nil {
			return err
		}
		return tx.Model(&models.Auction{}).Where("id = ?", auctionID).
			Update("current_price", amount).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishBidEvent(ctx, bid)
	return bid, nil
}

// CloseAuction closes an auction on behalf of its owner and returns the
// winning bidder id, if any. Closing an already-closed auction is a no-op
// that returns the recorded winner.
func (s *AuctionService) CloseAuction(ctx context.Context, auctionID, callerID uuid.UUID) (*uuid.UUID, error) {
	var winnerID *uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := lockAuction(tx, auctionID)
		if err != nil {
			return err
		}
		if auction.OwnerID != callerID {
			return fmt.Errorf("%w: not the auction owner", ErrForbidden)
		}
		if auction.Status == models.AuctionClosed {
			winnerID = auction.WinnerID
			return nil
		}
		winnerID, err = closeLocked(tx, auction)
		return err
	})
	if err != nil {
		return nil, err
	}
	return winnerID, nil
}

// CloseExpired closes every open auction whose deadline has passed.
// Each auction is handled in its own transaction so one failure does not
// abort the rest. Returns the number of auctions closed.
func (s *AuctionService) CloseExpired(ctx context.Context) (int, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).Model(&models.Auction{}).
		Where("status = ? AND deadline < ?", models.AuctionOpen, time.Now()).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, id := range ids {
		if err := s.closeExpiredOne(ctx, id); err != nil {
			logger.Error("Failed to close expired auction %s: %v", id, err)
			continue
		}
		closed++
	}
	return closed, nil
}

func (s *AuctionService) closeExpiredOne(ctx context.Context, auctionID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := lockAuction(tx, auctionID)
		if err != nil {
			return err
		}
		// A concurrent manual close or sweep may have won the lock first.
		if auction.Status != models.AuctionOpen || auction.Deadline.After(time.Now()) {
			return nil
		}
		_, err = closeLocked(tx, auction)
		return err
	})
}

// lockAuction loads the auction row under FOR UPDATE, serializing all
// lifecycle operations for that auction within the enclosing transaction.
func lockAuction(tx *gorm.DB, auctionID uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&auction, "id = ?", auctionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: auction", ErrNotFound)
		}
		return nil, err
	}
	return &auction, nil
}

// closeLocked determines the winner and flips status while the auction row
// lock is held, so no bid can slip in between the scan and the flip.
func closeLocked(tx *gorm.DB, auction *models.Auction) (*uuid.UUID, error) {
	var bids []models.Bid
	if err := tx.Where("auction_id = ?", auction.ID).Find(&bids).Error; err != nil {
		return nil, err
	}

	var winnerID *uuid.UUID
	if top := pickWinner(bids); top != nil {
		id := top.BidderID
		winnerID = &id
	}

	err := tx.Model(&models.Auction{}).Where("id = ?", auction.ID).
		Updates(map[string]interface{}{
			"status":    models.AuctionClosed,
			"winner_id": winnerID,
		}).Error
	if err != nil {
		return nil, err
	}
	logger.Info("Auction closed: %s winner=%v", auction.ID, winnerID)
	return winnerID, nil
}

// pickWinner returns the bid with the highest amount, ties broken by the
// earliest placed_at. Returns nil for an empty slice.
func pickWinner(bids []models.Bid) *models.Bid {
	var top *models.Bid
	for i := range bids {
		b := &bids[i]
		if top == nil {
			top = b
			continue
		}
		switch b.Amount.Cmp(top.Amount) {
		case 1:
			top = b
		case 0:
			if b.PlacedAt.Before(top.PlacedAt) {
				top = b
			}
		}
	}
	return top
}

func (s *AuctionService) publishBidEvent(ctx context.Context, bid *models.Bid) {
	if s.Redis == nil {
		return
	}
	event := BidEvent{
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount.String(),
		PlacedAt:  bid.PlacedAt,
	}
	if err := PublishBidEvent(ctx, s.Redis, event); err != nil {
		// Delivery is best-effort; the bid itself is already committed.
		logger.Error("Failed to publish bid event for auction %s: %v", bid.AuctionID, err)
	}
}

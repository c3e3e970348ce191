/**
 * @description
 * Bid query API Handlers.
 * Read-side views over admitted bids: the caller's bids across all
 * auctions, per-auction listings ranked by amount, the caller's bids
 * on one auction, and an auction's chronological bid history.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - gorm.io/gorm
 */

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/api/middleware"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"gorm.io/gorm"
)

type BidHandler struct {
	DB *gorm.DB
}

func NewBidHandler(db *gorm.DB) *BidHandler {
	return &BidHandler{DB: db}
}

type auctionBidRow struct {
	models.Bid
	BidderName string `json:"bidder_name"`
}

type userBidRow struct {
	models.Bid
	AuctionTitle string `json:"auction_title"`
}

// ListMyBids returns the caller's bids across all auctions, most recent first
// GET /api/bids
func (h *BidHandler) ListMyBids(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var rows []userBidRow
	err = h.DB.Table("bids").
		Select("bids.*, auctions.title AS auction_title").
		Joins("JOIN auctions ON auctions.id = bids.auction_id").
		Where("bids.bidder_id = ?", userID).
		Order("bids.placed_at DESC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("ListMyBids: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bids"})
	}
	return c.JSON(rows)
}

// ListAuctionBids returns all bids on one auction, highest first
// GET /api/auctions/:id/bids
func (h *BidHandler) ListAuctionBids(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid auction id"})
	}

	var rows []auctionBidRow
	err = h.DB.Table("bids").
		Select("bids.*, users.name AS bidder_name").
		Joins("JOIN users ON users.id = bids.bidder_id").
		Where("bids.auction_id = ?", auctionID).
		Order("bids.amount DESC, bids.placed_at ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("ListAuctionBids: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bids"})
	}
	return c.JSON(rows)
}

// MyAuctionBids returns the caller's bids on one auction, most recent first
// GET /api/auctions/:id/bids/me
func (h *BidHandler) MyAuctionBids(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid auction id"})
	}

	var bids []models.Bid
	err = h.DB.Where("bidder_id = ? AND auction_id = ?", userID, auctionID).
		Order("placed_at DESC").
		Find(&bids).Error
	if err != nil {
		logger.Error("MyAuctionBids: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bids"})
	}
	return c.JSON(bids)
}

// AuctionBidHistory returns every bid on one auction in the order placed,
// with bidder names
// GET /api/auctions/:id/bids/history
func (h *BidHandler) AuctionBidHistory(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid auction id"})
	}

	var rows []auctionBidRow
	err = h.DB.Table("bids").
		Select("bids.*, users.name AS bidder_name").
		Joins("JOIN users ON users.id = bids.bidder_id").
		Where("bids.auction_id = ?", auctionID).
		Order("bids.placed_at ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("AuctionBidHistory: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bid history"})
	}
	return c.JSON(rows)
}

/**
 * @description
 * Auction API Handlers.
 * Exposes the auction lifecycle (create, list, update, delete, close,
 * expiry sweep), bidding, and the live bid SSE stream.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 * - backend/internal/storage
 */

package handlers

import (
	"bufio"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/api/middleware"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"github.com/pasarin-app/backend/internal/services"
	"github.com/pasarin-app/backend/internal/storage"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AuctionHandler struct {
	DB        *gorm.DB
	Service   *services.AuctionService
	Sweeper   *services.Sweeper
	Hub       *services.BidStreamHub
	UploadDir string
}

func NewAuctionHandler(db *gorm.DB, svc *services.AuctionService, sweeper *services.Sweeper, hub *services.BidStreamHub, uploadDir string) *AuctionHandler {
	return &AuctionHandler{
		DB:        db,
		Service:   svc,
		Sweeper:   sweeper,
		Hub:       hub,
		UploadDir: uploadDir,
	}
}

// ListAuctions returns open auctions excluding the caller's own
// GET /api/auctions
func (h *AuctionHandler) ListAuctions(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var auctions []models.Auction
	err = h.DB.Preload("Location").
		Where("status = ? AND owner_id != ?", models.AuctionOpen, userID).
		Order("created_at DESC").
		Find(&auctions).Error
	if err != nil {
		logger.Error("ListAuctions: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch auctions"})
	}

	return c.JSON(auctions)
}

// CreateAuction creates an auction from a multipart form with an optional image
// POST /api/auctions
func (h *AuctionHandler) CreateAuction(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	title := c.FormValue("title")
	description := c.FormValue("description")
	startingPriceStr := c.FormValue("starting_price")
	deadlineStr := c.FormValue("deadline")
	locationIDStr := c.FormValue("location_id")

	if title == "" || description == "" || startingPriceStr == "" || deadlineStr == "" || locationIDStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All required fields must be filled"})
	}

	startingPrice, err := decimal.NewFromString(startingPriceStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "starting_price must be a number"})
	}
	deadline, err := parseDeadline(deadlineStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "deadline must be a valid timestamp"})
	}
	locationID, err := uuid.Parse(locationIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "location_id must be a valid id"})
	}

	imageDir := filepath.Join(h.UploadDir, "auctions")
	imageURL := ""
	filename := ""
	if file, err := c.FormFile("image"); err == nil {
		if !storage.AllowedImage(file.Filename) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File type not allowed"})
		}
		filename, err = storage.Save(file, imageDir)
		if err != nil {
			logger.Error("CreateAuction: failed to store image: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store image"})
		}
		imageURL = c.BaseURL() + "/uploads/auctions/" + filename
	}

	auction, err := h.Service.CreateAuction(c.Context(), userID, services.CreateAuctionInput{
		Title:         title,
		Description:   description,
		StartingPrice: startingPrice,
		Deadline:      deadline,
		LocationID:    locationID,
		ImageURL:      imageURL,
	})
	if err != nil {
		// Keep create + image assignment atomic from the caller's view.
		if filename != "" {
			if rmErr := storage.Remove(imageDir, filename); rmErr != nil {
				logger.Error("CreateAuction: failed to remove orphaned image %s: %v", filename, rmErr)
			}
		}
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Auction created",
		"auction_id": auction.ID,
	})
}

// UpdateAuctionRequest defines optional replacement fields
type UpdateAuctionRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	StartingPrice *decimal.Decimal `json:"starting_price"`
	Deadline      *time.Time       `json:"deadline"`
	LocationID    *uuid.UUID       `json:"location_id"`
}

// UpdateAuction updates fields on an auction owned by the caller
// PUT /api/auctions/:id
func (h *AuctionHandler) UpdateAuction(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid auction id"})
	}

	var req UpdateAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err = h.Service.UpdateAuction(c.Context(), auctionID, userID, services.UpdateAuctionInput{
		Title:         req.Title,
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		Deadline:      req.Deadline,
		LocationID:    req.LocationID,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Auction updated"})
}

// DeleteAuction removes an auction owned by the caller together with its bids
// DELETE /api/auctions/:id
func (h *AuctionHandler) DeleteAuction(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid auction id"})
	}

	if err := h.Service.DeleteAuction(c.Context(), auctionID, userID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Auction deleted"})
}

// CloseAuction closes an auction on behalf of its owner and reports the winner
// POST /api/auctions/:id/close
func (h *AuctionHandler) CloseAuction(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid auction id"})
	}

	winnerID, err := h.Service.CloseAuction(c.Context(), auctionID, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Auction closed", "winner_id": winnerID})
}

// PlaceBidRequest defines the bid payload
type PlaceBidRequest struct {
	BidAmount decimal.Decimal `json:"bid_amount"`
}

// PlaceBid admits a bid on an open auction
// POST /api/auctions/:id/bid
func (h *AuctionHandler) PlaceBid(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid auction id"})
	}

	var req PlaceBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !req.BidAmount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bid_amount is required and must be positive"})
	}

	bid, err := h.Service.PlaceBid(c.Context(), auctionID, userID, req.BidAmount)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Bid placed",
		"bid_amount": bid.Amount,
	})
}

// HighestBid returns the current highest bid with the bidder's name
// GET /api/auctions/:id/highest_bid
func (h *AuctionHandler) HighestBid(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid auction id"})
	}

	var row struct {
		models.Bid
		BidderName string `json:"bidder_name"`
	}
	err = h.DB.Table("bids").
		Select("bids.*, users.name AS bidder_name").
		Joins("JOIN users ON users.id = bids.bidder_id").
		Where("bids.auction_id = ?", auctionID).
		Order("bids.amount DESC, bids.placed_at ASC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		logger.Error("HighestBid: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch highest bid"})
	}
	if row.Bid.ID == uuid.Nil {
		return c.JSON(fiber.Map{"message": "No bids yet"})
	}
	return c.JSON(row)
}

// CloseExpired sweeps every open auction past its deadline.
// Unauthenticated by design: it is the cron-via-HTTP trigger.
// POST /api/auctions/close_expired
func (h *AuctionHandler) CloseExpired(c *fiber.Ctx) error {
	closed, err := h.Sweeper.Run(c.Context())
	if err != nil {
		logger.Error("CloseExpired: sweep failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Sweep failed"})
	}
	return c.JSON(fiber.Map{"message": "Expired auctions closed", "closed": closed})
}

// StreamBids streams admitted bids over SSE
// GET /api/auctions/stream
func (h *AuctionHandler) StreamBids(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	requestCtx := c.Context()
	ch, unsubscribe := h.Hub.Subscribe()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		requestDone := requestCtx.Done()

		for {
			select {
			case <-requestDone:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", msg)
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}

// parseDeadline accepts RFC3339 or a plain "2006-01-02 15:04:05" timestamp.
func parseDeadline(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

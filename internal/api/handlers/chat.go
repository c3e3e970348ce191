/**
 * @description
 * Chat API Handlers.
 * Direct messaging between users. A conversation is keyed by the
 * canonical (sorted) user pair, so either participant resolves the
 * same chat row.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - gorm.io/gorm
 */

package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/api/middleware"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"gorm.io/gorm"
)

type ChatHandler struct {
	DB *gorm.DB
}

func NewChatHandler(db *gorm.DB) *ChatHandler {
	return &ChatHandler{DB: db}
}

// SendMessageRequest defines the payload for sending a message
type SendMessageRequest struct {
	ReceiverPhone string `json:"receiver_phone"`
	Message       string `json:"message"`
}

// conversationView is one row in the caller's conversation list
type conversationView struct {
	ChatID        uuid.UUID  `json:"chat_id"`
	PartnerID     uuid.UUID  `json:"partner_id"`
	PartnerName   string     `json:"partner_name"`
	PartnerPhone  string     `json:"partner_phone"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

// ListConversations returns the caller's chats with partner info and
// the most recent message
// GET /api/chats
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var chats []models.Chat
	err = h.DB.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&chats).Error
	if err != nil {
		logger.Error("ListConversations: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch chats"})
	}

	views := make([]conversationView, 0, len(chats))
	for _, chat := range chats {
		partnerID := chat.User1ID
		if partnerID == userID {
			partnerID = chat.User2ID
		}

		var partner models.User
		if err := h.DB.First(&partner, "id = ?", partnerID).Error; err != nil {
			logger.Warn("ListConversations: missing partner %s: %v", partnerID, err)
			continue
		}

		view := conversationView{
			ChatID:       chat.ID,
			PartnerID:    partnerID,
			PartnerName:  partner.Name,
			PartnerPhone: partner.Phone,
		}

		var last models.Message
		err := h.DB.Where("chat_id = ?", chat.ID).
			Order("sent_at DESC").
			First(&last).Error
		if err == nil {
			view.LastMessage = last.Body
			view.LastMessageAt = &last.SentAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("ListConversations: database error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch chats"})
		}

		views = append(views, view)
	}

	return c.JSON(views)
}

// GetThread returns the full message history with one partner
// GET /api/chats/:partner_id
func (h *ChatHandler) GetThread(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	partnerID, err := uuid.Parse(c.Params("partner_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid partner id"})
	}

	u1, u2 := models.OrderedPair(userID, partnerID)
	var chat models.Chat
	err = h.DB.First(&chat, "user1_id = ? AND user2_id = ?", u1, u2).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON([]models.Message{})
		}
		logger.Error("GetThread: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	var messages []models.Message
	err = h.DB.Where("chat_id = ?", chat.ID).
		Order("sent_at ASC").
		Find(&messages).Error
	if err != nil {
		logger.Error("GetThread: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	return c.JSON(messages)
}

// SendMessage delivers a message to a user addressed by phone number,
// creating the chat row on first contact
// POST /api/chats
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ReceiverPhone == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "receiver_phone and message are required"})
	}

	var receiver models.User
	if err := h.DB.First(&receiver, "phone = ?", req.ReceiverPhone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Recipient not found"})
		}
		logger.Error("SendMessage: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if receiver.ID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot message yourself"})
	}

	var message models.Message
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		u1, u2 := models.OrderedPair(userID, receiver.ID)
		var chat models.Chat
		err := tx.First(&chat, "user1_id = ? AND user2_id = ?", u1, u2).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			chat = models.Chat{User1ID: u1, User2ID: u2}
			err = tx.Create(&chat).Error
		}
		if err != nil {
			return err
		}

		message = models.Message{
			ChatID:   chat.ID,
			SenderID: userID,
			Body:     req.Message,
		}
		return tx.Create(&message).Error
	})
	if err != nil {
		logger.Error("SendMessage: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// SearchUser finds a user by exact phone number for starting a chat
// GET /api/chats/search?phone=...
func (h *ChatHandler) SearchUser(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "phone query parameter is required"})
	}

	var user models.User
	if err := h.DB.First(&user, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		logger.Error("SearchUser: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"phone": user.Phone,
	})
}

/**
 * @description
 * Role-change request API Handlers.
 * Buyers ask to become sellers; admins review the queue. Approval
 * flips the requester's role inside the same transaction as the
 * review record.
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

type RoleChangeHandler struct {
	DB *gorm.DB
}

func NewRoleChangeHandler(db *gorm.DB) *RoleChangeHandler {
	return &RoleChangeHandler{DB: db}
}

// RoleChangeRequestBody defines the payload for a promotion request
type RoleChangeRequestBody struct {
	Reason string `json:"reason"`
}

// RequestRoleChange files a buyer's request to become a seller
// POST /api/role_change_requests
func (h *RoleChangeHandler) RequestRoleChange(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req RoleChangeRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		logger.Error("RequestRoleChange: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if user.Role != models.RoleBuyer {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only buyers can request a role change"})
	}

	var pending int64
	err = h.DB.Model(&models.RoleChangeRequest{}).
		Where("user_id = ? AND status = ?", userID, models.RoleChangePending).
		Count(&pending).Error
	if err != nil {
		logger.Error("RequestRoleChange: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if pending > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A pending request already exists"})
	}

	request := models.RoleChangeRequest{
		UserID: userID,
		Reason: req.Reason,
		Status: models.RoleChangePending,
	}
	if err := h.DB.Create(&request).Error; err != nil {
		logger.Error("RequestRoleChange: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to file request"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Role change requested",
		"request_id": request.ID,
	})
}

// ListRoleChangeRequests returns the review queue for admins
// GET /api/role_change_requests
func (h *RoleChangeHandler) ListRoleChangeRequests(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if status, msg := h.requireAdmin(userID); status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	query := h.DB.Model(&models.RoleChangeRequest{})
	if s := c.Query("status"); s != "" {
		query = query.Where("status = ?", s)
	}

	var requests []models.RoleChangeRequest
	if err := query.Order("requested_at ASC").Find(&requests).Error; err != nil {
		logger.Error("ListRoleChangeRequests: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch requests"})
	}
	return c.JSON(requests)
}

// ApproveRoleChange approves a pending request and promotes the user
// POST /api/role_change_requests/:id/approve
func (h *RoleChangeHandler) ApproveRoleChange(c *fiber.Ctx) error {
	return h.review(c, models.RoleChangeApproved)
}

// RejectRoleChange rejects a pending request
// POST /api/role_change_requests/:id/reject
func (h *RoleChangeHandler) RejectRoleChange(c *fiber.Ctx) error {
	return h.review(c, models.RoleChangeRejected)
}

func (h *RoleChangeHandler) review(c *fiber.Ctx, verdict models.RoleChangeStatus) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if status, msg := h.requireAdmin(userID); status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var request models.RoleChangeRequest
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			return err
		}
		if request.Status != models.RoleChangePending {
			return errAlreadyReviewed
		}

		now := time.Now()
		err := tx.Model(&request).Updates(map[string]interface{}{
			"status":      verdict,
			"reviewed_at": now,
		}).Error
		if err != nil {
			return err
		}

		if verdict == models.RoleChangeApproved {
			return tx.Model(&models.User{}).
				Where("id = ?", request.UserID).
				Update("role", models.RoleSeller).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		if errors.Is(err, errAlreadyReviewed) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Request already reviewed"})
		}
		logger.Error("review: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to review request"})
	}

	return c.JSON(fiber.Map{"message": "Request " + string(verdict)})
}

var errAlreadyReviewed = errors.New("request already reviewed")

// requireAdmin checks the caller's role. Zero status means the check passed.
func (h *RoleChangeHandler) requireAdmin(userID uuid.UUID) (int, string) {
	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		logger.Error("requireAdmin: database error: %v", err)
		return fiber.StatusInternalServerError, "Internal server error"
	}
	if user.Role != models.RoleAdmin {
		return fiber.StatusForbidden, "Admin access required"
	}
	return 0, ""
}

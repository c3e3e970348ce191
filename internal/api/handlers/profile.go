/**
 * @description
 * Profile API Handlers.
 * Reads and partial updates of the caller's profile, plus public
 * profile lookups. Updates only touch fields the client sent, so a
 * PUT never blanks unrelated columns.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/storage: profile picture uploads
 */

package handlers

import (
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/api/middleware"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"github.com/pasarin-app/backend/internal/storage"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	DB        *gorm.DB
	UploadDir string
}

func NewProfileHandler(db *gorm.DB, uploadDir string) *ProfileHandler {
	return &ProfileHandler{DB: db, UploadDir: uploadDir}
}

// profileView combines user identity with profile data
type profileView struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Phone          string      `json:"phone"`
	Role           models.Role `json:"role"`
	Address        string      `json:"address"`
	ProfilePicture string      `json:"profile_picture"`
	Bio            string      `json:"bio"`
}

// GetMyProfile returns the caller's profile
// GET /api/profile
func (h *ProfileHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return h.renderProfile(c, userID)
}

// GetProfile returns any user's public profile
// GET /api/profiles/:id
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}
	return h.renderProfile(c, userID)
}

// ListProfiles returns users, optionally filtered by role
// GET /api/profiles?role=seller
func (h *ProfileHandler) ListProfiles(c *fiber.Ctx) error {
	query := h.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		logger.Error("ListProfiles: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profiles"})
	}
	return c.JSON(users)
}

// UpdateMyProfile updates profile fields from a multipart form.
// Text fields are optional; an image part replaces the profile picture.
// PUT /api/profile
func (h *ProfileHandler) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	userUpdates := map[string]interface{}{}
	if name := c.FormValue("name"); name != "" {
		userUpdates["name"] = name
	}

	profileUpdates := map[string]interface{}{}
	if address := c.FormValue("address"); address != "" {
		profileUpdates["address"] = address
	}
	if bio := c.FormValue("bio"); bio != "" {
		profileUpdates["bio"] = bio
	}

	if file, err := c.FormFile("image"); err == nil {
		if !storage.AllowedImage(file.Filename) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File type not allowed"})
		}
		filename, err := storage.Save(file, filepath.Join(h.UploadDir, "profiles"))
		if err != nil {
			logger.Error("UpdateMyProfile: failed to store image: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store image"})
		}
		profileUpdates["profile_picture"] = c.BaseURL() + "/uploads/profiles/" + filename
	}

	if len(userUpdates) == 0 && len(profileUpdates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(profileUpdates) > 0 {
			var profile models.UserProfile
			err := tx.First(&profile, "user_id = ?", userID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				profile = models.UserProfile{UserID: userID}
				if err := tx.Create(&profile).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			return tx.Model(&profile).Updates(profileUpdates).Error
		}
		return nil
	})
	if err != nil {
		logger.Error("UpdateMyProfile: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return h.renderProfile(c, userID)
}

func (h *ProfileHandler) renderProfile(c *fiber.Ctx, userID uuid.UUID) error {
	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		logger.Error("renderProfile: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	view := profileView{
		ID:    user.ID,
		Name:  user.Name,
		Phone: user.Phone,
		Role:  user.Role,
	}

	var profile models.UserProfile
	err := h.DB.First(&profile, "user_id = ?", userID).Error
	if err == nil {
		view.Address = profile.Address
		view.ProfilePicture = profile.ProfilePicture
		view.Bio = profile.Bio
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("renderProfile: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(view)
}

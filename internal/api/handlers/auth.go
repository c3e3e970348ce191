/**
 * @description
 * Authentication API Handlers.
 * Handles registration (user + profile row) and login (bcrypt + JWT).
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - golang.org/x/crypto/bcrypt
 * - github.com/jackc/pgx/v5/pgconn: duplicate-phone detection
 * - gorm.io/gorm
 */

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pasarin-app/backend/internal/api/middleware"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db}
}

// RegisterRequest defines the payload for user registration
type RegisterRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

// LoginRequest defines the payload for login
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates a user and its profile row
// POST /api/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Phone == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Phone and password are required"})
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleBuyer
	}
	if role != models.RoleBuyer && role != models.RoleSeller {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Register: failed to hash password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	user := models.User{
		Phone:        req.Phone,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         role,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.UserProfile{
			UserID:  user.ID,
			Address: req.Address,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Phone number already registered"})
		}
		logger.Error("Register: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registration successful"})
}

// Login verifies credentials and returns an access token
// POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Phone == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Phone and password are required"})
	}

	var user models.User
	if err := h.DB.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Wrong phone number or password"})
		}
		logger.Error("Login: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Wrong phone number or password"})
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		logger.Error("Login: failed to sign token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{"access_token": token})
}

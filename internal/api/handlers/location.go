/**
 * @description
 * Location API Handlers.
 * Creating a location reverse-geocodes the coordinates so the stored
 * row carries a human-readable name and address.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/integrations/locationiq
 */

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/integrations/locationiq"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"gorm.io/gorm"
)

type LocationHandler struct {
	DB       *gorm.DB
	Geocoder *locationiq.Client
}

func NewLocationHandler(db *gorm.DB, geocoder *locationiq.Client) *LocationHandler {
	return &LocationHandler{DB: db, Geocoder: geocoder}
}

// CreateLocationRequest defines the payload for location creation
type CreateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ListLocations returns all saved locations
// GET /api/locations
func (h *LocationHandler) ListLocations(c *fiber.Ctx) error {
	var locations []models.Location
	if err := h.DB.Order("created_at DESC").Find(&locations).Error; err != nil {
		logger.Error("ListLocations: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch locations"})
	}
	return c.JSON(locations)
}

// GetLocation returns one location by id
// GET /api/locations/:id
func (h *LocationHandler) GetLocation(c *fiber.Ctx) error {
	locationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location id"})
	}

	var location models.Location
	if err := h.DB.First(&location, "id = ?", locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
		}
		logger.Error("GetLocation: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch location"})
	}
	return c.JSON(location)
}

// CreateLocation reverse-geocodes the coordinates and saves the result
// POST /api/locations
func (h *LocationHandler) CreateLocation(c *fiber.Ctx) error {
	var req CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Latitude == nil || req.Longitude == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "latitude and longitude are required"})
	}
	lat, lon := *req.Latitude, *req.Longitude
	if lat < -90 || lat > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "latitude must be between -90 and 90"})
	}
	if lon < -180 || lon > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "longitude must be between -180 and 180"})
	}

	place, err := h.Geocoder.Reverse(c.Context(), lat, lon)
	if err != nil {
		logger.Error("CreateLocation: reverse geocoding failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Reverse geocoding failed"})
	}

	location := models.Location{
		Name:          place.City,
		Latitude:      lat,
		Longitude:     lon,
		DetailAddress: place.DisplayName,
	}
	if err := h.DB.Create(&location).Error; err != nil {
		logger.Error("CreateLocation: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save location"})
	}

	return c.Status(fiber.StatusCreated).JSON(location)
}

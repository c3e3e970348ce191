/**
 * @description
 * Fish detection API Handler.
 * Forwards an uploaded photo to the detection service and returns the
 * classified species with confidences and bounding boxes.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/integrations/freshdetect
 */

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pasarin-app/backend/internal/integrations/freshdetect"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/storage"
)

type FishHandler struct {
	Detector *freshdetect.Client
}

func NewFishHandler(detector *freshdetect.Client) *FishHandler {
	return &FishHandler{Detector: detector}
}

// Detect classifies fish in an uploaded photo
// POST /api/detect
func (h *FishHandler) Detect(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "An image upload is required"})
	}
	if !storage.AllowedImage(file.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File type not allowed"})
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Detect: failed to open upload: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read image"})
	}
	defer src.Close()

	result, err := h.Detector.Detect(c.Context(), file.Filename, src)
	if err != nil {
		logger.Error("Detect: detection service failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Detection service unavailable"})
	}

	return c.JSON(result)
}

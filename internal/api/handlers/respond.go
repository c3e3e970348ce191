/**
 * @description
 * Shared helpers for handlers: service-error to HTTP status mapping.
 * Keeps the error taxonomy (validation 400, forbidden 403, not found 404,
 * conflict 409, everything else 500) in one place.
 */

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/services"
)

// serviceError writes the JSON error body for a service-layer failure.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrBidTooLow),
		errors.Is(err, services.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAuctionClosed),
		errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	logger.Error("Unhandled service error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

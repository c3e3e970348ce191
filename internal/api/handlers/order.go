/**
 * @description
 * Order API Handlers.
 * Listing and creation of stock-deducting orders plus status updates.
 * Stock arithmetic lives in the order service; handlers only translate
 * HTTP payloads.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/api/middleware"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"github.com/pasarin-app/backend/internal/services"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB      *gorm.DB
	Service *services.OrderService
}

func NewOrderHandler(db *gorm.DB, svc *services.OrderService) *OrderHandler {
	return &OrderHandler{DB: db, Service: svc}
}

// CreateOrderRequest defines the payload for order creation
type CreateOrderRequest struct {
	Items []struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	} `json:"items"`
}

// UpdateOrderStatusRequest defines the payload for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// ListOrders returns the caller's orders with their items
// GET /api/orders
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var orders []models.Order
	err = h.DB.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("ListOrders: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
	}
	return c.JSON(orders)
}

// GetOrder returns one of the caller's orders
// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order id"})
	}

	var order models.Order
	err = h.DB.Preload("Items").Preload("Items.Product").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		logger.Error("GetOrder: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch order"})
	}
	return c.JSON(order)
}

// CreateOrder places an order, deducting stock atomically
// POST /api/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "items cannot be empty"})
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	order, err := h.Service.CreateOrder(c.Context(), userID, items)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Order created",
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
	})
}

// UpdateOrderStatus moves one of the caller's orders to a new state
// PUT /api/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	newStatus := models.OrderStatus(req.Status)
	if !models.ValidOrderStatus(newStatus) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order status"})
	}

	order, err := h.Service.UpdateStatus(c.Context(), orderID, userID, newStatus)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated", "status": order.Status})
}

/**
 * @description
 * Product API Handlers.
 * Public catalog reads plus creator-scoped writes, including direct
 * stock adjustment.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/shopspring/decimal
 * - gorm.io/gorm
 */

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/api/middleware"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// CreateProductRequest defines the payload for product creation
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

// UpdateProductRequest defines optional replacement fields
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	ImageURL    *string          `json:"image_url"`
}

// ListProducts returns all products with stock remaining
// GET /api/products
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := h.DB.Where("stock > 0").Order("created_at DESC").Find(&products).Error; err != nil {
		logger.Error("ListProducts: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
	}
	return c.JSON(products)
}

// GetProduct returns one product by id
// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		logger.Error("GetProduct: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch product"})
	}
	return c.JSON(product)
}

// CreateProduct creates a listing owned by the caller
// POST /api/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if !req.Price.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be positive"})
	}
	if req.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stock cannot be negative"})
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		CreatedBy:   userID,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		logger.Error("CreateProduct: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Product created",
		"product_id": product.ID,
	})
}

// UpdateProduct updates a listing owned by the caller
// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	product, status, msg := h.ownedProduct(productID, userID)
	if product == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name cannot be empty"})
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be positive"})
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stock cannot be negative"})
		}
		updates["stock"] = *req.Stock
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	if err := h.DB.Model(product).Updates(updates).Error; err != nil {
		logger.Error("UpdateProduct: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
	}
	return c.JSON(fiber.Map{"message": "Product updated"})
}

// UpdateStockRequest defines the payload for a stock adjustment
type UpdateStockRequest struct {
	Stock *int `json:"stock"`
}

// UpdateStock sets the absolute stock level on a listing owned by the caller
// PUT /api/products/:id/stock
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	var req UpdateStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Stock == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stock is required"})
	}
	if *req.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stock cannot be negative"})
	}

	product, status, msg := h.ownedProduct(productID, userID)
	if product == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	if err := h.DB.Model(product).Update("stock", *req.Stock).Error; err != nil {
		logger.Error("UpdateStock: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update stock"})
	}
	return c.JSON(fiber.Map{"message": "Stock updated", "stock": *req.Stock})
}

// DeleteProduct removes a listing owned by the caller
// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	product, status, msg := h.ownedProduct(productID, userID)
	if product == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	if err := h.DB.Delete(product).Error; err != nil {
		logger.Error("DeleteProduct: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// ownedProduct loads a product and checks the caller created it.
// Returns nil plus a status code and message when the check fails.
func (h *ProductHandler) ownedProduct(productID, userID uuid.UUID) (*models.Product, int, string) {
	var product models.Product
	if err := h.DB.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.StatusNotFound, "Product not found"
		}
		logger.Error("ownedProduct: database error: %v", err)
		return nil, fiber.StatusInternalServerError, "Internal server error"
	}
	if product.CreatedBy != userID {
		return nil, fiber.StatusForbidden, "You do not own this product"
	}
	return &product, 0, ""
}

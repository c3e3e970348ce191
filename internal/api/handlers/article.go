/**
 * @description
 * Article API Handlers.
 * Public reads; authenticated creation; author-only edits and deletes.
 */

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/api/middleware"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/models"
	"gorm.io/gorm"
)

type ArticleHandler struct {
	DB *gorm.DB
}

func NewArticleHandler(db *gorm.DB) *ArticleHandler {
	return &ArticleHandler{DB: db}
}

// ArticleRequest defines the payload for article creation and update
type ArticleRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// ListArticles returns all articles, newest first
// GET /api/articles
func (h *ArticleHandler) ListArticles(c *fiber.Ctx) error {
	var articles []models.Article
	if err := h.DB.Order("created_at DESC").Find(&articles).Error; err != nil {
		logger.Error("ListArticles: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch articles"})
	}
	return c.JSON(articles)
}

// GetArticle returns one article by id
// GET /api/articles/:id
func (h *ArticleHandler) GetArticle(c *fiber.Ctx) error {
	articleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid article id"})
	}

	var article models.Article
	if err := h.DB.First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Article not found"})
		}
		logger.Error("GetArticle: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch article"})
	}
	return c.JSON(article)
}

// CreateArticle creates an article authored by the caller
// POST /api/articles
func (h *ArticleHandler) CreateArticle(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and content are required"})
	}

	article := models.Article{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		AuthorID: userID,
	}
	if err := h.DB.Create(&article).Error; err != nil {
		logger.Error("CreateArticle: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create article"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Article created",
		"article_id": article.ID,
	})
}

// UpdateArticle updates an article authored by the caller
// PUT /api/articles/:id
func (h *ArticleHandler) UpdateArticle(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	articleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid article id"})
	}

	var req ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var article models.Article
	if err := h.DB.First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Article not found"})
		}
		logger.Error("UpdateArticle: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if article.AuthorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not own this article"})
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	if err := h.DB.Model(&article).Updates(updates).Error; err != nil {
		logger.Error("UpdateArticle: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update article"})
	}
	return c.JSON(fiber.Map{"message": "Article updated"})
}

// DeleteArticle removes an article authored by the caller
// DELETE /api/articles/:id
func (h *ArticleHandler) DeleteArticle(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	articleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid article id"})
	}

	var article models.Article
	if err := h.DB.First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Article not found"})
		}
		logger.Error("DeleteArticle: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if article.AuthorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not own this article"})
	}

	if err := h.DB.Delete(&article).Error; err != nil {
		logger.Error("DeleteArticle: database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete article"})
	}
	return c.JSON(fiber.Map{"message": "Article deleted"})
}

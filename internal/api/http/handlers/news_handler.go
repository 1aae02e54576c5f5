package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/dto"
	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/service"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// NewsHandler exposes the news feed.
type NewsHandler struct {
	news *service.NewsService
}

// NewNewsHandler constructs handler.
func NewNewsHandler(news *service.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

// List handles GET /news.
func (h *NewsHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	posts, err := h.news.ListFeed(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.NewsSummary, 0, len(posts))
	for i := range posts {
		items = append(items, newsSummary(&posts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /news/:id.
func (h *NewsHandler) Get(c *fiber.Ctx) error {
	post, err := h.news.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": newsSummary(post)})
}

// Create handles POST /news.
func (h *NewsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.NewsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.news.Create(c.Context(), principal.ID, service.NewsInput{
		Title:   req.Title,
		Body:    req.Body,
		Pinned:  req.Pinned,
		Publish: req.Publish,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": newsSummary(post)})
}

// Update handles PUT /news/:id.
func (h *NewsHandler) Update(c *fiber.Ctx) error {
	var req dto.NewsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.news.Update(c.Context(), c.Params("id"), service.NewsInput{
		Title:   req.Title,
		Body:    req.Body,
		Pinned:  req.Pinned,
		Publish: req.Publish,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": newsSummary(post)})
}

// Delete handles DELETE /news/:id.
func (h *NewsHandler) Delete(c *fiber.Ctx) error {
	if err := h.news.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func newsSummary(post *domain.NewsPost) dto.NewsSummary {
	return dto.NewsSummary{
		ID:          post.ID,
		AuthorID:    post.AuthorID,
		Title:       post.Title,
		Body:        post.Body,
		Pinned:      post.Pinned,
		PublishedAt: post.PublishedAt,
	}
}

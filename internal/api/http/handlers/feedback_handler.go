package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/dto"
	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/service"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// FeedbackHandler exposes feedback import and owner-gated reads.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Import handles POST /feedback/import with a CSV body.
func (h *FeedbackHandler) Import(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	body := c.Body()
	if len(body) == 0 {
		return apperrors.NewValidationError("CSV body required", nil)
	}

	report, err := h.feedback.ImportCSV(c.Context(), principal.ID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": report})
}

// Get handles GET /feedback/:id.
func (h *FeedbackHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entry, err := h.feedback.Get(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feedbackSummary(entry)})
}

// ListForOwner handles GET /feedback/user/:userId.
func (h *FeedbackHandler) ListForOwner(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	entries, err := h.feedback.ListForOwner(c.Context(), principal, c.Params("userId"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.FeedbackSummary, 0, len(entries))
	for i := range entries {
		items = append(items, feedbackSummary(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func feedbackSummary(entry *domain.Feedback) dto.FeedbackSummary {
	return dto.FeedbackSummary{
		ID:        entry.ID,
		OwnerID:   entry.OwnerID,
		Category:  string(entry.Category),
		Subject:   entry.Subject,
		Body:      entry.Body,
		Score:     entry.Score,
		BatchID:   entry.BatchID,
		CreatedAt: entry.CreatedAt,
	}
}

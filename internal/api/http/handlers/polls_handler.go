package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/dto"
	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/service"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// PollsHandler exposes polls and voting.
type PollsHandler struct {
	polls *service.PollService
}

// NewPollsHandler constructs handler.
func NewPollsHandler(polls *service.PollService) *PollsHandler {
	return &PollsHandler{polls: polls}
}

// List handles GET /polls.
func (h *PollsHandler) List(c *fiber.Ctx) error {
	polls, err := h.polls.ListOpen(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.PollSummary, 0, len(polls))
	for i := range polls {
		items = append(items, pollSummary(&polls[i], nil))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /polls/:id with options and results.
func (h *PollsHandler) Get(c *fiber.Ctx) error {
	poll, options, results, err := h.polls.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"poll":    pollSummary(poll, options),
		"results": results,
	}})
}

// Create handles POST /polls.
func (h *PollsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PollRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	poll, options, err := h.polls.Create(c.Context(), principal.ID, service.PollInput{
		Question: req.Question,
		Options:  req.Options,
		ClosesAt: req.ClosesAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": pollSummary(poll, options)})
}

// Vote handles PUT /polls/:id/vote.
func (h *PollsHandler) Vote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OptionID == "" {
		return apperrors.NewValidationError("option_id required", nil)
	}

	if err := h.polls.Vote(c.Context(), c.Params("id"), req.OptionID, principal.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"poll_id": c.Params("id"), "option_id": req.OptionID}})
}

// Close handles POST /polls/:id/close.
func (h *PollsHandler) Close(c *fiber.Ctx) error {
	if err := h.polls.Close(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"poll_id": c.Params("id"), "closed": true}})
}

func pollSummary(poll *domain.Poll, options []domain.PollOption) dto.PollSummary {
	summary := dto.PollSummary{
		ID:       poll.ID,
		Question: poll.Question,
		ClosesAt: poll.ClosesAt,
		ClosedAt: poll.ClosedAt,
	}
	for _, opt := range options {
		summary.Options = append(summary.Options, dto.PollOption{ID: opt.ID, Label: opt.Label})
	}
	return summary
}

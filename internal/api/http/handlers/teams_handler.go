package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/dto"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/service"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// TeamsHandler exposes the team hub.
type TeamsHandler struct {
	teams *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService) *TeamsHandler {
	return &TeamsHandler{teams: teams}
}

// List handles GET /teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	teams, err := h.teams.ListActive(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teams})
}

// Get handles GET /teams/:id with memberships.
func (h *TeamsHandler) Get(c *fiber.Ctx) error {
	team, members, err := h.teams.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"team":    team,
		"members": members,
	}})
}

// Create handles POST /teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	team, err := h.teams.Create(c.Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": team})
}

// Update handles PUT /teams/:id.
func (h *TeamsHandler) Update(c *fiber.Ctx) error {
	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	team, err := h.teams.Update(c.Context(), c.Params("id"), req.Name, req.Description, active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": team})
}

// SetMember handles PUT /teams/:id/members.
func (h *TeamsHandler) SetMember(c *fiber.Ctx) error {
	var req dto.TeamMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}

	m, err := h.teams.SetMember(c.Context(), c.Params("id"), req.UserID, domain.TeamRole(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": m})
}

// RemoveMember handles DELETE /teams/:id/members/:userId.
func (h *TeamsHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.teams.RemoveMember(c.Context(), c.Params("id"), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/dto"
	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/service"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// GroupsHandler exposes self-service interest groups.
type GroupsHandler struct {
	groups *service.GroupService
}

// NewGroupsHandler constructs handler.
func NewGroupsHandler(groups *service.GroupService) *GroupsHandler {
	return &GroupsHandler{groups: groups}
}

// List handles GET /groups.
func (h *GroupsHandler) List(c *fiber.Ctx) error {
	groups, err := h.groups.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": groups})
}

// Create handles POST /groups.
func (h *GroupsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	group, err := h.groups.Create(c.Context(), principal.ID, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": group})
}

// Delete handles DELETE /groups/:id.
func (h *GroupsHandler) Delete(c *fiber.Ctx) error {
	if err := h.groups.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Join handles POST /groups/:id/join.
func (h *GroupsHandler) Join(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.groups.Join(c.Context(), c.Params("id"), principal.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"group_id": c.Params("id"), "joined": true}})
}

// Leave handles POST /groups/:id/leave.
func (h *GroupsHandler) Leave(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.groups.Leave(c.Context(), c.Params("id"), principal.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"group_id": c.Params("id"), "joined": false}})
}

// Members handles GET /groups/:id/members.
func (h *GroupsHandler) Members(c *fiber.Ctx) error {
	members, err := h.groups.Members(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": members})
}

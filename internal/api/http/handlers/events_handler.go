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

// EventsHandler exposes events and RSVPs.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(events *service.EventService) *EventsHandler {
	return &EventsHandler{events: events}
}

// List handles GET /events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	list, err := h.events.ListUpcoming(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.EventSummary, 0, len(list))
	for i := range list {
		items = append(items, eventSummary(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /events/:id, including attendee answers.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, rsvps, err := h.events.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	attendees := make([]dto.RSVPSummary, 0, len(rsvps))
	for _, rsvp := range rsvps {
		attendees = append(attendees, dto.RSVPSummary{UserID: rsvp.UserID, Status: string(rsvp.Status)})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"event": eventSummary(event),
		"rsvps": attendees,
	}})
}

// Create handles POST /events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	event, err := h.events.Create(c.Context(), principal.ID, service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": eventSummary(event)})
}

// Update handles PUT /events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	event, err := h.events.Update(c.Context(), c.Params("id"), service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventSummary(event)})
}

// Delete handles DELETE /events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	if err := h.events.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RSVP handles PUT /events/:id/rsvp.
func (h *EventsHandler) RSVP(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RSVPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	rsvp, err := h.events.RSVP(c.Context(), c.Params("id"), principal.ID, domain.RSVPStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RSVPSummary{UserID: rsvp.UserID, Status: string(rsvp.Status)}})
}

func eventSummary(event *domain.Event) dto.EventSummary {
	return dto.EventSummary{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
	}
}

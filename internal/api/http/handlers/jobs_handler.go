package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/service"
)

// JobsHandler exposes scheduled-job endpoints. Access is enforced by the
// cron-secret guard in the router; no principal is involved.
type JobsHandler struct {
	events *service.EventService
	polls  *service.PollService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(events *service.EventService, polls *service.PollService) *JobsHandler {
	return &JobsHandler{events: events, polls: polls}
}

// EventReminders handles POST /jobs/events/reminders.
func (h *JobsHandler) EventReminders(c *fiber.Ctx) error {
	window := 24 * time.Hour
	if hours := c.QueryInt("hours"); hours > 0 {
		window = time.Duration(hours) * time.Hour
	}

	count, err := h.events.SendReminders(c.Context(), window)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reminded": count}})
}

// ClosePolls handles POST /jobs/polls/close-due.
func (h *JobsHandler) ClosePolls(c *fiber.Ctx) error {
	ids, err := h.polls.CloseDue(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"closed": ids}})
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// EventService coordinates events and RSVPs.
type EventService struct {
	events     repository.EventRepository
	dispatcher events.Dispatcher
}

// EventInput describes an event create/update payload.
type EventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
}

// NewEventService constructs the service.
func NewEventService(repo repository.EventRepository, dispatcher events.Dispatcher) *EventService {
	return &EventService{events: repo, dispatcher: dispatcher}
}

// ListUpcoming returns future events ordered by start time.
func (s *EventService) ListUpcoming(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.events.ListUpcoming(ctx, limit, offset)
}

// Get fetches one event with its RSVPs.
func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, []domain.RSVP, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rsvps, err := s.events.ListRSVPs(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return event, rsvps, nil
}

// Create adds an event.
func (s *EventService) Create(ctx context.Context, creatorID string, input EventInput) (*domain.Event, error) {
	if input.Title == "" || input.StartsAt.IsZero() {
		return nil, apperrors.NewValidationError("title and starts_at required", nil)
	}
	if input.EndsAt != nil && input.EndsAt.Before(input.StartsAt) {
		return nil, apperrors.NewValidationError("ends_at before starts_at", nil)
	}

	event := &domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		CreatedBy:   creatorID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Update edits an event.
func (s *EventService) Update(ctx context.Context, id string, input EventInput) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Title = input.Title
	event.Description = input.Description
	event.Location = input.Location
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event and its RSVPs.
func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}

// RSVP records the caller's answer. Answering again replaces the previous
// answer; answering a past event is rejected.
func (s *EventService) RSVP(ctx context.Context, eventID, userID string, status domain.RSVPStatus) (*domain.RSVP, error) {
	if !domain.ValidRSVPStatus(status) {
		return nil, apperrors.NewValidationError("status must be yes, no or maybe", nil)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.StartsAt.Before(time.Now()) {
		return nil, apperrors.NewConflict("event already started", nil)
	}

	rsvp := &domain.RSVP{EventID: eventID, UserID: userID, Status: status}
	if err := s.events.UpsertRSVP(ctx, rsvp); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRSVPChanged,
		SubjectID: eventID,
		ActorID:   userID,
		Timestamp: time.Now(),
		Payload:   events.RSVPChangedPayload{EventTitle: event.Title, Status: status},
	})
	return rsvp, nil
}

// SendReminders publishes a reminder event for everything starting within the
// window. Invoked by the scheduled-job endpoint.
func (s *EventService) SendReminders(ctx context.Context, window time.Duration) (int, error) {
	if window <= 0 {
		window = 24 * time.Hour
	}
	now := time.Now()
	upcoming, err := s.events.ListStartingBetween(ctx, now, now.Add(window))
	if err != nil {
		return 0, err
	}

	for i := range upcoming {
		event := &upcoming[i]
		rsvps, err := s.events.ListRSVPs(ctx, event.ID)
		if err != nil {
			return 0, err
		}
		attendees := 0
		for _, rsvp := range rsvps {
			if rsvp.Status == domain.RSVPYes {
				attendees++
			}
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReminderDue,
			SubjectID: event.ID,
			Timestamp: now,
			Payload: events.ReminderDuePayload{
				EventTitle: event.Title,
				StartsAt:   event.StartsAt,
				Attendees:  attendees,
			},
		})
	}
	return len(upcoming), nil
}

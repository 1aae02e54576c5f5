package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

type fakeEventRepo struct {
	events map[string]*domain.Event
	rsvps  map[string]map[string]domain.RSVPStatus // eventID -> userID -> status
	nextID int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: map[string]*domain.Event{},
		rsvps:  map[string]map[string]domain.RSVPStatus{},
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *domain.Event) error {
	f.nextID++
	event.ID = "event-" + string(rune('a'+f.nextID-1))
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *domain.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.events, id)
	delete(f.rsvps, id)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEventRepo) ListUpcoming(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	var out []domain.Event
	now := time.Now()
	for _, e := range f.events {
		if e.StartsAt.After(now) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range f.events {
		if !e.StartsAt.Before(from) && e.StartsAt.Before(to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) UpsertRSVP(ctx context.Context, rsvp *domain.RSVP) error {
	if f.rsvps[rsvp.EventID] == nil {
		f.rsvps[rsvp.EventID] = map[string]domain.RSVPStatus{}
	}
	f.rsvps[rsvp.EventID][rsvp.UserID] = rsvp.Status
	return nil
}

func (f *fakeEventRepo) ListRSVPs(ctx context.Context, eventID string) ([]domain.RSVP, error) {
	var out []domain.RSVP
	for userID, status := range f.rsvps[eventID] {
		out = append(out, domain.RSVP{EventID: eventID, UserID: userID, Status: status})
	}
	return out, nil
}

func futureEvent(t *testing.T, repo *fakeEventRepo, in time.Duration) *domain.Event {
	t.Helper()
	event := &domain.Event{Title: "All hands", StartsAt: time.Now().Add(in)}
	require.NoError(t, repo.Create(context.Background(), event))
	return event
}

func TestEventCreateValidation(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), events.NewInMemoryDispatcher())
	ctx := context.Background()

	_, err := svc.Create(ctx, "creator-1", EventInput{Title: "", StartsAt: time.Now()})
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	ends := time.Now().Add(-time.Hour)
	_, err = svc.Create(ctx, "creator-1", EventInput{Title: "X", StartsAt: time.Now(), EndsAt: &ends})
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
}

func TestRSVPReplacesPreviousAnswer(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, events.NewInMemoryDispatcher())
	ctx := context.Background()

	event := futureEvent(t, repo, time.Hour)

	_, err := svc.RSVP(ctx, event.ID, "user-1", domain.RSVPYes)
	require.NoError(t, err)
	_, err = svc.RSVP(ctx, event.ID, "user-1", domain.RSVPNo)
	require.NoError(t, err)

	rsvps, err := repo.ListRSVPs(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, rsvps, 1)
	assert.Equal(t, domain.RSVPNo, rsvps[0].Status)
}

func TestRSVPRejectsInvalidStatus(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, events.NewInMemoryDispatcher())

	event := futureEvent(t, repo, time.Hour)

	_, err := svc.RSVP(context.Background(), event.ID, "user-1", domain.RSVPStatus("perhaps"))
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestRSVPRejectsStartedEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, events.NewInMemoryDispatcher())

	event := futureEvent(t, repo, -time.Hour)

	_, err := svc.RSVP(context.Background(), event.ID, "user-1", domain.RSVPYes)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
}

func TestRSVPUnknownEvent(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), events.NewInMemoryDispatcher())

	_, err := svc.RSVP(context.Background(), "missing", "user-1", domain.RSVPYes)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestSendReminders(t *testing.T) {
	repo := newFakeEventRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewEventService(repo, dispatcher)
	ctx := context.Background()

	soon := futureEvent(t, repo, time.Hour)
	futureEvent(t, repo, 48*time.Hour)

	_, err := svc.RSVP(ctx, soon.ID, "user-1", domain.RSVPYes)
	require.NoError(t, err)
	_, err = svc.RSVP(ctx, soon.ID, "user-2", domain.RSVPNo)
	require.NoError(t, err)

	var reminders []events.ReminderDuePayload
	dispatcher.Subscribe(events.EventReminderDue, func(ctx context.Context, e events.Event) error {
		reminders = append(reminders, e.Payload.(events.ReminderDuePayload))
		return nil
	})

	sent, err := svc.SendReminders(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, reminders, 1)
	assert.Equal(t, "All hands", reminders[0].EventTitle)
	assert.Equal(t, 1, reminders[0].Attendees, "only yes answers count as attendees")
}

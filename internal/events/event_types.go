package events

import (
	"time"

	"github.com/spec-kit/portal-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventNewsPublished    EventType = "news_published"
	EventRSVPChanged      EventType = "event_rsvp_changed"
	EventReminderDue      EventType = "event_reminder_due"
	EventPollVoteCast     EventType = "poll_vote_cast"
	EventPollClosed       EventType = "poll_closed"
	EventFeedbackImported EventType = "feedback_imported"
)

// Event represents a domain event emitted by services. SubjectID is the
// entity the event is about; ActorID the principal that caused it, empty for
// scheduled jobs.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewsPublishedPayload payload.
type NewsPublishedPayload struct {
	Title  string `json:"title"`
	Pinned bool   `json:"pinned"`
}

// RSVPChangedPayload payload.
type RSVPChangedPayload struct {
	EventTitle string            `json:"event_title"`
	Status     domain.RSVPStatus `json:"status"`
}

// ReminderDuePayload payload.
type ReminderDuePayload struct {
	EventTitle string    `json:"event_title"`
	StartsAt   time.Time `json:"starts_at"`
	Attendees  int       `json:"attendees"`
}

// PollVoteCastPayload payload.
type PollVoteCastPayload struct {
	OptionID string `json:"option_id"`
}

// PollClosedPayload payload.
type PollClosedPayload struct {
	Question string `json:"question,omitempty"`
}

// FeedbackImportedPayload payload.
type FeedbackImportedPayload struct {
	BatchID  string `json:"batch_id"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

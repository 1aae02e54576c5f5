package dto

import "time"

// NewsRequest payload for post create/update.
type NewsRequest struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Pinned  bool   `json:"pinned"`
	Publish bool   `json:"publish"`
}

// NewsSummary is the feed item shape.
type NewsSummary struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Pinned      bool       `json:"pinned"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// EventRequest payload for event create/update.
type EventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// EventSummary is the event shape.
type EventSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// RSVPRequest payload for answering an event.
type RSVPRequest struct {
	Status string `json:"status"`
}

// RSVPSummary is an attendee answer.
type RSVPSummary struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// PollRequest payload for poll creation.
type PollRequest struct {
	Question string     `json:"question"`
	Options  []string   `json:"options"`
	ClosesAt *time.Time `json:"closes_at,omitempty"`
}

// VoteRequest payload for voting.
type VoteRequest struct {
	OptionID string `json:"option_id"`
}

// PollSummary is the poll shape with options.
type PollSummary struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	ClosesAt *time.Time   `json:"closes_at,omitempty"`
	ClosedAt *time.Time   `json:"closed_at,omitempty"`
	Options  []PollOption `json:"options,omitempty"`
}

// PollOption is one selectable answer.
type PollOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// TeamRequest payload for team create/update.
type TeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active,omitempty"`
}

// TeamMemberRequest payload for membership changes.
type TeamMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// GroupRequest payload for group creation.
type GroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FeedbackSummary is the feedback entry shape.
type FeedbackSummary struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Category  string    `json:"category"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Score     *int      `json:"score,omitempty"`
	BatchID   string    `json:"batch_id"`
	CreatedAt time.Time `json:"created_at"`
}

package domain

import "time"

// RSVPStatus enumerates attendance answers.
type RSVPStatus string

const (
	RSVPYes   RSVPStatus = "yes"
	RSVPNo    RSVPStatus = "no"
	RSVPMaybe RSVPStatus = "maybe"
)

// ValidRSVPStatus reports whether s is an accepted answer.
func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return true
	}
	return false
}

// Event represents a company event open for RSVPs.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RSVP records a single user's answer for an event. At most one row per
// (event, user); a repeated answer replaces the previous one.
type RSVP struct {
	ID        string
	EventID   string
	UserID    string
	Status    RSVPStatus
	UpdatedAt time.Time
}

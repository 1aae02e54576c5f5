package domain

import "time"

// Poll is a single-choice vote open to all authenticated users.
type Poll struct {
	ID        string
	Question  string
	CreatedBy string
	ClosesAt  *time.Time
	ClosedAt  *time.Time
	CreatedAt time.Time
}

// Open reports whether the poll still accepts votes.
func (p *Poll) Open(now time.Time) bool {
	if p.ClosedAt != nil {
		return false
	}
	if p.ClosesAt != nil && !now.Before(*p.ClosesAt) {
		return false
	}
	return true
}

// PollOption is one selectable answer.
type PollOption struct {
	ID       string
	PollID   string
	Label    string
	Position int
}

// PollVote records a voter's choice. At most one row per (poll, voter);
// re-voting replaces the previous choice.
type PollVote struct {
	PollID    string
	OptionID  string
	VoterID   string
	UpdatedAt time.Time
}

// PollResult is the tallied count for one option.
type PollResult struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Votes    int64  `json:"votes"`
}

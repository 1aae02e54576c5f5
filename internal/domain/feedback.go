package domain

import "time"

// FeedbackCategory tags imported feedback entries.
type FeedbackCategory string

const (
	FeedbackGeneral  FeedbackCategory = "general"
	FeedbackQA       FeedbackCategory = "qa"
	FeedbackTraining FeedbackCategory = "training"
)

// Feedback is a single imported feedback/QA entry owned by a user. Ownership
// gates read access: the owner, moderation roles, or the owner's active team
// lead may read it.
type Feedback struct {
	ID        string
	OwnerID   string
	Category  FeedbackCategory
	Subject   string
	Body      string
	Score     *int
	BatchID   string
	CreatedAt time.Time
}

package domain

import "time"

// Group is a self-service interest group.
type Group struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
}

// GroupMembership links a user to a group they joined.
type GroupMembership struct {
	GroupID  string
	UserID   string
	JoinedAt time.Time
}

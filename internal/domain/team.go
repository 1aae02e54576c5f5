package domain

import "time"

// TeamRole distinguishes plain members from team leads.
type TeamRole string

const (
	TeamRoleMember TeamRole = "member"
	TeamRoleLead   TeamRole = "lead"
)

// Team represents an organizational team shown in the team hub.
type Team struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamMembership links a user to a team. Lead memberships are what grant a
// teamleiter scoped access to resources of the team's members.
type TeamMembership struct {
	ID        string
	TeamID    string
	UserID    string
	Role      TeamRole
	Active    bool
	CreatedAt time.Time
}

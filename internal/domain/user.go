package domain

import "time"

// AppUser is the domain model for portal accounts. The ID doubles as the
// subject of both locally minted session tokens and delegated provider
// identities, and is the join key for all ownership checks.
type AppUser struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package dto

import "time"

// UserCreateRequest payload for admin account creation.
type UserCreateRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserRoleRequest payload for role changes.
type UserRoleRequest struct {
	Role string `json:"role"`
}

// UserActiveRequest payload for activation toggles.
type UserActiveRequest struct {
	Active bool `json:"active"`
}

// UserSummary is the account shape returned to administrators.
type UserSummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

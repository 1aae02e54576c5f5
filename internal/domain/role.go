package domain

// Role enumerates portal-wide access roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleModerator  Role = "moderator"
	RoleTeamleiter Role = "teamleiter"
	RoleUser       Role = "user"
)

// ParseRole maps a stored role string onto a known Role, falling back to RoleUser.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleModerator, RoleTeamleiter, RoleUser:
		return Role(s)
	default:
		return RoleUser
	}
}

// In enumerates set membership. Allowed-role sets are explicit per endpoint;
// there is no global role hierarchy.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleTeamleiter, ParseRole("teamleiter"))
	assert.Equal(t, RoleUser, ParseRole("user"))

	// Unknown or corrupted values degrade to the base role, never escalate.
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("superadmin"))
	assert.Equal(t, RoleUser, ParseRole("Admin"))
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RoleModerator.In(RoleAdmin, RoleModerator))
	assert.False(t, RoleTeamleiter.In(RoleAdmin, RoleModerator))
	assert.False(t, RoleAdmin.In())
}

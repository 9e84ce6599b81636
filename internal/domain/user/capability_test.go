package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RoleAdmin, ParseRole(" Admin "))
	assert.Equal(t, RoleTeamManager, ParseRole("captain"))
	assert.Equal(t, RoleScorekeeper, ParseRole("scorekeeper"))
	assert.Equal(t, RolePublic, ParseRole(""))
	assert.Equal(t, RolePublic, ParseRole("superuser"))
}

func TestCanEditScore(t *testing.T) {
	t.Parallel()

	admin := Principal{UserID: "u-admin", Role: RoleAdmin}
	keeper := Principal{UserID: "u-keeper", Role: RoleScorekeeper}
	otherKeeper := Principal{UserID: "u-other", Role: RoleScorekeeper}
	manager := Principal{UserID: "u-keeper", Role: RoleTeamManager}

	assert.True(t, CanEditScore(admin))
	assert.True(t, CanEditScore(keeper, "", "u-keeper"))
	assert.False(t, CanEditScore(otherKeeper, "u-keeper"))
	assert.False(t, CanEditScore(keeper))
	assert.False(t, CanEditScore(manager, "u-keeper"), "only scorekeepers can be assigned")
	assert.False(t, CanEditScore(Principal{Role: RoleScorekeeper}, ""))
}

func TestAdminOnlyCapabilities(t *testing.T) {
	t.Parallel()

	for _, role := range []Role{RoleTeamManager, RolePlayer, RoleScorekeeper, RolePublic} {
		p := Principal{UserID: "u1", Role: role}
		assert.False(t, CanVerifyScore(p), role)
		assert.False(t, CanManageLeaderboard(p), role)
		assert.False(t, CanCreateScore(p), role)
		assert.False(t, CanAssignScorekeeper(p), role)
	}

	admin := Principal{UserID: "u1", Role: RoleAdmin}
	assert.True(t, CanVerifyScore(admin))
	assert.True(t, CanManageLeaderboard(admin))
	assert.True(t, CanCreateScore(admin))
	assert.True(t, CanAssignScorekeeper(admin))
}

package user

func CanCreateScore(p Principal) bool {
	return p.IsAdmin()
}

// CanEditScore allows admins and any scorekeeper assigned to the score record or its game.
func CanEditScore(p Principal, assignedScorekeepers ...string) bool {
	if p.IsAdmin() {
		return true
	}
	if p.Role != RoleScorekeeper || p.UserID == "" {
		return false
	}
	for _, id := range assignedScorekeepers {
		if id != "" && id == p.UserID {
			return true
		}
	}
	return false
}

func CanAssignScorekeeper(p Principal) bool {
	return p.IsAdmin()
}

func CanVerifyScore(p Principal) bool {
	return p.IsAdmin()
}

// CanManageLeaderboard covers forced recalculation and finalization.
func CanManageLeaderboard(p Principal) bool {
	return p.IsAdmin()
}

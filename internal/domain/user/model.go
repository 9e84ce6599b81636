package user

import "strings"

// Role is the closed set of account roles issued by the account service.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleTeamManager Role = "team_manager"
	RolePlayer      Role = "player"
	RoleScorekeeper Role = "scorekeeper"
	RolePublic      Role = "public"
)

// ParseRole normalizes a role claim; unknown or empty claims resolve to public.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleTeamManager, "captain", "manager":
		return RoleTeamManager
	case RolePlayer:
		return RolePlayer
	case RoleScorekeeper:
		return RoleScorekeeper
	default:
		return RolePublic
	}
}

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

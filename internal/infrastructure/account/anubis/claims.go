package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/riskibarqy/sports-tournament/internal/domain/user"
)

// hashToken derives the principal cache key.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return baseURL
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case !strings.HasPrefix(path, "/"):
		path = "/" + path
	}
	return baseURL + path
}

// principalRole prefers the explicit role claim, then the most privileged entry of roles.
func principalRole(resp introspectResponse) user.Role {
	if role := user.ParseRole(resp.Role); role != user.RolePublic {
		return role
	}
	best := user.RolePublic
	for _, raw := range resp.Roles {
		role := user.ParseRole(raw)
		if rolePriority(role) > rolePriority(best) {
			best = role
		}
	}
	return best
}

func rolePriority(role user.Role) int {
	switch role {
	case user.RoleAdmin:
		return 4
	case user.RoleScorekeeper:
		return 3
	case user.RoleTeamManager:
		return 2
	case user.RolePlayer:
		return 1
	default:
		return 0
	}
}

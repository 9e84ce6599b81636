package leaderboard

import (
	"context"
	"time"
)

type Repository interface {
	GetBySportEvent(ctx context.Context, sportEventID string) (Leaderboard, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Leaderboard, error)
	// ListEntries returns entries ordered by position.
	ListEntries(ctx context.Context, leaderboardID string) ([]Entry, error)
	ListTeamStandings(ctx context.Context, teamID string) ([]TeamStanding, error)
	// SetFinal creates the leaderboard when missing. It never touches entries.
	SetFinal(ctx context.Context, sportEventID string, final bool, now time.Time) (Leaderboard, error)
	// Recalculate serializes per sport event: it locks (creating if needed) the
	// leaderboard, loads the qualifying results, asks plan what to write and
	// applies it in one transaction.
	Recalculate(ctx context.Context, sportEventID string, now time.Time, plan PlanFunc) (Leaderboard, Plan, error)
}

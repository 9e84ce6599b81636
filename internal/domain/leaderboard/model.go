package leaderboard

import (
	"time"

	"github.com/riskibarqy/sports-tournament/internal/domain/score"
)

// Leaderboard is the standings table of one sport event. A final leaderboard is frozen.
type Leaderboard struct {
	ID           string
	SportEventID string
	IsFinal      bool
	LastUpdated  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Stats are the derived counters of one team. Nothing here is client-settable.
type Stats struct {
	Played         int
	Won            int
	Drawn          int
	Lost           int
	Points         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	CleanSheets    int
	YellowCards    int
	RedCards       int
}

type Entry struct {
	ID            string
	LeaderboardID string
	TeamID        string
	TeamName      string
	Position      int
	Stats
	UpdatedAt time.Time
}

// GameResult is one completed and verified game as seen by the aggregator.
type GameResult struct {
	GameID       string
	Side1TeamID  string
	Side2TeamID  string
	Side1Score   int
	Side2Score   int
	IsDraw       bool
	WinnerTeamID string
	Cards        map[string]score.CardTally
}

// TeamStanding is one team's row in some sport event's leaderboard.
type TeamStanding struct {
	Leaderboard    Leaderboard
	SportEventName string
	Entry          Entry
}

type ListFilter struct {
	IsFinal *bool
}

type Outcome string

const (
	OutcomeRecalculated Outcome = "recalculated"
	OutcomeFrozen       Outcome = "frozen"
	OutcomeNoResults    Outcome = "no_results"
)

// Plan is what a recalculation will write. Entries is set only for OutcomeRecalculated.
type Plan struct {
	Outcome Outcome
	Entries []Entry
	Games   int
}

package postgres

import (
	"database/sql"
	"time"
)

type leaderboardTableModel struct {
	ID           int64        `db:"id"`
	PublicID     string       `db:"public_id"`
	SportEventID string       `db:"sport_event_public_id"`
	IsFinal      bool         `db:"is_final"`
	LastUpdated  sql.NullTime `db:"last_updated"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	DeletedAt    *time.Time   `db:"deleted_at"`
}

type leaderboardEntryTableModel struct {
	ID             int64     `db:"id"`
	PublicID       string    `db:"public_id"`
	LeaderboardID  string    `db:"leaderboard_public_id"`
	TeamID         string    `db:"team_public_id"`
	Position       int       `db:"position"`
	Played         int       `db:"played"`
	Won            int       `db:"won"`
	Drawn          int       `db:"drawn"`
	Lost           int       `db:"lost"`
	Points         int       `db:"points"`
	GoalsFor       int       `db:"goals_for"`
	GoalsAgainst   int       `db:"goals_against"`
	GoalDifference int       `db:"goal_difference"`
	CleanSheets    int       `db:"clean_sheets"`
	YellowCards    int       `db:"yellow_cards"`
	RedCards       int       `db:"red_cards"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type leaderboardEntryInsertModel struct {
	PublicID       string    `db:"public_id"`
	LeaderboardID  string    `db:"leaderboard_public_id"`
	TeamID         string    `db:"team_public_id"`
	Position       int       `db:"position"`
	Played         int       `db:"played"`
	Won            int       `db:"won"`
	Drawn          int       `db:"drawn"`
	Lost           int       `db:"lost"`
	Points         int       `db:"points"`
	GoalsFor       int       `db:"goals_for"`
	GoalsAgainst   int       `db:"goals_against"`
	GoalDifference int       `db:"goal_difference"`
	CleanSheets    int       `db:"clean_sheets"`
	YellowCards    int       `db:"yellow_cards"`
	RedCards       int       `db:"red_cards"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// teamStandingRow joins an entry with its leaderboard.
type teamStandingRow struct {
	leaderboardEntryTableModel
	BoardPublicID     string       `db:"board_public_id"`
	BoardSportEventID string       `db:"board_sport_event_public_id"`
	BoardIsFinal      bool         `db:"board_is_final"`
	BoardLastUpdated  sql.NullTime `db:"board_last_updated"`
	BoardCreatedAt    time.Time    `db:"board_created_at"`
	BoardUpdatedAt    time.Time    `db:"board_updated_at"`
}

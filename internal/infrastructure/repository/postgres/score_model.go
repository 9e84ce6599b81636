package postgres

import (
	"database/sql"
	"time"
)

type scoreRecordTableModel struct {
	ID                 int64          `db:"id"`
	PublicID           string         `db:"public_id"`
	GameID             string         `db:"game_public_id"`
	SportEventID       string         `db:"sport_event_public_id"`
	Status             string         `db:"status"`
	FinalScoreSide1    sql.NullInt64  `db:"final_score_side1"`
	FinalScoreSide2    sql.NullInt64  `db:"final_score_side2"`
	WinnerTeamID       sql.NullString `db:"winner_team_public_id"`
	IsDraw             bool           `db:"is_draw"`
	VerificationStatus string         `db:"verification_status"`
	ScorekeeperUserID  string         `db:"scorekeeper_user_id"`
	VerifiedBy         sql.NullString `db:"verified_by"`
	VerifiedAt         sql.NullTime   `db:"verified_at"`
	Notes              string         `db:"notes"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
	DeletedAt          *time.Time     `db:"deleted_at"`
}

type scoreRecordInsertModel struct {
	PublicID           string        `db:"public_id"`
	GameID             string        `db:"game_public_id"`
	SportEventID       string        `db:"sport_event_public_id"`
	Status             string        `db:"status"`
	FinalScoreSide1    sql.NullInt64 `db:"final_score_side1"`
	FinalScoreSide2    sql.NullInt64 `db:"final_score_side2"`
	WinnerTeamID       *string       `db:"winner_team_public_id"`
	IsDraw             bool          `db:"is_draw"`
	VerificationStatus string        `db:"verification_status"`
	ScorekeeperUserID  string        `db:"scorekeeper_user_id"`
	VerifiedBy         *string       `db:"verified_by"`
	VerifiedAt         *time.Time    `db:"verified_at"`
	Notes              string        `db:"notes"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

type scoreDetailTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	ScoreRecordID string         `db:"score_record_public_id"`
	TeamID        string         `db:"team_public_id"`
	PlayerID      sql.NullString `db:"player_public_id"`
	AssistedByID  sql.NullString `db:"assisted_by_public_id"`
	Points        int            `db:"points"`
	EventType     string         `db:"event_type"`
	Minute        sql.NullInt64  `db:"minute"`
	Period        string         `db:"period"`
	Description   string         `db:"description"`
	CreatedBy     string         `db:"created_by"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	DeletedAt     *time.Time     `db:"deleted_at"`
}

type scoreDetailInsertModel struct {
	PublicID      string        `db:"public_id"`
	ScoreRecordID string        `db:"score_record_public_id"`
	TeamID        string        `db:"team_public_id"`
	PlayerID      *string       `db:"player_public_id"`
	AssistedByID  *string       `db:"assisted_by_public_id"`
	Points        int           `db:"points"`
	EventType     string        `db:"event_type"`
	Minute        sql.NullInt64 `db:"minute"`
	Period        string        `db:"period"`
	Description   string        `db:"description"`
	CreatedBy     string        `db:"created_by"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type cardCountRow struct {
	ScoreRecordID string `db:"score_record_public_id"`
	TeamID        string `db:"team_public_id"`
	EventType     string `db:"event_type"`
	Total         int    `db:"total"`
}

package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	Name          string     `db:"name"`
	ShortName     string     `db:"short_name"`
	ManagerUserID string     `db:"manager_user_id"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type playerTableModel struct {
	ID           int64         `db:"id"`
	PublicID     string        `db:"public_id"`
	TeamID       string        `db:"team_public_id"`
	Name         string        `db:"name"`
	JerseyNumber sql.NullInt64 `db:"jersey_number"`
	IsCaptain    bool          `db:"is_captain"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	DeletedAt    *time.Time    `db:"deleted_at"`
}

type sportEventTableModel struct {
	ID            int64        `db:"id"`
	PublicID      string       `db:"public_id"`
	EventPublicID string       `db:"event_public_id"`
	Name          string       `db:"name"`
	Sport         string       `db:"sport"`
	StartDate     sql.NullTime `db:"start_date"`
	EndDate       sql.NullTime `db:"end_date"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
	DeletedAt     *time.Time   `db:"deleted_at"`
}

type gameTableModel struct {
	ID                int64        `db:"id"`
	PublicID          string       `db:"public_id"`
	SportEventID      string       `db:"sport_event_public_id"`
	Name              string       `db:"name"`
	Status            string       `db:"status"`
	ScorekeeperUserID string       `db:"scorekeeper_user_id"`
	ScheduledAt       sql.NullTime `db:"scheduled_at"`
	CreatedAt         time.Time    `db:"created_at"`
	UpdatedAt         time.Time    `db:"updated_at"`
	DeletedAt         *time.Time   `db:"deleted_at"`
}

type gameTeamTableModel struct {
	GameID      string `db:"game_public_id"`
	TeamID      string `db:"team_public_id"`
	Designation string `db:"designation"`
}

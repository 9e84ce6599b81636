package httpapi

import (
	"time"

	"github.com/riskibarqy/sports-tournament/internal/domain/jobscheduler"
	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/domain/score"
	"github.com/riskibarqy/sports-tournament/internal/usecase"
)

type createScoreRequest struct {
	Status        string `json:"status" validate:"omitempty,max=32"`
	ScorekeeperID string `json:"scorekeeper_id" validate:"omitempty,max=64"`
}

type updateScoreRequest struct {
	Status          *string `json:"status" validate:"omitempty,max=32"`
	FinalScoreSide1 *int    `json:"final_score_side1" validate:"omitempty,min=0"`
	FinalScoreSide2 *int    `json:"final_score_side2" validate:"omitempty,min=0"`
}

type detailRequest struct {
	TeamID       string `json:"team_id" validate:"required,max=64"`
	PlayerID     string `json:"player_id" validate:"omitempty,max=64"`
	AssistedByID string `json:"assisted_by_id" validate:"omitempty,max=64"`
	Points       int    `json:"points"`
	EventType    string `json:"event_type" validate:"required,max=32"`
	Minute       *int   `json:"minute" validate:"omitempty,min=0"`
	Period       string `json:"period" validate:"omitempty,max=32"`
	Description  string `json:"description" validate:"omitempty,max=500"`
}

type updateDetailRequest struct {
	TeamID       *string `json:"team_id" validate:"omitempty,max=64"`
	PlayerID     *string `json:"player_id" validate:"omitempty,max=64"`
	AssistedByID *string `json:"assisted_by_id" validate:"omitempty,max=64"`
	Points       *int    `json:"points"`
	EventType    *string `json:"event_type" validate:"omitempty,max=32"`
	Minute       *int    `json:"minute" validate:"omitempty,min=0"`
	Period       *string `json:"period" validate:"omitempty,max=32"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
}

type assignScorekeeperRequest struct {
	ScorekeeperID string `json:"scorekeeper_id" validate:"required,max=64"`
}

type verifyScoreRequest struct {
	Verified           *bool  `json:"verified" validate:"required"`
	VerificationStatus string `json:"verification_status" validate:"omitempty,max=32"`
	Notes              string `json:"notes" validate:"omitempty,max=2000"`
}

type finalizeLeaderboardRequest struct {
	IsFinal *bool `json:"is_final"`
}

type recalculationJobRequest struct {
	SportEventID string `json:"sport_event_id" validate:"required,max=64"`
	DispatchID   string `json:"dispatch_id" validate:"omitempty,max=128"`
}

type scoreRecordDTO struct {
	ID                 string     `json:"id"`
	GameID             string     `json:"game_id"`
	SportEventID       string     `json:"sport_event_id"`
	Status             string     `json:"status"`
	FinalScoreSide1    *int       `json:"final_score_side1"`
	FinalScoreSide2    *int       `json:"final_score_side2"`
	WinnerTeamID       *string    `json:"winner_team_id"`
	IsDraw             bool       `json:"is_draw"`
	VerificationStatus string     `json:"verification_status"`
	ScorekeeperID      string     `json:"scorekeeper_id,omitempty"`
	VerifiedBy         string     `json:"verified_by,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type scoreDetailDTO struct {
	ID           string    `json:"id"`
	TeamID       string    `json:"team_id"`
	PlayerID     string    `json:"player_id,omitempty"`
	AssistedByID string    `json:"assisted_by_id,omitempty"`
	Points       int       `json:"points"`
	EventType    string    `json:"event_type"`
	Minute       *int      `json:"minute,omitempty"`
	Period       string    `json:"period,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type scoreViewDTO struct {
	scoreRecordDTO
	Details []scoreDetailDTO `json:"details"`
}

type detailWriteDTO struct {
	Record scoreRecordDTO  `json:"score"`
	Detail *scoreDetailDTO `json:"detail,omitempty"`
}

type verifyScoreDTO struct {
	Record        scoreRecordDTO          `json:"score"`
	Recalculation *usecase.TriggerResult `json:"recalculation,omitempty"`
}

type leaderboardSummaryDTO struct {
	ID           string     `json:"id"`
	SportEventID string     `json:"sport_event_id"`
	IsFinal      bool       `json:"is_final"`
	LastUpdated  *time.Time `json:"last_updated"`
}

type leaderboardDTO struct {
	leaderboardSummaryDTO
	SportEventName string     `json:"sport_event_name"`
	Entries        []entryDTO `json:"entries"`
}

type entryDTO struct {
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name,omitempty"`
	Position       int    `json:"position"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	Points         int    `json:"points"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	CleanSheets    int    `json:"clean_sheets"`
	YellowCards    int    `json:"yellow_cards"`
	RedCards       int    `json:"red_cards"`
}

type teamStandingDTO struct {
	SportEventID   string `json:"sport_event_id"`
	SportEventName string `json:"sport_event_name"`
	IsFinal        bool   `json:"is_final"`
	entryDTO
}

type dispatchDTO struct {
	DispatchID   string    `json:"dispatch_id"`
	JobName      string    `json:"job_name"`
	SportEventID string    `json:"sport_event_id"`
	Status       string    `json:"status"`
	Attempt      int       `json:"attempt"`
	ErrorMessage string    `json:"error_message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
	TraceID      string    `json:"trace_id,omitempty"`
}

func scoreRecordToDTO(r score.Record) scoreRecordDTO {
	out := scoreRecordDTO{
		ID:                 r.ID,
		GameID:             r.GameID,
		SportEventID:       r.SportEventID,
		Status:             string(r.Status),
		FinalScoreSide1:    r.FinalScoreSide1,
		FinalScoreSide2:    r.FinalScoreSide2,
		IsDraw:             r.IsDraw,
		VerificationStatus: string(r.VerificationStatus),
		ScorekeeperID:      r.ScorekeeperID,
		VerifiedBy:         r.VerifiedBy,
		VerifiedAt:         r.VerifiedAt,
		Notes:              r.Notes,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.WinnerTeamID != "" {
		winner := r.WinnerTeamID
		out.WinnerTeamID = &winner
	}
	return out
}

func scoreRecordsToDTO(records []score.Record) []scoreRecordDTO {
	out := make([]scoreRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, scoreRecordToDTO(r))
	}
	return out
}

func scoreDetailToDTO(d score.Detail) scoreDetailDTO {
	return scoreDetailDTO{
		ID:           d.ID,
		TeamID:       d.TeamID,
		PlayerID:     d.PlayerID,
		AssistedByID: d.AssistedByID,
		Points:       d.Points,
		EventType:    string(d.EventType),
		Minute:       d.Minute,
		Period:       d.Period,
		Description:  d.Description,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
	}
}

func scoreViewToDTO(v usecase.ScoreView) scoreViewDTO {
	details := make([]scoreDetailDTO, 0, len(v.Details))
	for _, d := range v.Details {
		details = append(details, scoreDetailToDTO(d))
	}
	return scoreViewDTO{scoreRecordDTO: scoreRecordToDTO(v.Record), Details: details}
}

func leaderboardSummaryToDTO(lb leaderboard.Leaderboard) leaderboardSummaryDTO {
	return leaderboardSummaryDTO{
		ID:           lb.ID,
		SportEventID: lb.SportEventID,
		IsFinal:      lb.IsFinal,
		LastUpdated:  lb.LastUpdated,
	}
}

func leaderboardViewToDTO(v usecase.LeaderboardView) leaderboardDTO {
	entries := make([]entryDTO, 0, len(v.Entries))
	for _, e := range v.Entries {
		entries = append(entries, entryToDTO(e))
	}
	return leaderboardDTO{
		leaderboardSummaryDTO: leaderboardSummaryToDTO(v.Leaderboard),
		SportEventName:        v.SportEvent.Name,
		Entries:               entries,
	}
}

func entryToDTO(e leaderboard.Entry) entryDTO {
	return entryDTO{
		TeamID:         e.TeamID,
		TeamName:       e.TeamName,
		Position:       e.Position,
		Played:         e.Played,
		Won:            e.Won,
		Drawn:          e.Drawn,
		Lost:           e.Lost,
		Points:         e.Points,
		GoalsFor:       e.GoalsFor,
		GoalsAgainst:   e.GoalsAgainst,
		GoalDifference: e.GoalDifference,
		CleanSheets:    e.CleanSheets,
		YellowCards:    e.YellowCards,
		RedCards:       e.RedCards,
	}
}

func teamStandingToDTO(s leaderboard.TeamStanding) teamStandingDTO {
	return teamStandingDTO{
		SportEventID:   s.Leaderboard.SportEventID,
		SportEventName: s.SportEventName,
		IsFinal:        s.Leaderboard.IsFinal,
		entryDTO:       entryToDTO(s.Entry),
	}
}

func dispatchToDTO(e jobscheduler.DispatchEvent) dispatchDTO {
	return dispatchDTO{
		DispatchID:   e.DispatchID,
		JobName:      e.JobName,
		SportEventID: e.SportEventID,
		Status:       string(e.Status),
		Attempt:      e.Attempt,
		ErrorMessage: e.ErrorMessage,
		OccurredAt:   e.OccurredAt,
		TraceID:      e.TraceID,
	}
}

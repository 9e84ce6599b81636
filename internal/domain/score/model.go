package score

import "time"

// Status is the lifecycle of the scoring process for one game.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending_verification"
	VerificationVerified   VerificationStatus = "verified"
	VerificationDisputed   VerificationStatus = "disputed"
)

// Record is the authoritative result of one game. WinnerTeamID and IsDraw are
// derived from the final scores and are only written through this package's rules.
type Record struct {
	ID                 string
	GameID             string
	SportEventID       string
	Status             Status
	FinalScoreSide1    *int
	FinalScoreSide2    *int
	WinnerTeamID       string
	IsDraw             bool
	VerificationStatus VerificationStatus
	ScorekeeperID      string
	VerifiedBy         string
	VerifiedAt         *time.Time
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CountsTowardStandings reports whether the record feeds leaderboard aggregation.
func (r Record) CountsTowardStandings() bool {
	return r.Status == StatusCompleted && r.VerificationStatus == VerificationVerified
}

func (r Record) HasFinalScores() bool {
	return r.FinalScoreSide1 != nil && r.FinalScoreSide2 != nil
}

// ListFilter narrows a record listing; zero fields match everything.
type ListFilter struct {
	Status       Status
	SportEventID string
}

func (f ListFilter) Matches(r Record) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return f.SportEventID == "" || r.SportEventID == f.SportEventID
}

type EventType string

const (
	EventGoal       EventType = "goal"
	EventAssist     EventType = "assist"
	EventOwnGoal    EventType = "own_goal"
	EventPenalty    EventType = "penalty"
	EventFreeKick   EventType = "free_kick"
	EventBasket     EventType = "basket"
	EventPoint      EventType = "point"
	EventYellowCard EventType = "yellow_card"
	EventRedCard    EventType = "red_card"
	EventOther      EventType = "other"
)

func (t EventType) Valid() bool {
	switch t {
	case EventGoal, EventAssist, EventOwnGoal, EventPenalty, EventFreeKick,
		EventBasket, EventPoint, EventYellowCard, EventRedCard, EventOther:
		return true
	}
	return false
}

// IsCard events are disciplinary and never add to the score.
func (t EventType) IsCard() bool {
	return t == EventYellowCard || t == EventRedCard
}

// Detail is one scoring or disciplinary occurrence within a game. Points are
// credited to the side of TeamID.
type Detail struct {
	ID            string
	ScoreRecordID string
	TeamID        string
	PlayerID      string
	AssistedByID  string
	Points        int
	EventType     EventType
	Minute        *int
	Period        string
	Description   string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CardTally struct {
	Yellow int
	Red    int
}

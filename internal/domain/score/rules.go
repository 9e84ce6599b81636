package score

import (
	"strings"
	"time"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  nil,
	StatusCancelled:  nil,
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// ValidateTransition accepts staying in the current status and the explicit edges only.
func ValidateTransition(from, to Status) error {
	if from == to && from.Valid() {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fieldErr("status", &TransitionError{From: from, To: to})
}

// Editable fails once the record is cancelled or its result has been verified.
func (r Record) Editable() error {
	if r.Status == StatusCancelled || r.VerificationStatus == VerificationVerified {
		return fieldErr("status", ErrLocked)
	}
	return nil
}

// DeriveOutcome recomputes WinnerTeamID and IsDraw from the final scores.
// Without both scores there is neither a winner nor a draw.
func DeriveOutcome(r Record, g game.Game) (Record, error) {
	r.WinnerTeamID = ""
	r.IsDraw = false
	if !r.HasFinalScores() {
		return r, nil
	}

	s1, s2 := *r.FinalScoreSide1, *r.FinalScoreSide2
	if s1 == s2 {
		r.IsDraw = true
		return r, nil
	}

	side1, side2, err := g.Sides()
	if err != nil {
		return r, fieldErr("game_id", err)
	}
	if s1 > s2 {
		r.WinnerTeamID = side1
	} else {
		r.WinnerTeamID = side2
	}
	return r, nil
}

// Update is a partial change requested by a scorekeeper or admin.
type Update struct {
	Status          *Status
	FinalScoreSide1 *int
	FinalScoreSide2 *int
}

func (u Update) changesScores() bool {
	return u.FinalScoreSide1 != nil || u.FinalScoreSide2 != nil
}

// ApplyUpdate validates u against the current record and returns the resulting record.
// The input record is never modified, so a rejected update leaves no trace.
func ApplyUpdate(current Record, g game.Game, u Update, hasScoringDetails bool, now time.Time) (Record, error) {
	next := current

	if u.Status != nil {
		if err := ValidateTransition(current.Status, *u.Status); err != nil {
			return current, err
		}
		next.Status = *u.Status
	}
	if err := current.Editable(); err != nil {
		return current, err
	}

	if u.changesScores() {
		if hasScoringDetails {
			field := "final_score_side1"
			if u.FinalScoreSide1 == nil {
				field = "final_score_side2"
			}
			return current, fieldErr(field, ErrScoresFromDetails)
		}
		if u.FinalScoreSide1 != nil {
			if *u.FinalScoreSide1 < 0 {
				return current, fieldErr("final_score_side1", ErrNegativeScore)
			}
			next.FinalScoreSide1 = intPtr(*u.FinalScoreSide1)
		}
		if u.FinalScoreSide2 != nil {
			if *u.FinalScoreSide2 < 0 {
				return current, fieldErr("final_score_side2", ErrNegativeScore)
			}
			next.FinalScoreSide2 = intPtr(*u.FinalScoreSide2)
		}
	}

	if next.Status == StatusCompleted {
		if next.FinalScoreSide1 == nil {
			return current, fieldErr("final_score_side1", ErrMissingFinalScore)
		}
		if next.FinalScoreSide2 == nil {
			return current, fieldErr("final_score_side2", ErrMissingFinalScore)
		}
	}

	return finish(current, next, g, now)
}

// ApplyDetails recomputes the final scores after the detail set of the record
// moved from before to after. Scores follow the scoring details only: while
// neither set holds one, manually entered scores are kept as they are.
func ApplyDetails(current Record, g game.Game, before, after []Detail, now time.Time) (Record, error) {
	if err := current.Editable(); err != nil {
		return current, err
	}

	next := current
	if HasScoringDetails(before) || HasScoringDetails(after) {
		side1, side2, err := Tally(g, after)
		if err != nil {
			return current, err
		}
		next.FinalScoreSide1 = intPtr(side1)
		next.FinalScoreSide2 = intPtr(side2)
	} else if err := checkTeams(g, after); err != nil {
		return current, err
	}
	return finish(current, next, g, now)
}

// HasScoringDetails reports whether any detail contributes points to a side.
func HasScoringDetails(details []Detail) bool {
	for _, d := range details {
		if !d.EventType.IsCard() {
			return true
		}
	}
	return false
}

func checkTeams(g game.Game, details []Detail) error {
	for _, d := range details {
		if g.SideOf(d.TeamID) == game.SideNone {
			return fieldErr("team_id", ErrTeamNotInGame)
		}
	}
	return nil
}

// finish derives the outcome and moves a completed record back to pending
// verification whenever it becomes completed or its result changes.
func finish(current, next Record, g game.Game, now time.Time) (Record, error) {
	next, err := DeriveOutcome(next, g)
	if err != nil {
		return current, err
	}

	becameCompleted := current.Status != StatusCompleted && next.Status == StatusCompleted
	resultChanged := next.Status == StatusCompleted &&
		(!sameScore(current.FinalScoreSide1, next.FinalScoreSide1) || !sameScore(current.FinalScoreSide2, next.FinalScoreSide2))
	if becameCompleted || resultChanged {
		next.VerificationStatus = VerificationPending
	}

	next.UpdatedAt = now
	return next, nil
}

// Tally sums non-card detail points per side.
func Tally(g game.Game, details []Detail) (int, int, error) {
	var side1, side2 int
	for _, d := range details {
		if d.EventType.IsCard() {
			continue
		}
		switch g.SideOf(d.TeamID) {
		case game.Side1:
			side1 += d.Points
		case game.Side2:
			side2 += d.Points
		default:
			return 0, 0, fieldErr("team_id", ErrTeamNotInGame)
		}
	}
	return side1, side2, nil
}

// CountCards groups card events by team.
func CountCards(details []Detail) map[string]CardTally {
	out := make(map[string]CardTally)
	for _, d := range details {
		if !d.EventType.IsCard() {
			continue
		}
		tally := out[d.TeamID]
		if d.EventType == EventYellowCard {
			tally.Yellow++
		} else {
			tally.Red++
		}
		out[d.TeamID] = tally
	}
	return out
}

// Roster maps player id to team id for the players referenced by a detail.
type Roster interface {
	BelongsTo(playerID, teamID string) bool
}

// ValidateDetail checks a detail against the game participants and team rosters.
func ValidateDetail(d Detail, g game.Game, roster Roster) error {
	if strings.TrimSpace(d.TeamID) == "" || g.SideOf(d.TeamID) == game.SideNone {
		return fieldErr("team_id", ErrTeamNotInGame)
	}
	if !d.EventType.Valid() {
		return fieldErr("event_type", ErrInvalidEventType)
	}
	if d.EventType.IsCard() {
		if d.Points != 0 {
			return fieldErr("points", ErrCardPoints)
		}
	} else if d.Points <= 0 {
		return fieldErr("points", ErrNonPositivePoints)
	}
	if d.Minute != nil && *d.Minute < 0 {
		return fieldErr("minute", ErrNegativeMinute)
	}
	if d.PlayerID != "" && (roster == nil || !roster.BelongsTo(d.PlayerID, d.TeamID)) {
		return fieldErr("player_id", ErrPlayerTeamMismatch)
	}
	if d.AssistedByID != "" && (roster == nil || !roster.BelongsTo(d.AssistedByID, d.TeamID)) {
		return fieldErr("assisted_by_id", ErrPlayerTeamMismatch)
	}
	return nil
}

// AssignScorekeeper hands the record to another scorekeeper. Scores and
// verification state are untouched.
func AssignScorekeeper(current Record, scorekeeperID string, now time.Time) (Record, error) {
	scorekeeperID = strings.TrimSpace(scorekeeperID)
	if scorekeeperID == "" {
		return current, fieldErr("scorekeeper_id", ErrMissingScorekeeper)
	}
	if err := current.Editable(); err != nil {
		return current, err
	}
	next := current
	next.ScorekeeperID = scorekeeperID
	next.UpdatedAt = now
	return next, nil
}

// Verification is an admin sign-off or rejection of a completed result.
type Verification struct {
	Verified bool
	Status   VerificationStatus
	Notes    string
	ActorID  string
	At       time.Time
}

// ApplyVerification sets the verification state. A positive decision may keep the
// record pending; a negative one may mark it disputed. Notes are appended.
func ApplyVerification(current Record, v Verification) (Record, error) {
	if current.Status != StatusCompleted {
		return current, fieldErr("status", ErrNotCompleted)
	}

	status := v.Status
	if v.Verified {
		if status == "" {
			status = VerificationVerified
		}
		if status != VerificationVerified && status != VerificationPending {
			return current, fieldErr("verification_status", ErrInvalidVerification)
		}
	} else {
		if status == "" {
			status = VerificationUnverified
		}
		if status != VerificationUnverified && status != VerificationDisputed {
			return current, fieldErr("verification_status", ErrInvalidVerification)
		}
	}

	next := current
	next.VerificationStatus = status
	if status == VerificationVerified {
		at := v.At
		next.VerifiedBy = v.ActorID
		next.VerifiedAt = &at
	} else {
		next.VerifiedBy = ""
		next.VerifiedAt = nil
	}
	if notes := strings.TrimSpace(v.Notes); notes != "" {
		if next.Notes != "" {
			next.Notes += "\n"
		}
		next.Notes += notes
	}
	next.UpdatedAt = v.At
	return next, nil
}

// AffectsStandings reports whether moving from before to after can change the
// sport event's leaderboard.
func AffectsStandings(before, after Record) bool {
	return before.CountsTowardStandings() || after.CountsTowardStandings()
}

func sameScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtr(v int) *int {
	return &v
}

package leaderboard

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	"github.com/riskibarqy/sports-tournament/internal/domain/score"
)

const (
	PointsWin  = 3
	PointsDraw = 1
)

// Compute accumulates standings from qualifying game results and ranks them.
// Results that break the score record invariants abort the computation.
func Compute(results []GameResult) ([]Entry, error) {
	index := make(map[string]int)
	entries := make([]Entry, 0, len(results)*2)
	entryFor := func(teamID string) *Entry {
		if i, ok := index[teamID]; ok {
			return &entries[i]
		}
		index[teamID] = len(entries)
		entries = append(entries, Entry{TeamID: teamID})
		return &entries[len(entries)-1]
	}

	for _, r := range results {
		if err := checkResult(r); err != nil {
			return nil, err
		}
		accumulate(entryFor(r.Side1TeamID), r, r.Side1Score, r.Side2Score)
		accumulate(entryFor(r.Side2TeamID), r, r.Side2Score, r.Side1Score)
	}

	for i := range entries {
		entries[i].GoalDifference = entries[i].GoalsFor - entries[i].GoalsAgainst
	}
	Rank(entries)
	return entries, nil
}

func accumulate(e *Entry, r GameResult, goalsFor, goalsAgainst int) {
	e.Played++
	e.GoalsFor += goalsFor
	e.GoalsAgainst += goalsAgainst
	if goalsAgainst == 0 {
		e.CleanSheets++
	}

	switch {
	case r.IsDraw:
		e.Drawn++
		e.Points += PointsDraw
	case r.WinnerTeamID == e.TeamID:
		e.Won++
		e.Points += PointsWin
	default:
		e.Lost++
	}

	cards := r.Cards[e.TeamID]
	e.YellowCards += cards.Yellow
	e.RedCards += cards.Red
}

func checkResult(r GameResult) error {
	if r.Side1TeamID == "" || r.Side2TeamID == "" {
		return errors.AssertionFailedf("game %s: qualifying game without two resolved teams", r.GameID)
	}
	if r.Side1TeamID == r.Side2TeamID {
		return errors.AssertionFailedf("game %s: team %s on both sides", r.GameID, r.Side1TeamID)
	}
	if r.Side1Score < 0 || r.Side2Score < 0 {
		return errors.AssertionFailedf("game %s: negative final score %d-%d", r.GameID, r.Side1Score, r.Side2Score)
	}
	if r.IsDraw != (r.Side1Score == r.Side2Score) {
		return errors.AssertionFailedf("game %s: draw flag disagrees with score %d-%d", r.GameID, r.Side1Score, r.Side2Score)
	}
	if !r.IsDraw {
		want := r.Side1TeamID
		if r.Side2Score > r.Side1Score {
			want = r.Side2TeamID
		}
		if r.WinnerTeamID != want {
			return errors.AssertionFailedf("game %s: winner %q does not match score %d-%d", r.GameID, r.WinnerTeamID, r.Side1Score, r.Side2Score)
		}
	}
	for teamID := range r.Cards {
		if teamID != r.Side1TeamID && teamID != r.Side2TeamID {
			return errors.AssertionFailedf("game %s: card event for non-participant team %s", r.GameID, teamID)
		}
	}
	return nil
}

// Less orders by points, goal difference and goals for, all descending, then team id.
func Less(a, b Entry) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference > b.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return a.TeamID < b.TeamID
}

// Rank sorts entries in place and assigns 1-based positions.
func Rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
}

// PlanFunc decides what a recalculation writes given the locked leaderboard and
// the sport event's qualifying results.
type PlanFunc func(board Leaderboard, results []GameResult) (Plan, error)

// PlanRecalculation never touches a final leaderboard. Without results only the
// timestamp moves.
func PlanRecalculation(board Leaderboard, results []GameResult) (Plan, error) {
	if board.IsFinal {
		return Plan{Outcome: OutcomeFrozen}, nil
	}
	if len(results) == 0 {
		return Plan{Outcome: OutcomeNoResults}, nil
	}
	entries, err := Compute(results)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Outcome: OutcomeRecalculated, Entries: entries, Games: len(results)}, nil
}

// ResultFromRecord turns a completed and verified score record into the aggregator
// input. A record that cannot be placed on two sides is an invariant violation.
func ResultFromRecord(rec score.Record, g game.Game, cards map[string]score.CardTally) (GameResult, error) {
	side1, side2, err := g.Sides()
	if err != nil {
		return GameResult{}, errors.WithAssertionFailure(errors.Wrapf(err, "game %s", g.ID))
	}
	if !rec.HasFinalScores() {
		return GameResult{}, errors.AssertionFailedf("verified score %s has no final score", rec.ID)
	}
	return GameResult{
		GameID:       g.ID,
		Side1TeamID:  side1,
		Side2TeamID:  side2,
		Side1Score:   *rec.FinalScoreSide1,
		Side2Score:   *rec.FinalScoreSide2,
		IsDraw:       rec.IsDraw,
		WinnerTeamID: rec.WinnerTeamID,
		Cards:        cards,
	}, nil
}

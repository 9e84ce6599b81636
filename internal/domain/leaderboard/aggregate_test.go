package leaderboard

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-tournament/internal/domain/score"
)

func result(gameID, side1, side2 string, s1, s2 int) GameResult {
	r := GameResult{GameID: gameID, Side1TeamID: side1, Side2TeamID: side2, Side1Score: s1, Side2Score: s2}
	switch {
	case s1 == s2:
		r.IsDraw = true
	case s1 > s2:
		r.WinnerTeamID = side1
	default:
		r.WinnerTeamID = side2
	}
	return r
}

func byTeam(entries []Entry) map[string]Entry {
	out := make(map[string]Entry, len(entries))
	for _, e := range entries {
		out[e.TeamID] = e
	}
	return out
}

func TestCompute_SingleWin(t *testing.T) {
	t.Parallel()

	entries, err := Compute([]GameResult{result("g1", "team-a", "team-b", 3, 2)})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got := byTeam(entries)
	assert.Equal(t, Entry{TeamID: "team-a", Position: 1, Stats: Stats{
		Played: 1, Won: 1, Points: 3, GoalsFor: 3, GoalsAgainst: 2, GoalDifference: 1,
	}}, got["team-a"])
	assert.Equal(t, Entry{TeamID: "team-b", Position: 2, Stats: Stats{
		Played: 1, Lost: 1, Points: 0, GoalsFor: 2, GoalsAgainst: 3, GoalDifference: -1,
	}}, got["team-b"])
}

func TestCompute_DrawIsDeterministic(t *testing.T) {
	t.Parallel()

	results := []GameResult{result("g1", "team-d", "team-c", 1, 1)}
	first, err := Compute(results)
	require.NoError(t, err)
	second, err := Compute(results)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for _, e := range first {
		assert.Equal(t, 1, e.Points)
		assert.Equal(t, 1, e.Drawn)
		assert.Equal(t, 0, e.GoalDifference)
		assert.Equal(t, 1, e.GoalsFor)
	}
	assert.Equal(t, "team-c", first[0].TeamID)
	assert.Equal(t, "team-d", first[1].TeamID)
}

func TestCompute_CleanSheetsAndCards(t *testing.T) {
	t.Parallel()

	r := result("g1", "team-a", "team-b", 2, 0)
	r.Cards = map[string]score.CardTally{"team-b": {Yellow: 2, Red: 1}}
	entries, err := Compute([]GameResult{r, result("g2", "team-b", "team-a", 0, 0)})
	require.NoError(t, err)

	got := byTeam(entries)
	assert.Equal(t, 2, got["team-a"].CleanSheets)
	assert.Equal(t, 1, got["team-b"].CleanSheets)
	assert.Equal(t, 2, got["team-b"].YellowCards)
	assert.Equal(t, 1, got["team-b"].RedCards)
	assert.Zero(t, got["team-a"].YellowCards)
}

func TestCompute_TieBreakOrder(t *testing.T) {
	t.Parallel()

	entries, err := Compute([]GameResult{
		result("g1", "a", "x", 1, 0),
		result("g2", "b", "x", 3, 0),
		result("g3", "c", "y", 4, 1),
		result("g4", "y", "x", 0, 0),
	})
	require.NoError(t, err)

	order := make([]string, 0, len(entries))
	for _, e := range entries {
		order = append(order, e.TeamID)
	}
	// b and c tie on points and goal difference; c scored more.
	assert.Equal(t, []string{"c", "b", "a", "y", "x"}, order)
}

func TestCompute_InvariantViolationsAreFatal(t *testing.T) {
	t.Parallel()

	bad := []GameResult{
		{GameID: "g1", Side1TeamID: "a", Side1Score: 1},
		{GameID: "g2", Side1TeamID: "a", Side2TeamID: "a", IsDraw: true},
		{GameID: "g3", Side1TeamID: "a", Side2TeamID: "b", Side1Score: -1, Side2Score: 0, WinnerTeamID: "b"},
		{GameID: "g4", Side1TeamID: "a", Side2TeamID: "b", Side1Score: 1, Side2Score: 1},
		{GameID: "g5", Side1TeamID: "a", Side2TeamID: "b", Side1Score: 2, Side2Score: 1, WinnerTeamID: "b"},
		{GameID: "g6", Side1TeamID: "a", Side2TeamID: "b", IsDraw: true, Cards: map[string]score.CardTally{"z": {Red: 1}}},
	}
	for _, r := range bad {
		_, err := Compute([]GameResult{r})
		require.Error(t, err, r.GameID)
		assert.True(t, errors.HasAssertionFailure(err), r.GameID)
	}
}

func TestCompute_Invariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	teams := []string{"t1", "t2", "t3", "t4", "t5", "t6"}
	results := make([]GameResult, 0, 60)
	for i := 0; i < 60; i++ {
		a := rng.Intn(len(teams))
		b := (a + 1 + rng.Intn(len(teams)-1)) % len(teams)
		results = append(results, result(fmt.Sprintf("g%d", i), teams[a], teams[b], rng.Intn(5), rng.Intn(5)))
	}

	entries, err := Compute(results)
	require.NoError(t, err)

	totalPlayed := 0
	for i, e := range entries {
		assert.Equal(t, i+1, e.Position)
		assert.Equal(t, PointsWin*e.Won+PointsDraw*e.Drawn, e.Points)
		assert.Equal(t, e.Won+e.Drawn+e.Lost, e.Played)
		assert.Equal(t, e.GoalsFor-e.GoalsAgainst, e.GoalDifference)
		totalPlayed += e.Played

		if i == 0 {
			continue
		}
		prev := entries[i-1]
		assert.False(t, Less(e, prev), "%s ranked below %s", prev.TeamID, e.TeamID)
	}
	assert.Equal(t, 2*len(results), totalPlayed)

	again, err := Compute(results)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func TestPlanRecalculation(t *testing.T) {
	t.Parallel()

	results := []GameResult{result("g1", "a", "b", 1, 0)}

	plan, err := PlanRecalculation(Leaderboard{IsFinal: true}, results)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFrozen, plan.Outcome)
	assert.Empty(t, plan.Entries)

	plan, err = PlanRecalculation(Leaderboard{}, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoResults, plan.Outcome)

	plan, err = PlanRecalculation(Leaderboard{}, results)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRecalculated, plan.Outcome)
	assert.Equal(t, 1, plan.Games)
	assert.Len(t, plan.Entries, 2)
}

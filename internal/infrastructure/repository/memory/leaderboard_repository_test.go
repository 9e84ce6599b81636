package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/domain/score"
	"github.com/riskibarqy/sports-tournament/internal/platform/id"
)

type testRepos struct {
	scores *ScoreRepository
	games  *GameRepository
	boards *LeaderboardRepository
}

func newFixture(games ...game.Game) testRepos {
	scores := NewScoreRepository()
	gameRepo := NewGameRepository(games)
	return testRepos{
		scores: scores,
		games:  gameRepo,
		boards: NewLeaderboardRepository(NewGameResults(scores, gameRepo), &id.Sequence{Prefix: "lb"}),
	}
}

func twoTeamGame(gameID, sportEventID, a, b string) game.Game {
	return game.Game{
		ID:           gameID,
		SportEventID: sportEventID,
		Participants: []game.Participant{
			{TeamID: a, Designation: game.DesignationTeamA},
			{TeamID: b, Designation: game.DesignationTeamB},
		},
	}
}

func (f testRepos) addResult(t *testing.T, g game.Game, s1, s2 int, verification score.VerificationStatus) {
	t.Helper()
	rec := score.Record{
		ID:                 "score-" + g.ID,
		GameID:             g.ID,
		SportEventID:       g.SportEventID,
		Status:             score.StatusCompleted,
		FinalScoreSide1:    &s1,
		FinalScoreSide2:    &s2,
		VerificationStatus: verification,
	}
	rec, err := score.DeriveOutcome(rec, g)
	require.NoError(t, err)
	require.NoError(t, f.scores.Create(context.Background(), rec))
}

var now = time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)

func TestLeaderboardRepository_RecalculateExcludesUnverified(t *testing.T) {
	t.Parallel()

	g1 := twoTeamGame("g1", "se1", "team-a", "team-b")
	g2 := twoTeamGame("g2", "se1", "team-a", "team-c")
	f := newFixture(g1, g2)
	f.addResult(t, g1, 3, 2, score.VerificationVerified)
	f.addResult(t, g2, 0, 5, score.VerificationPending)

	board, plan, err := f.boards.Recalculate(context.Background(), "se1", now, leaderboard.PlanRecalculation)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.OutcomeRecalculated, plan.Outcome)
	require.NotNil(t, board.LastUpdated)
	assert.Equal(t, now, *board.LastUpdated)

	entries, err := f.boards.ListEntries(context.Background(), board.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "team-a", entries[0].TeamID)
	assert.Equal(t, 1, entries[0].Played)
	assert.Equal(t, 3, entries[0].Points)
	assert.Equal(t, "team-b", entries[1].TeamID)
	assert.Equal(t, 2, entries[1].Position)
	for _, e := range entries {
		assert.Equal(t, board.ID, e.LeaderboardID)
		assert.NotEmpty(t, e.ID)
	}
}

func TestLeaderboardRepository_NoResultsOnlyBumpsTimestamp(t *testing.T) {
	t.Parallel()

	g1 := twoTeamGame("g1", "se1", "team-a", "team-b")
	f := newFixture(g1)
	f.addResult(t, g1, 1, 0, score.VerificationPending)

	board, plan, err := f.boards.Recalculate(context.Background(), "se1", now, leaderboard.PlanRecalculation)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.OutcomeNoResults, plan.Outcome)
	require.NotNil(t, board.LastUpdated)

	entries, err := f.boards.ListEntries(context.Background(), board.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboardRepository_FinalFreezesEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g1 := twoTeamGame("g1", "se1", "team-a", "team-b")
	g2 := twoTeamGame("g2", "se1", "team-b", "team-c")
	f := newFixture(g1, g2)
	f.addResult(t, g1, 2, 0, score.VerificationVerified)

	board, _, err := f.boards.Recalculate(ctx, "se1", now, leaderboard.PlanRecalculation)
	require.NoError(t, err)
	before, err := f.boards.ListEntries(ctx, board.ID)
	require.NoError(t, err)

	final, err := f.boards.SetFinal(ctx, "se1", true, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, final.IsFinal)
	assert.Equal(t, now, *final.LastUpdated, "finalizing does not recalculate")

	f.addResult(t, g2, 4, 0, score.VerificationVerified)
	frozen, plan, err := f.boards.Recalculate(ctx, "se1", now.Add(time.Hour), leaderboard.PlanRecalculation)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.OutcomeFrozen, plan.Outcome)
	assert.Equal(t, now, *frozen.LastUpdated)

	after, err := f.boards.ListEntries(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = f.boards.SetFinal(ctx, "se1", false, now.Add(2*time.Hour))
	require.NoError(t, err)
	_, plan, err = f.boards.Recalculate(ctx, "se1", now.Add(3*time.Hour), leaderboard.PlanRecalculation)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.OutcomeRecalculated, plan.Outcome)
	assert.Len(t, plan.Entries, 3)
}

func TestLeaderboardRepository_RecalculationReplacesStaleEntriesAndKeepsIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g1 := twoTeamGame("g1", "se1", "team-a", "team-b")
	g2 := twoTeamGame("g2", "se1", "team-a", "team-c")
	f := newFixture(g1, g2)
	f.addResult(t, g1, 1, 0, score.VerificationVerified)
	f.addResult(t, g2, 1, 1, score.VerificationVerified)

	board, _, err := f.boards.Recalculate(ctx, "se1", now, leaderboard.PlanRecalculation)
	require.NoError(t, err)
	first, err := f.boards.ListEntries(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, first, 3)

	_, err = f.scores.Mutate(ctx, "score-g2", func(current score.Record, _ []score.Detail) (score.Mutation, error) {
		current.VerificationStatus = score.VerificationDisputed
		return score.Mutation{Record: current}, nil
	})
	require.NoError(t, err)

	_, _, err = f.boards.Recalculate(ctx, "se1", now.Add(time.Minute), leaderboard.PlanRecalculation)
	require.NoError(t, err)
	second, err := f.boards.ListEntries(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, second, 2)

	ids := map[string]string{}
	for _, e := range first {
		ids[e.TeamID] = e.ID
	}
	for _, e := range second {
		assert.Equal(t, ids[e.TeamID], e.ID)
		assert.NotEqual(t, "team-c", e.TeamID)
	}
}

func TestLeaderboardRepository_ConcurrentRecalculationsAreSerialized(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	games := []game.Game{
		twoTeamGame("g1", "se1", "team-a", "team-b"),
		twoTeamGame("g2", "se1", "team-c", "team-d"),
		twoTeamGame("g3", "se2", "team-a", "team-c"),
	}
	f := newFixture(games...)
	f.addResult(t, games[0], 2, 1, score.VerificationVerified)
	f.addResult(t, games[1], 0, 0, score.VerificationVerified)
	f.addResult(t, games[2], 1, 3, score.VerificationVerified)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sportEventID := "se1"
			if i%2 == 1 {
				sportEventID = "se2"
			}
			_, _, err := f.boards.Recalculate(ctx, sportEventID, now.Add(time.Duration(i)*time.Second), leaderboard.PlanRecalculation)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	board, exists, err := f.boards.GetBySportEvent(ctx, "se1")
	require.NoError(t, err)
	require.True(t, exists)
	entries, err := f.boards.ListEntries(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Position)
	}

	all, err := f.boards.List(ctx, leaderboard.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	standings, err := f.boards.ListTeamStandings(ctx, "team-a")
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, "se1", standings[0].Leaderboard.SportEventID)
	assert.Equal(t, "se2", standings[1].Leaderboard.SportEventID)
}

func TestLeaderboardRepository_PlanErrorLeavesNoTrace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()
	boom := errors.New("boom")

	_, _, err := f.boards.Recalculate(ctx, "se1", now, func(leaderboard.Leaderboard, []leaderboard.GameResult) (leaderboard.Plan, error) {
		return leaderboard.Plan{}, boom
	})
	require.ErrorIs(t, err, boom)

	_, exists, err := f.boards.GetBySportEvent(ctx, "se1")
	require.NoError(t, err)
	assert.False(t, exists)
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/domain/sportevent"
	"github.com/riskibarqy/sports-tournament/internal/domain/team"
	gamemock "github.com/riskibarqy/sports-tournament/internal/mocks/domain/game"
	leaderboardmock "github.com/riskibarqy/sports-tournament/internal/mocks/domain/leaderboard"
	sporteventmock "github.com/riskibarqy/sports-tournament/internal/mocks/domain/sportevent"
	teammock "github.com/riskibarqy/sports-tournament/internal/mocks/domain/team"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
)

type leaderboardMocks struct {
	boards *leaderboardmock.Repository
	events *sporteventmock.Repository
	games  *gamemock.Repository
	teams  *teammock.Repository
}

func newMockedLeaderboardService(t *testing.T) (*LeaderboardService, leaderboardMocks) {
	t.Helper()
	m := leaderboardMocks{
		boards: leaderboardmock.NewRepository(t),
		events: sporteventmock.NewRepository(t),
		games:  gamemock.NewRepository(t),
		teams:  teammock.NewRepository(t),
	}
	svc := NewLeaderboardService(m.boards, m.events, m.games, m.teams, 2, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, m
}

func TestLeaderboardService_RecalculateUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, m := newMockedLeaderboardService(t)
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m.events.On("GetByID", mock.Anything, "se-1").Return(sportevent.SportEvent{ID: "se-1"}, true, nil).Once()
	m.boards.
		On("Recalculate", mock.Anything, "se-1", updated, mock.AnythingOfType("leaderboard.PlanFunc")).
		Return(
			leaderboard.Leaderboard{ID: "lb-1", SportEventID: "se-1", LastUpdated: &updated},
			leaderboard.Plan{Outcome: leaderboard.OutcomeRecalculated, Games: 3, Entries: make([]leaderboard.Entry, 4)},
			nil,
		).
		Once()

	res, err := svc.Recalculate(ctx, " se-1 ")
	require.NoError(t, err)
	assert.Equal(t, leaderboard.OutcomeRecalculated, res.Outcome)
	assert.Equal(t, 3, res.Games)
	assert.Equal(t, 4, res.Entries)
	assert.Equal(t, &updated, res.LastUpdated)
}

func TestLeaderboardService_RecalculateMissingSportEventUsingMockery(t *testing.T) {
	t.Parallel()

	svc, m := newMockedLeaderboardService(t)
	m.events.On("GetByID", mock.Anything, "se-x").Return(sportevent.SportEvent{}, false, nil).Once()

	_, err := svc.Recalculate(context.Background(), "se-x")
	assert.ErrorIs(t, err, ErrNotFound)
	m.boards.AssertNotCalled(t, "Recalculate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderboardService_RecalculateAllReportsPerEventFailures(t *testing.T) {
	t.Parallel()

	svc, m := newMockedLeaderboardService(t)
	storeErr := errors.New("connection reset")

	m.games.On("ListSportEventIDs", mock.Anything).Return([]string{"se-b", "se-a"}, nil).Once()
	m.events.On("GetByID", mock.Anything, "se-a").Return(sportevent.SportEvent{ID: "se-a"}, true, nil).Once()
	m.events.On("GetByID", mock.Anything, "se-b").Return(sportevent.SportEvent{ID: "se-b"}, true, nil).Once()
	m.boards.On("Recalculate", mock.Anything, "se-a", mock.Anything, mock.Anything).
		Return(leaderboard.Leaderboard{ID: "lb-a"}, leaderboard.Plan{Outcome: leaderboard.OutcomeNoResults}, nil).Once()
	m.boards.On("Recalculate", mock.Anything, "se-b", mock.Anything, mock.Anything).
		Return(leaderboard.Leaderboard{}, leaderboard.Plan{}, storeErr).Once()

	res, err := svc.RecalculateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.SportEventCount)
	assert.Equal(t, 1, res.FailedCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "se-a", res.Items[0].SportEventID)
	assert.Equal(t, leaderboard.OutcomeNoResults, res.Items[0].Outcome)
	assert.Equal(t, "se-b", res.Items[1].SportEventID)
	assert.Contains(t, res.Items[1].Error, "connection reset")
}

func TestLeaderboardService_GetEnrichesTeamNamesUsingMockery(t *testing.T) {
	t.Parallel()

	svc, m := newMockedLeaderboardService(t)
	m.events.On("GetByID", mock.Anything, "se-1").Return(sportevent.SportEvent{ID: "se-1", Name: "Cup"}, true, nil).Once()
	m.boards.On("GetBySportEvent", mock.Anything, "se-1").Return(leaderboard.Leaderboard{ID: "lb-1", SportEventID: "se-1"}, true, nil).Once()
	m.boards.On("ListEntries", mock.Anything, "lb-1").Return([]leaderboard.Entry{
		{TeamID: "team-a", Position: 1},
		{TeamID: "team-b", Position: 2},
	}, nil).Once()
	m.teams.On("ListByIDs", mock.Anything, []string{"team-a", "team-b"}).Return([]team.Team{
		{ID: "team-b", Name: "Bravo"},
		{ID: "team-a", Name: "Alpha"},
	}, nil).Once()

	view, err := svc.Get(context.Background(), "se-1")
	require.NoError(t, err)
	assert.Equal(t, "Cup", view.SportEvent.Name)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "Alpha", view.Entries[0].TeamName)
	assert.Equal(t, "Bravo", view.Entries[1].TeamName)
}

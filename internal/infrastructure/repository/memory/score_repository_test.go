package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-tournament/internal/domain/score"
)

func TestScoreRepository_CreateIsUniquePerGame(t *testing.T) {
	t.Parallel()

	repo := NewScoreRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, score.Record{ID: "s1", GameID: "g1"}))
	assert.ErrorIs(t, repo.Create(ctx, score.Record{ID: "s2", GameID: "g1"}), score.ErrAlreadyExists)

	got, exists, err := repo.GetByGameID(ctx, "g1")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "s1", got.ID)
}

func TestScoreRepository_MutateAppliesDetailChanges(t *testing.T) {
	t.Parallel()

	repo := NewScoreRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, score.Record{ID: "s1", GameID: "g1", Status: score.StatusInProgress}))

	for _, detailID := range []string{"d1", "d2"} {
		detailID := detailID
		_, err := repo.Mutate(ctx, "s1", func(current score.Record, _ []score.Detail) (score.Mutation, error) {
			return score.Mutation{Record: current, UpsertDetail: &score.Detail{ID: detailID, TeamID: "a", Points: 1, EventType: score.EventGoal}}, nil
		})
		require.NoError(t, err)
	}

	_, err := repo.Mutate(ctx, "s1", func(current score.Record, details []score.Detail) (score.Mutation, error) {
		require.Len(t, details, 2)
		patched := details[0]
		patched.Points = 2
		return score.Mutation{Record: current, UpsertDetail: &patched}, nil
	})
	require.NoError(t, err)

	_, err = repo.Mutate(ctx, "s1", func(current score.Record, _ []score.Detail) (score.Mutation, error) {
		return score.Mutation{Record: current, DeleteDetailID: "d2"}, nil
	})
	require.NoError(t, err)

	details, err := repo.ListDetails(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "d1", details[0].ID)
	assert.Equal(t, 2, details[0].Points)
	assert.Equal(t, "s1", details[0].ScoreRecordID)
}

func TestScoreRepository_MutateErrorWritesNothing(t *testing.T) {
	t.Parallel()

	repo := NewScoreRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, score.Record{ID: "s1", GameID: "g1", Status: score.StatusInProgress}))

	boom := errors.New("rejected")
	_, err := repo.Mutate(ctx, "s1", func(current score.Record, _ []score.Detail) (score.Mutation, error) {
		current.Status = score.StatusCancelled
		return score.Mutation{}, boom
	})
	require.ErrorIs(t, err, boom)

	got, _, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, score.StatusInProgress, got.Status)

	_, err = repo.Mutate(ctx, "missing", func(current score.Record, _ []score.Detail) (score.Mutation, error) {
		return score.Mutation{Record: current}, nil
	})
	assert.ErrorIs(t, err, score.ErrRecordNotFound)
}

//go:build integration

package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/riskibarqy/sports-tournament/internal/domain/jobscheduler"
	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/domain/score"
	"github.com/riskibarqy/sports-tournament/internal/platform/id"
)

func startDatabase(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("tournament"),
		tcpostgres.WithUsername("tournament"),
		tcpostgres.WithPassword("tournament"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "db", "migrations")
	m, err := migrate.New("file://"+filepath.ToSlash(migrationsDir), dsn)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("apply migrations: %v", err)
	}
	_, _ = m.Close()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	db.MustExecContext(ctx, `
INSERT INTO sport_events (public_id, name, sport) VALUES ('se-1', 'Futsal Open', 'futsal');
INSERT INTO teams (public_id, name) VALUES ('team-a', 'Alpha'), ('team-b', 'Bravo');
INSERT INTO players (public_id, team_public_id, name) VALUES ('p-a1', 'team-a', 'Ari'), ('p-b1', 'team-b', 'Bima');
INSERT INTO games (public_id, sport_event_public_id, name, scorekeeper_user_id) VALUES ('g-1', 'se-1', 'A vs B', 'keeper-1');
INSERT INTO game_teams (game_public_id, team_public_id, designation) VALUES ('g-1', 'team-a', 'home'), ('g-1', 'team-b', 'away');`)
	return db
}

func TestPostgresRepositories_ScoreToLeaderboard(t *testing.T) {
	db := startDatabase(t)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	games := NewGameRepository(db)
	g, exists, err := games.GetByID(ctx, "g-1")
	require.NoError(t, err)
	require.True(t, exists)
	side1, side2, err := g.Sides()
	require.NoError(t, err)
	assert.Equal(t, "team-a", side1)
	assert.Equal(t, "team-b", side2)

	scores := NewScoreRepository(db)
	rec := score.Record{ID: "sr-1", GameID: "g-1", SportEventID: "se-1", Status: score.StatusInProgress,
		VerificationStatus: score.VerificationUnverified, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, scores.Create(ctx, rec))
	assert.ErrorIs(t, scores.Create(ctx, score.Record{ID: "sr-2", GameID: "g-1", SportEventID: "se-1",
		Status: score.StatusPending, VerificationStatus: score.VerificationUnverified, CreatedAt: now, UpdatedAt: now}), score.ErrAlreadyExists)

	live, err := scores.List(ctx, score.ListFilter{Status: score.StatusInProgress, SportEventID: "se-1"})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "sr-1", live[0].ID)
	none, err := scores.List(ctx, score.ListFilter{Status: score.StatusCompleted})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = scores.Mutate(ctx, "sr-1", func(current score.Record, details []score.Detail) (score.Mutation, error) {
		assert.Empty(t, details)
		d := score.Detail{ID: "d-1", TeamID: "team-b", PlayerID: "p-b1", EventType: score.EventYellowCard, CreatedAt: now, UpdatedAt: now}
		return score.Mutation{Record: current, UpsertDetail: &d}, nil
	})
	require.NoError(t, err)

	s1, s2 := 2, 1
	updated, err := scores.Mutate(ctx, "sr-1", func(current score.Record, details []score.Detail) (score.Mutation, error) {
		require.Len(t, details, 1)
		current.Status = score.StatusCompleted
		current.FinalScoreSide1, current.FinalScoreSide2 = &s1, &s2
		current.WinnerTeamID = "team-a"
		current.VerificationStatus = score.VerificationVerified
		current.VerifiedBy = "admin-1"
		current.VerifiedAt = &now
		return score.Mutation{Record: current}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "team-a", updated.WinnerTeamID)

	_, err = scores.Mutate(ctx, "sr-1", func(current score.Record, _ []score.Detail) (score.Mutation, error) {
		return score.Mutation{Record: current, DeleteDetailID: "d-missing"}, nil
	})
	assert.ErrorIs(t, err, score.ErrDetailNotFound)

	boards := NewLeaderboardRepository(db, &id.Sequence{Prefix: "lb-"})
	board, plan, err := boards.Recalculate(ctx, "se-1", now, leaderboard.PlanRecalculation)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.OutcomeRecalculated, plan.Outcome)
	require.Len(t, plan.Entries, 2)
	assert.Equal(t, "team-a", plan.Entries[0].TeamID)
	assert.Equal(t, 3, plan.Entries[0].Points)
	assert.Equal(t, 1, plan.Entries[1].YellowCards)
	require.NotNil(t, board.LastUpdated)

	entryID := plan.Entries[0].ID
	_, plan, err = boards.Recalculate(ctx, "se-1", now.Add(time.Minute), leaderboard.PlanRecalculation)
	require.NoError(t, err)
	assert.Equal(t, entryID, plan.Entries[0].ID, "entry identity survives recalculation")

	_, err = scores.Mutate(ctx, "sr-1", func(current score.Record, _ []score.Detail) (score.Mutation, error) {
		s1, s2 := 0, 4
		current.FinalScoreSide1, current.FinalScoreSide2 = &s1, &s2
		current.WinnerTeamID = "team-b"
		return score.Mutation{Record: current}, nil
	})
	require.NoError(t, err)
	_, plan, err = boards.Recalculate(ctx, "se-1", now.Add(90*time.Second), leaderboard.PlanRecalculation)
	require.NoError(t, err, "positions swap inside one transaction")
	require.Len(t, plan.Entries, 2)
	assert.Equal(t, "team-b", plan.Entries[0].TeamID)
	assert.Equal(t, 1, plan.Entries[0].Position)
	assert.Equal(t, "team-a", plan.Entries[1].TeamID)
	assert.Equal(t, 2, plan.Entries[1].Position)
	assert.Equal(t, entryID, plan.Entries[1].ID)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `UPDATE leaderboard_entries SET position = 1 WHERE team_public_id = 'team-a'`)
	require.NoError(t, err)
	assert.Error(t, tx.Commit(), "duplicate positions are rejected at commit")

	_, err = boards.SetFinal(ctx, "se-1", true, now)
	require.NoError(t, err)
	_, plan, err = boards.Recalculate(ctx, "se-1", now.Add(2*time.Minute), leaderboard.PlanRecalculation)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.OutcomeFrozen, plan.Outcome)

	standings, err := boards.ListTeamStandings(ctx, "team-b")
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.True(t, standings[0].Leaderboard.IsFinal)
	assert.Equal(t, 1, standings[0].Entry.Position)
}

func TestPostgresLeaderboard_ConcurrentRecalculationsSerialize(t *testing.T) {
	db := startDatabase(t)
	ctx := context.Background()
	boards := NewLeaderboardRepository(db, id.NewUUIDGenerator())

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := boards.Recalculate(ctx, "se-1", time.Now().UTC(), leaderboard.PlanRecalculation)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := boards.List(ctx, leaderboard.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPostgresJobDispatch_KeepsLatestStatus(t *testing.T) {
	db := startDatabase(t)
	ctx := context.Background()
	repo := NewJobDispatchRepository(db)

	require.NoError(t, repo.UpsertEvent(ctx, jobDispatch("d-1", "sent", 0, "")))
	require.NoError(t, repo.UpsertEvent(ctx, jobDispatch("d-1", "failed", 2, "timeout")))

	failed, err := repo.ListFailed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "timeout", failed[0].ErrorMessage)
	assert.Equal(t, 2, failed[0].Attempt)
	assert.Equal(t, "se-1", failed[0].Payload["sport_event_id"])

	require.NoError(t, repo.UpsertEvent(ctx, jobDispatch("d-1", "completed", 1, "")))
	event, exists, err := repo.GetByDispatchID(ctx, "d-1")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "completed", string(event.Status))
	assert.Equal(t, 2, event.Attempt)
	assert.Empty(t, event.ErrorMessage)
}

func jobDispatch(dispatchID, status string, attempt int, message string) jobscheduler.DispatchEvent {
	event := jobscheduler.DispatchEvent{
		DispatchID:   dispatchID,
		JobName:      jobscheduler.JobRecalculateLeaderboard,
		SportEventID: "se-1",
		Status:       jobscheduler.DispatchStatus(status),
		Attempt:      attempt,
		ErrorMessage: message,
	}
	if status == "sent" {
		event.Payload = map[string]any{"sport_event_id": "se-1", "dispatch_id": dispatchID}
	}
	return event
}

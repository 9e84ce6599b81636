package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-tournament/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo sport events, teams, players and games into an
// empty database. It is a no-op once any sport event exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM sport_events WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count sport events for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(what, query string, arg map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, arg)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", what, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed %s: %w", what, err)
		}
		return nil
	}

	for _, ev := range memory.SeedSportEvents() {
		if err := exec("sport event "+ev.ID, `
INSERT INTO sport_events (public_id, event_public_id, name, sport, start_date, end_date)
VALUES (:public_id, :event_public_id, :name, :sport, :start_date, :end_date)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":       ev.ID,
			"event_public_id": ev.EventID,
			"name":            ev.Name,
			"sport":           ev.Sport,
			"start_date":      ev.StartDate,
			"end_date":        ev.EndDate,
		}); err != nil {
			return err
		}
	}

	for _, t := range memory.SeedTeams() {
		if err := exec("team "+t.ID, `
INSERT INTO teams (public_id, name, short_name, manager_user_id)
VALUES (:public_id, :name, :short_name, :manager_user_id)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":       t.ID,
			"name":            t.Name,
			"short_name":      t.ShortName,
			"manager_user_id": t.ManagerID,
		}); err != nil {
			return err
		}
	}

	for _, p := range memory.SeedPlayers() {
		if err := exec("player "+p.ID, `
INSERT INTO players (public_id, team_public_id, name, jersey_number, is_captain)
VALUES (:public_id, :team_public_id, :name, :jersey_number, :is_captain)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":      p.ID,
			"team_public_id": p.TeamID,
			"name":           p.Name,
			"jersey_number":  p.JerseyNumber,
			"is_captain":     p.IsCaptain,
		}); err != nil {
			return err
		}
	}

	for _, g := range memory.SeedGames() {
		if err := exec("game "+g.ID, `
INSERT INTO games (public_id, sport_event_public_id, name, status, scorekeeper_user_id, scheduled_at)
VALUES (:public_id, :sport_event_public_id, :name, :status, :scorekeeper_user_id, :scheduled_at)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":             g.ID,
			"sport_event_public_id": g.SportEventID,
			"name":                  g.Name,
			"status":                string(g.Status),
			"scorekeeper_user_id":   g.ScorekeeperID,
			"scheduled_at":          g.ScheduledAt,
		}); err != nil {
			return err
		}
		for _, p := range g.Participants {
			if err := exec("game team "+g.ID+"/"+p.TeamID, `
INSERT INTO game_teams (game_public_id, team_public_id, designation)
VALUES (:game_public_id, :team_public_id, :designation)
ON CONFLICT (game_public_id, team_public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
				"game_public_id": g.ID,
				"team_public_id": p.TeamID,
				"designation":    string(p.Designation),
			}); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

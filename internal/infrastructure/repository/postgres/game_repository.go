package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	qb "github.com/riskibarqy/sports-tournament/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	items, err := listGames(ctx, r.db, qb.Eq("public_id", id))
	if err != nil {
		return game.Game{}, false, err
	}
	if len(items) == 0 {
		return game.Game{}, false, nil
	}
	return items[0], true, nil
}

func (r *GameRepository) ListBySportEvent(ctx context.Context, sportEventID string) ([]game.Game, error) {
	return listGames(ctx, r.db, qb.Eq("sport_event_public_id", sportEventID))
}

func (r *GameRepository) ListSportEventIDs(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("DISTINCT sport_event_public_id").From("games").
		Where(qb.IsNull("deleted_at")).
		OrderBy("sport_event_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list game sport events query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list game sport events: %w", err)
	}
	return ids, nil
}

func listGames(ctx context.Context, q sqlx.QueryerContext, cond qb.Condition) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(cond, qb.IsNull("deleted_at")).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}
	participants, err := listParticipants(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.Game{
			ID:            row.PublicID,
			SportEventID:  row.SportEventID,
			Name:          row.Name,
			Status:        game.Status(row.Status),
			ScorekeeperID: row.ScorekeeperUserID,
			ScheduledAt:   nullTimeToTimePtr(row.ScheduledAt),
			Participants:  participants[row.PublicID],
		})
	}
	return out, nil
}

// listParticipants loads the team associations of the games, keyed by game id.
func listParticipants(ctx context.Context, q sqlx.QueryerContext, gameIDs []string) (map[string][]game.Participant, error) {
	query, args, err := qb.Select(qb.Columns(gameTeamTableModel{}, "")...).From("game_teams").
		Where(
			qb.In("game_public_id", qb.Strings(gameIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("game_public_id", "designation").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game teams query: %w", err)
	}

	var rows []gameTeamTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select game teams: %w", err)
	}

	out := make(map[string][]game.Participant, len(gameIDs))
	for _, row := range rows {
		out[row.GameID] = append(out[row.GameID], game.Participant{
			TeamID:      row.TeamID,
			Designation: game.Designation(row.Designation),
		})
	}
	return out, nil
}

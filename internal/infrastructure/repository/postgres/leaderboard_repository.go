package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/platform/id"
	qb "github.com/riskibarqy/sports-tournament/internal/platform/querybuilder"
)

type LeaderboardRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewLeaderboardRepository(db *sqlx.DB, ids id.Generator) *LeaderboardRepository {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &LeaderboardRepository{db: db, ids: ids}
}

func (r *LeaderboardRepository) GetBySportEvent(ctx context.Context, sportEventID string) (leaderboard.Leaderboard, bool, error) {
	return getLeaderboard(ctx, r.db, sportEventID, false)
}

func (r *LeaderboardRepository) List(ctx context.Context, filter leaderboard.ListFilter) ([]leaderboard.Leaderboard, error) {
	conds := []qb.Condition{qb.IsNull("deleted_at")}
	if filter.IsFinal != nil {
		conds = append(conds, qb.Eq("is_final", *filter.IsFinal))
	}
	query, args, err := qb.Select("*").From("leaderboards").
		Where(conds...).
		OrderBy("sport_event_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboards query: %w", err)
	}

	var rows []leaderboardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboards: %w", err)
	}
	out := make([]leaderboard.Leaderboard, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboardFromRow(row))
	}
	return out, nil
}

func (r *LeaderboardRepository) ListEntries(ctx context.Context, leaderboardID string) ([]leaderboard.Entry, error) {
	return listEntries(ctx, r.db, leaderboardID)
}

func (r *LeaderboardRepository) ListTeamStandings(ctx context.Context, teamID string) ([]leaderboard.TeamStanding, error) {
	columns := append(qb.Columns(leaderboardEntryTableModel{}, "e"),
		"l.public_id AS board_public_id",
		"l.sport_event_public_id AS board_sport_event_public_id",
		"l.is_final AS board_is_final",
		"l.last_updated AS board_last_updated",
		"l.created_at AS board_created_at",
		"l.updated_at AS board_updated_at",
	)
	query, args, err := qb.Select(columns...).From("leaderboard_entries e").
		Join("leaderboards l ON l.public_id = e.leaderboard_public_id").
		Where(
			qb.Eq("e.team_public_id", teamID),
			qb.IsNull("l.deleted_at"),
		).
		OrderBy("l.sport_event_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team standings query: %w", err)
	}

	var rows []teamStandingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team standings: %w", err)
	}
	out := make([]leaderboard.TeamStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.TeamStanding{
			Leaderboard: leaderboard.Leaderboard{
				ID:           row.BoardPublicID,
				SportEventID: row.BoardSportEventID,
				IsFinal:      row.BoardIsFinal,
				LastUpdated:  nullTimeToTimePtr(row.BoardLastUpdated),
				CreatedAt:    row.BoardCreatedAt.UTC(),
				UpdatedAt:    row.BoardUpdatedAt.UTC(),
			},
			Entry: entryFromRow(row.leaderboardEntryTableModel),
		})
	}
	return out, nil
}

func (r *LeaderboardRepository) SetFinal(ctx context.Context, sportEventID string, final bool, now time.Time) (leaderboard.Leaderboard, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return leaderboard.Leaderboard{}, fmt.Errorf("begin tx set leaderboard final: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	board, err := r.lockOrCreate(ctx, tx, sportEventID, now)
	if err != nil {
		return leaderboard.Leaderboard{}, err
	}
	board.IsFinal = final
	board.UpdatedAt = now
	if err := updateLeaderboard(ctx, tx, board); err != nil {
		return leaderboard.Leaderboard{}, err
	}

	if err := tx.Commit(); err != nil {
		return leaderboard.Leaderboard{}, fmt.Errorf("commit set leaderboard final tx: %w", err)
	}
	return board, nil
}

// Recalculate holds the leaderboard row lock while reading results and replacing
// entries, so recalculations of one sport event never interleave and readers see
// either the previous or the new ranking.
func (r *LeaderboardRepository) Recalculate(ctx context.Context, sportEventID string, now time.Time, plan leaderboard.PlanFunc) (leaderboard.Leaderboard, leaderboard.Plan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return leaderboard.Leaderboard{}, leaderboard.Plan{}, fmt.Errorf("begin tx recalculate leaderboard: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	board, err := r.lockOrCreate(ctx, tx, sportEventID, now)
	if err != nil {
		return leaderboard.Leaderboard{}, leaderboard.Plan{}, err
	}

	var results []leaderboard.GameResult
	if !board.IsFinal {
		results, err = qualifyingResults(ctx, tx, sportEventID)
		if err != nil {
			return leaderboard.Leaderboard{}, leaderboard.Plan{}, err
		}
	}

	p, err := plan(board, results)
	if err != nil {
		return leaderboard.Leaderboard{}, leaderboard.Plan{}, err
	}

	switch p.Outcome {
	case leaderboard.OutcomeFrozen:
		return board, p, nil
	case leaderboard.OutcomeRecalculated:
		if err := r.replaceEntries(ctx, tx, board.ID, p.Entries, now); err != nil {
			return leaderboard.Leaderboard{}, leaderboard.Plan{}, err
		}
	}

	board.LastUpdated = &now
	board.UpdatedAt = now
	if err := updateLeaderboard(ctx, tx, board); err != nil {
		return leaderboard.Leaderboard{}, leaderboard.Plan{}, err
	}
	if p.Outcome == leaderboard.OutcomeRecalculated {
		if p.Entries, err = listEntries(ctx, tx, board.ID); err != nil {
			return leaderboard.Leaderboard{}, leaderboard.Plan{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return leaderboard.Leaderboard{}, leaderboard.Plan{}, fmt.Errorf("commit recalculate leaderboard tx: %w", err)
	}
	return board, p, nil
}

// lockOrCreate inserts the leaderboard when missing and returns it row-locked.
func (r *LeaderboardRepository) lockOrCreate(ctx context.Context, tx *sqlx.Tx, sportEventID string, now time.Time) (leaderboard.Leaderboard, error) {
	boardID, err := r.ids.NewID()
	if err != nil {
		return leaderboard.Leaderboard{}, fmt.Errorf("generate leaderboard id: %w", err)
	}
	query, args, err := qb.InsertInto("leaderboards").
		Columns("public_id", "sport_event_public_id", "created_at", "updated_at").
		Values(boardID, sportEventID, now, now).
		Suffix("ON CONFLICT (sport_event_public_id) WHERE deleted_at IS NULL DO NOTHING").
		ToSQL()
	if err != nil {
		return leaderboard.Leaderboard{}, fmt.Errorf("build ensure leaderboard query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return leaderboard.Leaderboard{}, fmt.Errorf("ensure leaderboard sport_event=%s: %w", sportEventID, err)
	}

	board, exists, err := getLeaderboard(ctx, tx, sportEventID, true)
	if err != nil {
		return leaderboard.Leaderboard{}, err
	}
	if !exists {
		return leaderboard.Leaderboard{}, errors.AssertionFailedf("leaderboard for sport event %s missing after insert", sportEventID)
	}
	return board, nil
}

func (r *LeaderboardRepository) replaceEntries(ctx context.Context, tx *sqlx.Tx, leaderboardID string, entries []leaderboard.Entry, now time.Time) error {
	teamIDs := make([]string, 0, len(entries))
	if len(entries) > 0 {
		models := make([]any, 0, len(entries))
		for _, e := range entries {
			entryID, err := r.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate leaderboard entry id: %w", err)
			}
			teamIDs = append(teamIDs, e.TeamID)
			models = append(models, leaderboardEntryInsertModel{
				PublicID:       entryID,
				LeaderboardID:  leaderboardID,
				TeamID:         e.TeamID,
				Position:       e.Position,
				Played:         e.Played,
				Won:            e.Won,
				Drawn:          e.Drawn,
				Lost:           e.Lost,
				Points:         e.Points,
				GoalsFor:       e.GoalsFor,
				GoalsAgainst:   e.GoalsAgainst,
				GoalDifference: e.GoalDifference,
				CleanSheets:    e.CleanSheets,
				YellowCards:    e.YellowCards,
				RedCards:       e.RedCards,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
		query, args, err := qb.InsertModels("leaderboard_entries", models, `ON CONFLICT (leaderboard_public_id, team_public_id)
DO UPDATE SET
    position = EXCLUDED.position,
    played = EXCLUDED.played,
    won = EXCLUDED.won,
    drawn = EXCLUDED.drawn,
    lost = EXCLUDED.lost,
    points = EXCLUDED.points,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    goal_difference = EXCLUDED.goal_difference,
    clean_sheets = EXCLUDED.clean_sheets,
    yellow_cards = EXCLUDED.yellow_cards,
    red_cards = EXCLUDED.red_cards,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert leaderboard entries query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert leaderboard entries leaderboard=%s: %w", leaderboardID, err)
		}
	}

	query, args, err := qb.DeleteFrom("leaderboard_entries").
		Where(
			qb.Eq("leaderboard_public_id", leaderboardID),
			qb.NotIn("team_public_id", qb.Strings(teamIDs)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete stale leaderboard entries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete stale leaderboard entries leaderboard=%s: %w", leaderboardID, err)
	}
	return nil
}

// qualifyingResults reads the completed and verified games of a sport event inside tx.
func qualifyingResults(ctx context.Context, q sqlx.QueryerContext, sportEventID string) ([]leaderboard.GameResult, error) {
	records, err := listQualifyingRecords(ctx, q, sportEventID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	gameIDs := make([]string, 0, len(records))
	recordIDs := make([]string, 0, len(records))
	for _, rec := range records {
		gameIDs = append(gameIDs, rec.GameID)
		recordIDs = append(recordIDs, rec.ID)
	}
	games, err := listGames(ctx, q, qb.In("public_id", qb.Strings(gameIDs)))
	if err != nil {
		return nil, err
	}
	cards, err := countCards(ctx, q, recordIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(games))
	for i, g := range games {
		byID[g.ID] = i
	}
	out := make([]leaderboard.GameResult, 0, len(records))
	for _, rec := range records {
		i, ok := byID[rec.GameID]
		if !ok {
			return nil, errors.AssertionFailedf("verified score %s references unknown game %s", rec.ID, rec.GameID)
		}
		result, err := leaderboard.ResultFromRecord(rec, games[i], cards[rec.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

func getLeaderboard(ctx context.Context, q sqlx.QueryerContext, sportEventID string, forUpdate bool) (leaderboard.Leaderboard, bool, error) {
	b := qb.Select("*").From("leaderboards").
		Where(
			qb.Eq("sport_event_public_id", sportEventID),
			qb.IsNull("deleted_at"),
		).
		Limit(1)
	if forUpdate {
		b = b.ForUpdate()
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return leaderboard.Leaderboard{}, false, fmt.Errorf("build select leaderboard query: %w", err)
	}

	var row leaderboardTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return leaderboard.Leaderboard{}, false, nil
		}
		return leaderboard.Leaderboard{}, false, fmt.Errorf("select leaderboard sport_event=%s: %w", sportEventID, err)
	}
	return leaderboardFromRow(row), true, nil
}

func updateLeaderboard(ctx context.Context, tx *sqlx.Tx, board leaderboard.Leaderboard) error {
	query, args, err := qb.Update("leaderboards").
		Set("is_final", board.IsFinal).
		Set("last_updated", board.LastUpdated).
		Set("updated_at", board.UpdatedAt).
		Where(
			qb.Eq("public_id", board.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update leaderboard query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update leaderboard id=%s: %w", board.ID, err)
	}
	return nil
}

func listEntries(ctx context.Context, q sqlx.QueryerContext, leaderboardID string) ([]leaderboard.Entry, error) {
	query, args, err := qb.Select("*").From("leaderboard_entries").
		Where(qb.Eq("leaderboard_public_id", leaderboardID)).
		OrderBy("position", "team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard entries query: %w", err)
	}

	var rows []leaderboardEntryTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}
	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryFromRow(row))
	}
	return out, nil
}

func leaderboardFromRow(row leaderboardTableModel) leaderboard.Leaderboard {
	return leaderboard.Leaderboard{
		ID:           row.PublicID,
		SportEventID: row.SportEventID,
		IsFinal:      row.IsFinal,
		LastUpdated:  nullTimeToTimePtr(row.LastUpdated),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

func entryFromRow(row leaderboardEntryTableModel) leaderboard.Entry {
	return leaderboard.Entry{
		ID:            row.PublicID,
		LeaderboardID: row.LeaderboardID,
		TeamID:        row.TeamID,
		Position:      row.Position,
		Stats: leaderboard.Stats{
			Played:         row.Played,
			Won:            row.Won,
			Drawn:          row.Drawn,
			Lost:           row.Lost,
			Points:         row.Points,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			CleanSheets:    row.CleanSheets,
			YellowCards:    row.YellowCards,
			RedCards:       row.RedCards,
		},
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-tournament/internal/domain/score"
	qb "github.com/riskibarqy/sports-tournament/internal/platform/querybuilder"
)

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) Create(ctx context.Context, record score.Record) error {
	query, args, err := qb.InsertModel("score_records", scoreRecordInsertModelFrom(record), "")
	if err != nil {
		return fmt.Errorf("build insert score record query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: game=%s", score.ErrAlreadyExists, record.GameID)
		}
		return fmt.Errorf("insert score record game=%s: %w", record.GameID, err)
	}
	return nil
}

func (r *ScoreRepository) GetByID(ctx context.Context, id string) (score.Record, bool, error) {
	return r.getOne(ctx, r.db, qb.Eq("public_id", id), false)
}

func (r *ScoreRepository) GetByGameID(ctx context.Context, gameID string) (score.Record, bool, error) {
	return r.getOne(ctx, r.db, qb.Eq("game_public_id", gameID), false)
}

func (r *ScoreRepository) ListDetails(ctx context.Context, scoreRecordID string) ([]score.Detail, error) {
	return listDetails(ctx, r.db, scoreRecordID)
}

// Mutate locks the record row for the duration of the transaction, so concurrent
// mutations of one record apply in sequence.
func (r *ScoreRepository) Mutate(ctx context.Context, scoreRecordID string, fn score.MutateFunc) (score.Record, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return score.Record{}, fmt.Errorf("begin tx mutate score record: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	current, exists, err := r.getOne(ctx, tx, qb.Eq("public_id", scoreRecordID), true)
	if err != nil {
		return score.Record{}, err
	}
	if !exists {
		return score.Record{}, score.ErrRecordNotFound
	}
	details, err := listDetails(ctx, tx, scoreRecordID)
	if err != nil {
		return score.Record{}, err
	}

	m, err := fn(current, details)
	if err != nil {
		return score.Record{}, err
	}

	switch {
	case m.UpsertDetail != nil:
		if err := upsertDetail(ctx, tx, scoreRecordID, *m.UpsertDetail); err != nil {
			return score.Record{}, err
		}
	case m.DeleteDetailID != "":
		if err := deleteDetail(ctx, tx, scoreRecordID, m.DeleteDetailID); err != nil {
			return score.Record{}, err
		}
	}

	next := m.Record
	next.ID = current.ID
	next.GameID = current.GameID
	next.SportEventID = current.SportEventID
	next.CreatedAt = current.CreatedAt
	if err := updateRecord(ctx, tx, next); err != nil {
		return score.Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return score.Record{}, fmt.Errorf("commit mutate score record tx: %w", err)
	}
	return next, nil
}

func (r *ScoreRepository) getOne(ctx context.Context, q sqlx.QueryerContext, cond qb.Condition, forUpdate bool) (score.Record, bool, error) {
	b := qb.Select("*").From("score_records").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1)
	if forUpdate {
		b = b.ForUpdate()
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return score.Record{}, false, fmt.Errorf("build select score record query: %w", err)
	}

	var row scoreRecordTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return score.Record{}, false, nil
		}
		return score.Record{}, false, fmt.Errorf("select score record: %w", err)
	}
	return scoreRecordFromRow(row), true, nil
}

func (r *ScoreRepository) List(ctx context.Context, filter score.ListFilter) ([]score.Record, error) {
	conds := []qb.Condition{qb.IsNull("deleted_at")}
	if filter.Status != "" {
		conds = append(conds, qb.Eq("status", string(filter.Status)))
	}
	if filter.SportEventID != "" {
		conds = append(conds, qb.Eq("sport_event_public_id", filter.SportEventID))
	}
	return selectRecords(ctx, r.db, "score records", conds...)
}

// listQualifyingRecords returns the completed and verified records of a sport event.
func listQualifyingRecords(ctx context.Context, q sqlx.QueryerContext, sportEventID string) ([]score.Record, error) {
	return selectRecords(ctx, q, "qualifying score records",
		qb.Eq("sport_event_public_id", sportEventID),
		qb.Eq("status", string(score.StatusCompleted)),
		qb.Eq("verification_status", string(score.VerificationVerified)),
		qb.IsNull("deleted_at"),
	)
}

func selectRecords(ctx context.Context, q sqlx.QueryerContext, what string, conds ...qb.Condition) ([]score.Record, error) {
	query, args, err := qb.Select("*").From("score_records").
		Where(conds...).
		OrderBy("sport_event_public_id", "game_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s query: %w", what, err)
	}

	var rows []scoreRecordTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}
	out := make([]score.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoreRecordFromRow(row))
	}
	return out, nil
}

func listDetails(ctx context.Context, q sqlx.QueryerContext, scoreRecordID string) ([]score.Detail, error) {
	query, args, err := qb.Select("*").From("score_details").
		Where(
			qb.Eq("score_record_public_id", scoreRecordID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select score details query: %w", err)
	}

	var rows []scoreDetailTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select score details: %w", err)
	}
	out := make([]score.Detail, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoreDetailFromRow(row))
	}
	return out, nil
}

// countCards tallies disciplinary details per record and team.
func countCards(ctx context.Context, q sqlx.QueryerContext, scoreRecordIDs []string) (map[string]map[string]score.CardTally, error) {
	out := make(map[string]map[string]score.CardTally, len(scoreRecordIDs))
	if len(scoreRecordIDs) == 0 {
		return out, nil
	}
	query, args, err := qb.Select("score_record_public_id", "team_public_id", "event_type", "COUNT(*) AS total").
		From("score_details").
		Where(
			qb.In("score_record_public_id", qb.Strings(scoreRecordIDs)),
			qb.In("event_type", []any{string(score.EventYellowCard), string(score.EventRedCard)}),
			qb.IsNull("deleted_at"),
		).
		GroupBy("score_record_public_id", "team_public_id", "event_type").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count cards query: %w", err)
	}

	var rows []cardCountRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count cards: %w", err)
	}
	for _, row := range rows {
		byTeam := out[row.ScoreRecordID]
		if byTeam == nil {
			byTeam = make(map[string]score.CardTally)
			out[row.ScoreRecordID] = byTeam
		}
		tally := byTeam[row.TeamID]
		switch score.EventType(row.EventType) {
		case score.EventYellowCard:
			tally.Yellow += row.Total
		case score.EventRedCard:
			tally.Red += row.Total
		}
		byTeam[row.TeamID] = tally
	}
	return out, nil
}

func upsertDetail(ctx context.Context, tx *sqlx.Tx, scoreRecordID string, d score.Detail) error {
	model := scoreDetailInsertModel{
		PublicID:      d.ID,
		ScoreRecordID: scoreRecordID,
		TeamID:        d.TeamID,
		PlayerID:      optionalString(d.PlayerID),
		AssistedByID:  optionalString(d.AssistedByID),
		Points:        d.Points,
		EventType:     string(d.EventType),
		Minute:        intPtrToNull(d.Minute),
		Period:        strings.TrimSpace(d.Period),
		Description:   strings.TrimSpace(d.Description),
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	query, args, err := qb.InsertModel("score_details", model, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    team_public_id = EXCLUDED.team_public_id,
    player_public_id = EXCLUDED.player_public_id,
    assisted_by_public_id = EXCLUDED.assisted_by_public_id,
    points = EXCLUDED.points,
    event_type = EXCLUDED.event_type,
    minute = EXCLUDED.minute,
    period = EXCLUDED.period,
    description = EXCLUDED.description,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert score detail query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert score detail detail=%s: %w", d.ID, err)
	}
	return nil
}

func deleteDetail(ctx context.Context, tx *sqlx.Tx, scoreRecordID, detailID string) error {
	query, args, err := qb.Update("score_details").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", detailID),
			qb.Eq("score_record_public_id", scoreRecordID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete score detail query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete score detail detail=%s: %w", detailID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete score detail rows affected: %w", err)
	}
	if affected == 0 {
		return score.ErrDetailNotFound
	}
	return nil
}

func updateRecord(ctx context.Context, tx *sqlx.Tx, rec score.Record) error {
	model := scoreRecordInsertModelFrom(rec)
	query, args, err := qb.Update("score_records").
		Set("status", model.Status).
		Set("final_score_side1", model.FinalScoreSide1).
		Set("final_score_side2", model.FinalScoreSide2).
		Set("winner_team_public_id", model.WinnerTeamID).
		Set("is_draw", model.IsDraw).
		Set("verification_status", model.VerificationStatus).
		Set("scorekeeper_user_id", model.ScorekeeperUserID).
		Set("verified_by", model.VerifiedBy).
		Set("verified_at", model.VerifiedAt).
		Set("notes", model.Notes).
		Set("updated_at", model.UpdatedAt).
		Where(
			qb.Eq("public_id", rec.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update score record query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update score record id=%s: %w", rec.ID, err)
	}
	return nil
}

func scoreRecordInsertModelFrom(rec score.Record) scoreRecordInsertModel {
	return scoreRecordInsertModel{
		PublicID:           rec.ID,
		GameID:             rec.GameID,
		SportEventID:       rec.SportEventID,
		Status:             string(rec.Status),
		FinalScoreSide1:    intPtrToNull(rec.FinalScoreSide1),
		FinalScoreSide2:    intPtrToNull(rec.FinalScoreSide2),
		WinnerTeamID:       optionalString(rec.WinnerTeamID),
		IsDraw:             rec.IsDraw,
		VerificationStatus: string(rec.VerificationStatus),
		ScorekeeperUserID:  rec.ScorekeeperID,
		VerifiedBy:         optionalString(rec.VerifiedBy),
		VerifiedAt:         rec.VerifiedAt,
		Notes:              rec.Notes,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

func scoreRecordFromRow(row scoreRecordTableModel) score.Record {
	return score.Record{
		ID:                 row.PublicID,
		GameID:             row.GameID,
		SportEventID:       row.SportEventID,
		Status:             score.Status(row.Status),
		FinalScoreSide1:    nullIntToPtr(row.FinalScoreSide1),
		FinalScoreSide2:    nullIntToPtr(row.FinalScoreSide2),
		WinnerTeamID:       nullStringValue(row.WinnerTeamID),
		IsDraw:             row.IsDraw,
		VerificationStatus: score.VerificationStatus(row.VerificationStatus),
		ScorekeeperID:      row.ScorekeeperUserID,
		VerifiedBy:         nullStringValue(row.VerifiedBy),
		VerifiedAt:         nullTimeToTimePtr(row.VerifiedAt),
		Notes:              row.Notes,
		CreatedAt:          row.CreatedAt.UTC(),
		UpdatedAt:          row.UpdatedAt.UTC(),
	}
}

func scoreDetailFromRow(row scoreDetailTableModel) score.Detail {
	return score.Detail{
		ID:            row.PublicID,
		ScoreRecordID: row.ScoreRecordID,
		TeamID:        row.TeamID,
		PlayerID:      nullStringValue(row.PlayerID),
		AssistedByID:  nullStringValue(row.AssistedByID),
		Points:        row.Points,
		EventType:     score.EventType(row.EventType),
		Minute:        nullIntToPtr(row.Minute),
		Period:        row.Period,
		Description:   row.Description,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}

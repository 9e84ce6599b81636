package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-tournament/internal/domain/sportevent"
	qb "github.com/riskibarqy/sports-tournament/internal/platform/querybuilder"
)

type SportEventRepository struct {
	db *sqlx.DB
}

func NewSportEventRepository(db *sqlx.DB) *SportEventRepository {
	return &SportEventRepository{db: db}
}

func (r *SportEventRepository) GetByID(ctx context.Context, id string) (sportevent.SportEvent, bool, error) {
	query, args, err := qb.Select("*").From("sport_events").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return sportevent.SportEvent{}, false, fmt.Errorf("build select sport event query: %w", err)
	}

	var row sportEventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return sportevent.SportEvent{}, false, nil
		}
		return sportevent.SportEvent{}, false, fmt.Errorf("select sport event: %w", err)
	}
	return sportEventFromRow(row), true, nil
}

func (r *SportEventRepository) ListByIDs(ctx context.Context, ids []string) ([]sportevent.SportEvent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := qb.Select("*").From("sport_events").
		Where(
			qb.In("public_id", qb.Strings(ids)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sport events query: %w", err)
	}

	var rows []sportEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sport events: %w", err)
	}

	out := make([]sportevent.SportEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, sportEventFromRow(row))
	}
	return out, nil
}

func sportEventFromRow(row sportEventTableModel) sportevent.SportEvent {
	return sportevent.SportEvent{
		ID:        row.PublicID,
		EventID:   row.EventPublicID,
		Name:      row.Name,
		Sport:     row.Sport,
		StartDate: nullTimeToTimePtr(row.StartDate),
		EndDate:   nullTimeToTimePtr(row.EndDate),
		CreatedAt: row.CreatedAt,
	}
}

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-tournament/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/sports-tournament/internal/platform/querybuilder"
)

type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return fmt.Errorf("dispatch id is required")
	}

	jobName := strings.TrimSpace(event.JobName)
	if jobName == "" {
		jobName = "unknown"
	}

	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payloadJSON, err := marshalPayload(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal job dispatch payload: %w", err)
	}

	model := jobDispatchInsertModel{
		DispatchID:   dispatchID,
		JobName:      jobName,
		SportEventID: strings.TrimSpace(event.SportEventID),
		Payload:      payloadJSON,
		Status:       string(event.Status),
		Attempt:      event.Attempt,
		LastError:    optionalString(event.ErrorMessage),
		TraceID:      optionalString(event.TraceID),
		SpanID:       optionalString(event.SpanID),
		UpdatedAt:    occurredAt,
	}

	switch event.Status {
	case jobscheduler.StatusSent:
		model.SentAt = &occurredAt
		model.LastError = nil
	case jobscheduler.StatusCompleted:
		model.CompletedAt = &occurredAt
		model.LastError = nil
	case jobscheduler.StatusFailed:
		model.FailedAt = &occurredAt
	}

	// An empty payload keeps the stored one; attempts only grow.
	query, args, err := qb.InsertModel("job_dispatches", model, `ON CONFLICT (dispatch_id) WHERE deleted_at IS NULL
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    sport_event_public_id = COALESCE(NULLIF(EXCLUDED.sport_event_public_id, ''), job_dispatches.sport_event_public_id),
    payload = CASE
        WHEN EXCLUDED.payload = '{}'::jsonb THEN job_dispatches.payload
        ELSE EXCLUDED.payload
    END,
    status = EXCLUDED.status,
    attempt = GREATEST(job_dispatches.attempt, EXCLUDED.attempt),
    sent_at = COALESCE(job_dispatches.sent_at, EXCLUDED.sent_at),
    completed_at = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_at
        ELSE job_dispatches.completed_at
    END,
    failed_at = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_at
        WHEN EXCLUDED.status = 'completed' THEN NULL
        ELSE job_dispatches.failed_at
    END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE NULL
    END,
    trace_id = COALESCE(EXCLUDED.trace_id, job_dispatches.trace_id),
    span_id = COALESCE(EXCLUDED.span_id, job_dispatches.span_id),
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert job dispatch query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job dispatch dispatch_id=%s status=%s: %w", dispatchID, event.Status, err)
	}
	return nil
}

func (r *JobDispatchRepository) GetByDispatchID(ctx context.Context, dispatchID string) (jobscheduler.DispatchEvent, bool, error) {
	query, args, err := qb.Select("*").From("job_dispatches").
		Where(
			qb.Eq("dispatch_id", strings.TrimSpace(dispatchID)),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return jobscheduler.DispatchEvent{}, false, fmt.Errorf("build select job dispatch query: %w", err)
	}

	var row jobDispatchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return jobscheduler.DispatchEvent{}, false, nil
		}
		return jobscheduler.DispatchEvent{}, false, fmt.Errorf("select job dispatch dispatch_id=%s: %w", dispatchID, err)
	}
	return dispatchEventFromRow(row), true, nil
}

func (r *JobDispatchRepository) ListFailed(ctx context.Context, limit int) ([]jobscheduler.DispatchEvent, error) {
	query, args, err := qb.Select("*").From("job_dispatches").
		Where(
			qb.Eq("status", string(jobscheduler.StatusFailed)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("failed_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list failed job dispatches query: %w", err)
	}

	var rows []jobDispatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list failed job dispatches: %w", err)
	}
	out := make([]jobscheduler.DispatchEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, dispatchEventFromRow(row))
	}
	return out, nil
}

func dispatchEventFromRow(row jobDispatchTableModel) jobscheduler.DispatchEvent {
	occurredAt := row.UpdatedAt.UTC()
	return jobscheduler.DispatchEvent{
		DispatchID:   row.DispatchID,
		JobName:      row.JobName,
		SportEventID: row.SportEventID,
		Status:       jobscheduler.DispatchStatus(row.Status),
		Attempt:      row.Attempt,
		Payload:      unmarshalPayload(row.Payload),
		ErrorMessage: nullStringValue(row.LastError),
		OccurredAt:   occurredAt,
		TraceID:      nullStringValue(row.TraceID),
		SpanID:       nullStringValue(row.SpanID),
	}
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/sports-tournament/internal/domain/jobscheduler"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
)

// dispatchLedger writes jobscheduler events; ledger failures are logged, never returned.
type dispatchLedger struct {
	repo   jobscheduler.Repository
	logger *logging.Logger
	now    func() time.Time
}

func newDispatchLedger(repo jobscheduler.Repository, logger *logging.Logger) *dispatchLedger {
	if logger == nil {
		logger = logging.Default()
	}
	return &dispatchLedger{repo: repo, logger: logger, now: time.Now}
}

func (l *dispatchLedger) record(ctx context.Context, event jobscheduler.DispatchEvent) {
	if l == nil || l.repo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	if event.JobName == "" {
		event.JobName = jobscheduler.JobRecalculateLeaderboard
	}
	event.TraceID, event.SpanID = traceMetaFromContext(ctx)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = l.now().UTC()
	}
	if err := l.repo.UpsertEvent(ctx, event); err != nil {
		l.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func (l *dispatchLedger) lastAttempt(ctx context.Context, dispatchID string) int {
	if l == nil || l.repo == nil || dispatchID == "" {
		return 0
	}
	event, exists, err := l.repo.GetByDispatchID(ctx, dispatchID)
	if err != nil || !exists {
		return 0
	}
	return event.Attempt
}

func recalculationPayload(sportEventID, dispatchID string) map[string]any {
	return map[string]any{
		"sport_event_id": sportEventID,
		"dispatch_id":    dispatchID,
	}
}

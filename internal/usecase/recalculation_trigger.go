package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/sports-tournament/internal/domain/jobscheduler"
	"github.com/riskibarqy/sports-tournament/internal/platform/id"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
)

const RecalculateLeaderboardJobPath = "/v1/internal/jobs/recalculate-leaderboard"

type RecalculationMode string

const (
	RecalculationInline RecalculationMode = "inline"
	RecalculationAsync  RecalculationMode = "async"
	RecalculationQStash RecalculationMode = "qstash"
)

type TriggerStatus string

const (
	TriggerRecalculated TriggerStatus = "recalculated"
	TriggerFrozen       TriggerStatus = "frozen"
	TriggerNoResults    TriggerStatus = "no_results"
	TriggerQueued       TriggerStatus = "queued"
	TriggerFailed       TriggerStatus = "failed"
)

type TriggerResult struct {
	Mode       RecalculationMode `json:"mode"`
	Status     TriggerStatus     `json:"status"`
	DispatchID string            `json:"dispatch_id,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// RecalculationTrigger starts a leaderboard recalculation after a committed
// verification change. It never fails the caller; problems are reported in the
// result and logged at error level.
type RecalculationTrigger interface {
	Trigger(ctx context.Context, sportEventID string) TriggerResult
}

type Recalculator interface {
	Recalculate(ctx context.Context, sportEventID string) (RecalculationResult, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type InlineTrigger struct {
	recalc Recalculator
	logger *logging.Logger
}

func NewInlineTrigger(recalc Recalculator, logger *logging.Logger) *InlineTrigger {
	if logger == nil {
		logger = logging.Default()
	}
	return &InlineTrigger{recalc: recalc, logger: logger.Named("recalculation")}
}

func (t *InlineTrigger) Trigger(ctx context.Context, sportEventID string) TriggerResult {
	res, err := t.recalc.Recalculate(ctx, sportEventID)
	if err != nil {
		t.logger.ErrorContext(ctx, "leaderboard recalculation failed",
			"mode", RecalculationInline,
			"sport_event_id", sportEventID,
			"error", err,
		)
		return TriggerResult{Mode: RecalculationInline, Status: TriggerFailed, Error: err.Error()}
	}
	return TriggerResult{Mode: RecalculationInline, Status: TriggerStatus(res.Outcome)}
}

type AsyncTriggerConfig struct {
	Workers      int
	MaxAttempts  int
	RetryBackoff time.Duration
}

// AsyncTrigger runs recalculations on an ants worker pool, retrying with linear
// backoff and recording each dispatch in the job ledger.
type AsyncTrigger struct {
	recalc Recalculator
	pool   *ants.Pool
	ledger *dispatchLedger
	ids    id.Generator
	cfg    AsyncTriggerConfig
	logger *logging.Logger
	wg     sync.WaitGroup
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewAsyncTrigger(
	recalc Recalculator,
	dispatchRepo jobscheduler.Repository,
	ids id.Generator,
	cfg AsyncTriggerConfig,
	logger *logging.Logger,
) (*AsyncTrigger, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBackoff < 0 {
		cfg.RetryBackoff = 0
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}

	p, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create recalculation worker pool: %w", err)
	}

	logger = logger.Named("recalculation")
	return &AsyncTrigger{
		recalc: recalc,
		pool:   p,
		ledger: newDispatchLedger(dispatchRepo, logger),
		ids:    ids,
		cfg:    cfg,
		logger: logger,
		sleep:  sleepContext,
	}, nil
}

func (t *AsyncTrigger) Trigger(ctx context.Context, sportEventID string) TriggerResult {
	dispatchID := newDispatchID(t.ids)
	jobCtx := context.WithoutCancel(ctx)

	t.ledger.record(ctx, jobscheduler.DispatchEvent{
		DispatchID:   dispatchID,
		SportEventID: sportEventID,
		Status:       jobscheduler.StatusSent,
		Payload:      recalculationPayload(sportEventID, dispatchID),
	})

	t.wg.Add(1)
	if err := t.pool.Submit(func() {
		defer t.wg.Done()
		t.run(jobCtx, sportEventID, dispatchID)
	}); err != nil {
		t.wg.Done()
		t.logger.WarnContext(ctx, "recalculation pool rejected task, running inline",
			"sport_event_id", sportEventID,
			"dispatch_id", dispatchID,
			"error", err,
		)
		return t.run(jobCtx, sportEventID, dispatchID)
	}

	return TriggerResult{Mode: RecalculationAsync, Status: TriggerQueued, DispatchID: dispatchID}
}

func (t *AsyncTrigger) run(ctx context.Context, sportEventID, dispatchID string) TriggerResult {
	var (
		lastErr  error
		attempts int
	)
	for attempt := 1; attempt <= t.cfg.MaxAttempts; attempt++ {
		attempts = attempt
		res, err := t.recalc.Recalculate(ctx, sportEventID)
		if err == nil {
			t.ledger.record(ctx, jobscheduler.DispatchEvent{
				DispatchID:   dispatchID,
				SportEventID: sportEventID,
				Status:       jobscheduler.StatusCompleted,
				Attempt:      attempt,
				Payload:      map[string]any{"outcome": res.Outcome, "entries": res.Entries},
			})
			return TriggerResult{Mode: RecalculationAsync, Status: TriggerStatus(res.Outcome), DispatchID: dispatchID}
		}

		lastErr = err
		if !retryableRecalculationError(err) || attempt == t.cfg.MaxAttempts {
			break
		}
		t.logger.WarnContext(ctx, "leaderboard recalculation attempt failed, retrying",
			"sport_event_id", sportEventID,
			"dispatch_id", dispatchID,
			"attempt", attempt,
			"error", err,
		)
		if err := t.sleep(ctx, t.cfg.RetryBackoff*time.Duration(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	t.ledger.record(ctx, jobscheduler.DispatchEvent{
		DispatchID:   dispatchID,
		SportEventID: sportEventID,
		Status:       jobscheduler.StatusFailed,
		Attempt:      attempts,
		ErrorMessage: lastErr.Error(),
	})
	t.logger.ErrorContext(ctx, "leaderboard recalculation failed",
		"mode", RecalculationAsync,
		"sport_event_id", sportEventID,
		"dispatch_id", dispatchID,
		"error", lastErr,
	)
	return TriggerResult{Mode: RecalculationAsync, Status: TriggerFailed, DispatchID: dispatchID, Error: lastErr.Error()}
}

// Wait blocks until every submitted recalculation finished.
func (t *AsyncTrigger) Wait() {
	t.wg.Wait()
}

func (t *AsyncTrigger) Close(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.logger.Warn("recalculation workers still running at shutdown")
	}
	return t.pool.ReleaseTimeout(timeout)
}

// QueueTrigger publishes recalculations to the job queue. When publishing fails
// it falls back to recalculating inline so the change is never dropped.
type QueueTrigger struct {
	queue    JobQueue
	fallback RecalculationTrigger
	ledger   *dispatchLedger
	ids      id.Generator
	logger   *logging.Logger
}

func NewQueueTrigger(queue JobQueue, fallback RecalculationTrigger, dispatchRepo jobscheduler.Repository, ids id.Generator, logger *logging.Logger) *QueueTrigger {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	logger = logger.Named("recalculation")
	return &QueueTrigger{
		queue:    queue,
		fallback: fallback,
		ledger:   newDispatchLedger(dispatchRepo, logger),
		ids:      ids,
		logger:   logger,
	}
}

func (t *QueueTrigger) Trigger(ctx context.Context, sportEventID string) TriggerResult {
	dispatchID := newDispatchID(t.ids)
	payload := recalculationPayload(sportEventID, dispatchID)

	if err := t.queue.Enqueue(ctx, RecalculateLeaderboardJobPath, payload, 0, dispatchID); err != nil {
		t.ledger.record(ctx, jobscheduler.DispatchEvent{
			DispatchID:   dispatchID,
			SportEventID: sportEventID,
			Status:       jobscheduler.StatusFailed,
			Payload:      payload,
			ErrorMessage: err.Error(),
		})
		t.logger.ErrorContext(ctx, "enqueue leaderboard recalculation failed, recalculating inline",
			"sport_event_id", sportEventID,
			"dispatch_id", dispatchID,
			"error", err,
		)
		if t.fallback == nil {
			return TriggerResult{Mode: RecalculationQStash, Status: TriggerFailed, DispatchID: dispatchID, Error: err.Error()}
		}
		res := t.fallback.Trigger(ctx, sportEventID)
		res.DispatchID = dispatchID
		return res
	}

	t.ledger.record(ctx, jobscheduler.DispatchEvent{
		DispatchID:   dispatchID,
		SportEventID: sportEventID,
		Status:       jobscheduler.StatusSent,
		Payload:      payload,
	})
	return TriggerResult{Mode: RecalculationQStash, Status: TriggerQueued, DispatchID: dispatchID}
}

// newDispatchID falls back to a clock-based id so a generator failure never blocks a recalculation.
func newDispatchID(ids id.Generator) string {
	if v, err := ids.NewID(); err == nil && v != "" {
		return v
	}
	return fmt.Sprintf("recalc-%d", time.Now().UnixNano())
}

func retryableRecalculationError(err error) bool {
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrInvalidInput)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

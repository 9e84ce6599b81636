package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/sports-tournament/internal/domain/jobscheduler"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
)

type RecalculationJobInput struct {
	SportEventID string `json:"sport_event_id"`
	DispatchID   string `json:"dispatch_id"`
}

// JobService executes internal jobs delivered by the job queue.
type JobService struct {
	leaderboards *LeaderboardService
	dispatchRepo jobscheduler.Repository
	ledger       *dispatchLedger
	logger       *logging.Logger
}

func NewJobService(leaderboards *LeaderboardService, dispatchRepo jobscheduler.Repository, logger *logging.Logger) *JobService {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("jobs")
	return &JobService{
		leaderboards: leaderboards,
		dispatchRepo: dispatchRepo,
		ledger:       newDispatchLedger(dispatchRepo, logger),
		logger:       logger,
	}
}

// RunRecalculation returns the recalculation error so the queue redelivers the job.
func (s *JobService) RunRecalculation(ctx context.Context, input RecalculationJobInput) (RecalculationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobService.RunRecalculation")
	defer span.End()

	input.SportEventID = strings.TrimSpace(input.SportEventID)
	input.DispatchID = strings.TrimSpace(input.DispatchID)
	if input.SportEventID == "" {
		return RecalculationResult{}, fmt.Errorf("%w: sport_event_id is required", ErrInvalidInput)
	}

	attempt := s.ledger.lastAttempt(ctx, input.DispatchID) + 1
	res, err := s.leaderboards.Recalculate(ctx, input.SportEventID)
	if err != nil {
		failSpan(span, err)
		s.ledger.record(ctx, jobscheduler.DispatchEvent{
			DispatchID:   input.DispatchID,
			SportEventID: input.SportEventID,
			Status:       jobscheduler.StatusFailed,
			Attempt:      attempt,
			ErrorMessage: err.Error(),
		})
		s.logger.ErrorContext(ctx, "leaderboard recalculation job failed",
			"sport_event_id", input.SportEventID,
			"dispatch_id", input.DispatchID,
			"attempt", attempt,
			"error", err,
		)
		return RecalculationResult{}, err
	}

	s.ledger.record(ctx, jobscheduler.DispatchEvent{
		DispatchID:   input.DispatchID,
		SportEventID: input.SportEventID,
		Status:       jobscheduler.StatusCompleted,
		Attempt:      attempt,
		Payload:      map[string]any{"outcome": res.Outcome, "entries": res.Entries},
	})
	return res, nil
}

func (s *JobService) RunRecalculateAll(ctx context.Context) (RecalculateAllResult, error) {
	res, err := s.leaderboards.RecalculateAll(ctx)
	if err != nil {
		return RecalculateAllResult{}, err
	}
	if res.FailedCount > 0 {
		s.logger.ErrorContext(ctx, "recalculate all finished with failures",
			"sport_event_count", res.SportEventCount,
			"failed_count", res.FailedCount,
		)
	}
	return res, nil
}

func (s *JobService) ListFailedDispatches(ctx context.Context, limit int) ([]jobscheduler.DispatchEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if s.dispatchRepo == nil {
		return nil, nil
	}
	items, err := s.dispatchRepo.ListFailed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list failed dispatches: %w", err)
	}
	return items, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	"github.com/riskibarqy/sports-tournament/internal/domain/score"
	"github.com/riskibarqy/sports-tournament/internal/domain/team"
	"github.com/riskibarqy/sports-tournament/internal/platform/id"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
)

// EditGuard decides whether the caller may edit a score record assigned to the
// given scorekeepers. A nil guard allows the edit.
type EditGuard func(assignedScorekeepers ...string) bool

type ScoreView struct {
	Record  score.Record
	Details []score.Detail
}

type CreateScoreInput struct {
	GameID        string
	Status        string
	ScorekeeperID string
}

type UpdateScoreInput struct {
	ScoreID         string
	Status          *string
	FinalScoreSide1 *int
	FinalScoreSide2 *int
	Guard           EditGuard
}

type DetailInput struct {
	ScoreID      string
	TeamID       string
	PlayerID     string
	AssistedByID string
	Points       int
	EventType    string
	Minute       *int
	Period       string
	Description  string
	ActorID      string
	Guard        EditGuard
}

// UpdateDetailInput patches a detail; nil fields keep their value.
type UpdateDetailInput struct {
	ScoreID      string
	DetailID     string
	TeamID       *string
	PlayerID     *string
	AssistedByID *string
	Points       *int
	EventType    *string
	Minute       *int
	Period       *string
	Description  *string
	Guard        EditGuard
}

type ListScoresInput struct {
	Status       string
	SportEventID string
}

type AssignScorekeeperInput struct {
	ScoreID       string
	ScorekeeperID string
	ActorID       string
}

type VerifyInput struct {
	ScoreID  string
	Verified bool
	Status   string
	Notes    string
	ActorID  string
}

type VerifyResult struct {
	Record        score.Record
	Recalculation *TriggerResult
}

type ScoreService struct {
	scoreRepo score.Repository
	gameRepo  game.Repository
	teamRepo  team.Repository
	trigger   RecalculationTrigger
	ids       id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewScoreService(
	scoreRepo score.Repository,
	gameRepo game.Repository,
	teamRepo team.Repository,
	trigger RecalculationTrigger,
	ids id.Generator,
	logger *logging.Logger,
) *ScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &ScoreService{
		scoreRepo: scoreRepo,
		gameRepo:  gameRepo,
		teamRepo:  teamRepo,
		trigger:   trigger,
		ids:       ids,
		logger:    logger.Named("score"),
		now:       time.Now,
	}
}

func (s *ScoreService) Create(ctx context.Context, input CreateScoreInput) (score.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.Create")
	defer span.End()

	g, err := s.requireGame(ctx, input.GameID)
	if err != nil {
		return score.Record{}, err
	}
	if _, _, err := g.Sides(); err != nil {
		return score.Record{}, fmt.Errorf("%w: %w", ErrInvalidInput, &score.FieldError{Field: "game_id", Err: err})
	}

	status := score.Status(strings.TrimSpace(input.Status))
	if status == "" {
		status = score.StatusPending
	}
	if status != score.StatusPending && status != score.StatusInProgress {
		return score.Record{}, fmt.Errorf("%w: %w", ErrInvalidInput, &score.FieldError{Field: "status", Err: score.ErrInvalidStatus})
	}

	scorekeeperID := strings.TrimSpace(input.ScorekeeperID)
	if scorekeeperID == "" {
		scorekeeperID = g.ScorekeeperID
	}

	recordID, err := s.ids.NewID()
	if err != nil {
		return score.Record{}, fmt.Errorf("generate score record id: %w", err)
	}

	now := s.now().UTC()
	record := score.Record{
		ID:                 recordID,
		GameID:             g.ID,
		SportEventID:       g.SportEventID,
		Status:             status,
		VerificationStatus: score.VerificationUnverified,
		ScorekeeperID:      scorekeeperID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.scoreRepo.Create(ctx, record); err != nil {
		return score.Record{}, classifyScoreError("create score record", err)
	}

	s.logger.InfoContext(ctx, "score record created", "score_id", record.ID, "game_id", record.GameID)
	return record, nil
}

func (s *ScoreService) Get(ctx context.Context, scoreID string) (ScoreView, error) {
	record, err := s.requireRecord(ctx, scoreID)
	if err != nil {
		return ScoreView{}, err
	}
	return s.view(ctx, record)
}

func (s *ScoreService) GetByGame(ctx context.Context, gameID string) (ScoreView, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return ScoreView{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	record, exists, err := s.scoreRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return ScoreView{}, fmt.Errorf("get score record by game: %w", err)
	}
	if !exists {
		return ScoreView{}, fmt.Errorf("%w: score record for game=%s", ErrNotFound, gameID)
	}
	return s.view(ctx, record)
}

func (s *ScoreService) List(ctx context.Context, input ListScoresInput) ([]score.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.List")
	defer span.End()

	filter := score.ListFilter{
		Status:       score.Status(strings.TrimSpace(input.Status)),
		SportEventID: strings.TrimSpace(input.SportEventID),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, &score.FieldError{Field: "status", Err: score.ErrInvalidStatus})
	}

	records, err := s.scoreRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list score records: %w", err)
	}
	return records, nil
}

// ListLive returns the records of games currently being played, optionally
// scoped to one sport event.
func (s *ScoreService) ListLive(ctx context.Context, sportEventID string) ([]score.Record, error) {
	return s.List(ctx, ListScoresInput{Status: string(score.StatusInProgress), SportEventID: sportEventID})
}

// AssignScorekeeper moves edit rights on a record to another scorekeeper.
// Callers check the admin capability.
func (s *ScoreService) AssignScorekeeper(ctx context.Context, input AssignScorekeeperInput) (score.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.AssignScorekeeper")
	defer span.End()

	record, err := s.requireRecord(ctx, input.ScoreID)
	if err != nil {
		return score.Record{}, err
	}

	var previous string
	updated, err := s.scoreRepo.Mutate(ctx, record.ID, func(current score.Record, _ []score.Detail) (score.Mutation, error) {
		previous = current.ScorekeeperID
		next, err := score.AssignScorekeeper(current, input.ScorekeeperID, s.now().UTC())
		if err != nil {
			return score.Mutation{}, err
		}
		return score.Mutation{Record: next}, nil
	})
	if err != nil {
		return score.Record{}, classifyScoreError("assign scorekeeper", err)
	}

	s.logger.InfoContext(ctx, "scorekeeper assigned",
		"score_id", updated.ID,
		"from", previous,
		"to", updated.ScorekeeperID,
		"actor_id", input.ActorID,
	)
	return updated, nil
}

// Update changes status and/or manual final scores. It never triggers a
// leaderboard recalculation; only verification does.
func (s *ScoreService) Update(ctx context.Context, input UpdateScoreInput) (score.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.Update")
	defer span.End()

	record, err := s.requireRecord(ctx, input.ScoreID)
	if err != nil {
		return score.Record{}, err
	}
	g, err := s.requireGame(ctx, record.GameID)
	if err != nil {
		return score.Record{}, err
	}

	update := score.Update{
		FinalScoreSide1: input.FinalScoreSide1,
		FinalScoreSide2: input.FinalScoreSide2,
	}
	if input.Status != nil {
		status := score.Status(strings.TrimSpace(*input.Status))
		update.Status = &status
	}

	updated, err := s.scoreRepo.Mutate(ctx, record.ID, func(current score.Record, details []score.Detail) (score.Mutation, error) {
		if err := authorize(input.Guard, current, g); err != nil {
			return score.Mutation{}, err
		}
		next, err := score.ApplyUpdate(current, g, update, score.HasScoringDetails(details), s.now().UTC())
		if err != nil {
			return score.Mutation{}, err
		}
		return score.Mutation{Record: next}, nil
	})
	if err != nil {
		return score.Record{}, classifyScoreError("update score record", err)
	}

	s.logger.InfoContext(ctx, "score record updated",
		"score_id", updated.ID,
		"status", updated.Status,
		"verification_status", updated.VerificationStatus,
	)
	return updated, nil
}

// RecordDetail adds a detail event and recomputes the final scores in the same write.
func (s *ScoreService) RecordDetail(ctx context.Context, input DetailInput) (score.Record, score.Detail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.RecordDetail")
	defer span.End()

	record, err := s.requireRecord(ctx, input.ScoreID)
	if err != nil {
		return score.Record{}, score.Detail{}, err
	}
	g, err := s.requireGame(ctx, record.GameID)
	if err != nil {
		return score.Record{}, score.Detail{}, err
	}

	detailID, err := s.ids.NewID()
	if err != nil {
		return score.Record{}, score.Detail{}, fmt.Errorf("generate score detail id: %w", err)
	}

	now := s.now().UTC()
	detail := score.Detail{
		ID:            detailID,
		ScoreRecordID: record.ID,
		TeamID:        strings.TrimSpace(input.TeamID),
		PlayerID:      strings.TrimSpace(input.PlayerID),
		AssistedByID:  strings.TrimSpace(input.AssistedByID),
		Points:        input.Points,
		EventType:     score.EventType(strings.TrimSpace(input.EventType)),
		Minute:        input.Minute,
		Period:        strings.TrimSpace(input.Period),
		Description:   strings.TrimSpace(input.Description),
		CreatedBy:     input.ActorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	roster, err := s.roster(ctx, detail.PlayerID, detail.AssistedByID)
	if err != nil {
		return score.Record{}, score.Detail{}, err
	}

	updated, err := s.scoreRepo.Mutate(ctx, record.ID, func(current score.Record, details []score.Detail) (score.Mutation, error) {
		if err := authorize(input.Guard, current, g); err != nil {
			return score.Mutation{}, err
		}
		if err := current.Editable(); err != nil {
			return score.Mutation{}, err
		}
		if err := score.ValidateDetail(detail, g, roster); err != nil {
			return score.Mutation{}, err
		}
		next, err := score.ApplyDetails(current, g, details, append(details, detail), now)
		if err != nil {
			return score.Mutation{}, err
		}
		return score.Mutation{Record: next, UpsertDetail: &detail}, nil
	})
	if err != nil {
		return score.Record{}, score.Detail{}, classifyScoreError("record score detail", err)
	}

	s.logger.InfoContext(ctx, "score detail recorded",
		"score_id", updated.ID,
		"detail_id", detail.ID,
		"event_type", detail.EventType,
		"final_score_side1", derefInt(updated.FinalScoreSide1),
		"final_score_side2", derefInt(updated.FinalScoreSide2),
	)
	return updated, detail, nil
}

func (s *ScoreService) UpdateDetail(ctx context.Context, input UpdateDetailInput) (score.Record, score.Detail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.UpdateDetail")
	defer span.End()

	record, err := s.requireRecord(ctx, input.ScoreID)
	if err != nil {
		return score.Record{}, score.Detail{}, err
	}
	g, err := s.requireGame(ctx, record.GameID)
	if err != nil {
		return score.Record{}, score.Detail{}, err
	}

	existing, err := s.scoreRepo.ListDetails(ctx, record.ID)
	if err != nil {
		return score.Record{}, score.Detail{}, fmt.Errorf("list score details: %w", err)
	}
	playerIDs := []string{stringValue(input.PlayerID), stringValue(input.AssistedByID)}
	if i := indexDetail(existing, input.DetailID); i >= 0 {
		playerIDs = append(playerIDs, existing[i].PlayerID, existing[i].AssistedByID)
	}
	roster, err := s.roster(ctx, playerIDs...)
	if err != nil {
		return score.Record{}, score.Detail{}, err
	}

	now := s.now().UTC()
	var patched score.Detail
	updated, err := s.scoreRepo.Mutate(ctx, record.ID, func(current score.Record, details []score.Detail) (score.Mutation, error) {
		if err := authorize(input.Guard, current, g); err != nil {
			return score.Mutation{}, err
		}
		i := indexDetail(details, input.DetailID)
		if i < 0 {
			return score.Mutation{}, score.ErrDetailNotFound
		}
		if err := current.Editable(); err != nil {
			return score.Mutation{}, err
		}

		patched = patchDetail(details[i], input, now)
		if err := score.ValidateDetail(patched, g, roster); err != nil {
			return score.Mutation{}, err
		}
		next := make([]score.Detail, len(details))
		copy(next, details)
		next[i] = patched

		rec, err := score.ApplyDetails(current, g, details, next, now)
		if err != nil {
			return score.Mutation{}, err
		}
		return score.Mutation{Record: rec, UpsertDetail: &patched}, nil
	})
	if err != nil {
		return score.Record{}, score.Detail{}, classifyScoreError("update score detail", err)
	}
	return updated, patched, nil
}

func (s *ScoreService) DeleteDetail(ctx context.Context, scoreID, detailID string, guard EditGuard) (score.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.DeleteDetail")
	defer span.End()

	record, err := s.requireRecord(ctx, scoreID)
	if err != nil {
		return score.Record{}, err
	}
	g, err := s.requireGame(ctx, record.GameID)
	if err != nil {
		return score.Record{}, err
	}

	updated, err := s.scoreRepo.Mutate(ctx, record.ID, func(current score.Record, details []score.Detail) (score.Mutation, error) {
		if err := authorize(guard, current, g); err != nil {
			return score.Mutation{}, err
		}
		i := indexDetail(details, detailID)
		if i < 0 {
			return score.Mutation{}, score.ErrDetailNotFound
		}
		remaining := make([]score.Detail, 0, len(details)-1)
		remaining = append(remaining, details[:i]...)
		remaining = append(remaining, details[i+1:]...)

		rec, err := score.ApplyDetails(current, g, details, remaining, s.now().UTC())
		if err != nil {
			return score.Mutation{}, err
		}
		return score.Mutation{Record: rec, DeleteDetailID: details[i].ID}, nil
	})
	if err != nil {
		return score.Record{}, classifyScoreError("delete score detail", err)
	}
	return updated, nil
}

// Verify records an admin decision on a completed result. After the write
// commits, a change that can move the standings triggers recalculation.
func (s *ScoreService) Verify(ctx context.Context, input VerifyInput) (VerifyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.Verify")
	defer span.End()

	record, err := s.requireRecord(ctx, input.ScoreID)
	if err != nil {
		return VerifyResult{}, err
	}

	var before score.Record
	updated, err := s.scoreRepo.Mutate(ctx, record.ID, func(current score.Record, _ []score.Detail) (score.Mutation, error) {
		before = current
		next, err := score.ApplyVerification(current, score.Verification{
			Verified: input.Verified,
			Status:   score.VerificationStatus(strings.TrimSpace(input.Status)),
			Notes:    input.Notes,
			ActorID:  input.ActorID,
			At:       s.now().UTC(),
		})
		if err != nil {
			return score.Mutation{}, err
		}
		return score.Mutation{Record: next}, nil
	})
	if err != nil {
		return VerifyResult{}, classifyScoreError("verify score record", err)
	}

	span.SetAttributes(
		attribute.String("score_id", updated.ID),
		attribute.String("verification_status", string(updated.VerificationStatus)),
	)
	s.logger.InfoContext(ctx, "score record verification changed",
		"score_id", updated.ID,
		"sport_event_id", updated.SportEventID,
		"from", before.VerificationStatus,
		"to", updated.VerificationStatus,
		"actor_id", input.ActorID,
	)

	result := VerifyResult{Record: updated}
	if s.trigger != nil && score.AffectsStandings(before, updated) {
		res := s.trigger.Trigger(ctx, updated.SportEventID)
		result.Recalculation = &res
	}
	return result, nil
}

func (s *ScoreService) requireRecord(ctx context.Context, scoreID string) (score.Record, error) {
	scoreID = strings.TrimSpace(scoreID)
	if scoreID == "" {
		return score.Record{}, fmt.Errorf("%w: score id is required", ErrInvalidInput)
	}
	record, exists, err := s.scoreRepo.GetByID(ctx, scoreID)
	if err != nil {
		return score.Record{}, fmt.Errorf("get score record: %w", err)
	}
	if !exists {
		return score.Record{}, fmt.Errorf("%w: score=%s", ErrNotFound, scoreID)
	}
	return record, nil
}

func (s *ScoreService) requireGame(ctx context.Context, gameID string) (game.Game, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return g, nil
}

func (s *ScoreService) roster(ctx context.Context, playerIDs ...string) (team.Roster, error) {
	ids := make([]string, 0, len(playerIDs))
	seen := make(map[string]struct{}, len(playerIDs))
	for _, raw := range playerIDs {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ids = append(ids, v)
	}
	if len(ids) == 0 {
		return team.Roster{}, nil
	}
	players, err := s.teamRepo.ListPlayersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return team.NewRoster(players), nil
}

func (s *ScoreService) view(ctx context.Context, record score.Record) (ScoreView, error) {
	details, err := s.scoreRepo.ListDetails(ctx, record.ID)
	if err != nil {
		return ScoreView{}, fmt.Errorf("list score details: %w", err)
	}
	return ScoreView{Record: record, Details: details}, nil
}

func authorize(guard EditGuard, record score.Record, g game.Game) error {
	if guard == nil || guard(record.ScorekeeperID, g.ScorekeeperID) {
		return nil
	}
	return fmt.Errorf("%w: caller is not an admin or the assigned scorekeeper", ErrForbidden)
}

func patchDetail(d score.Detail, in UpdateDetailInput, now time.Time) score.Detail {
	if in.TeamID != nil {
		d.TeamID = strings.TrimSpace(*in.TeamID)
	}
	if in.PlayerID != nil {
		d.PlayerID = strings.TrimSpace(*in.PlayerID)
	}
	if in.AssistedByID != nil {
		d.AssistedByID = strings.TrimSpace(*in.AssistedByID)
	}
	if in.Points != nil {
		d.Points = *in.Points
	}
	if in.EventType != nil {
		d.EventType = score.EventType(strings.TrimSpace(*in.EventType))
	}
	if in.Minute != nil {
		minute := *in.Minute
		d.Minute = &minute
	}
	if in.Period != nil {
		d.Period = strings.TrimSpace(*in.Period)
	}
	if in.Description != nil {
		d.Description = strings.TrimSpace(*in.Description)
	}
	d.UpdatedAt = now
	return d
}

func indexDetail(details []score.Detail, detailID string) int {
	detailID = strings.TrimSpace(detailID)
	for i, d := range details {
		if d.ID == detailID {
			return i
		}
	}
	return -1
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

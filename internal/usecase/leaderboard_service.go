package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/domain/sportevent"
	"github.com/riskibarqy/sports-tournament/internal/domain/team"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
)

type LeaderboardView struct {
	Leaderboard leaderboard.Leaderboard
	SportEvent  sportevent.SportEvent
	Entries     []leaderboard.Entry
}

type RecalculationResult struct {
	SportEventID string                  `json:"sport_event_id"`
	Outcome      leaderboard.Outcome     `json:"outcome"`
	Games        int                     `json:"games"`
	Entries      int                     `json:"entries"`
	LastUpdated  *time.Time              `json:"last_updated,omitempty"`
	IsFinal      bool                    `json:"is_final"`
	Error        string                  `json:"error,omitempty"`
	Board        leaderboard.Leaderboard `json:"-"`
}

type RecalculateAllResult struct {
	SportEventCount int                   `json:"sport_event_count"`
	FailedCount     int                   `json:"failed_count"`
	Items           []RecalculationResult `json:"items"`
}

type LeaderboardService struct {
	leaderboardRepo leaderboard.Repository
	sportEventRepo  sportevent.Repository
	gameRepo        game.Repository
	teamRepo        team.Repository
	logger          *logging.Logger
	parallelism     int
	now             func() time.Time
}

func NewLeaderboardService(
	leaderboardRepo leaderboard.Repository,
	sportEventRepo sportevent.Repository,
	gameRepo game.Repository,
	teamRepo team.Repository,
	parallelism int,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if parallelism <= 0 {
		parallelism = 4
	}
	return &LeaderboardService{
		leaderboardRepo: leaderboardRepo,
		sportEventRepo:  sportEventRepo,
		gameRepo:        gameRepo,
		teamRepo:        teamRepo,
		logger:          logger.Named("leaderboard"),
		parallelism:     parallelism,
		now:             time.Now,
	}
}

// Recalculate rebuilds the standings of one sport event from its completed and
// verified games. A final leaderboard is left untouched.
func (s *LeaderboardService) Recalculate(ctx context.Context, sportEventID string) (RecalculationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Recalculate")
	defer span.End()

	sportEventID = strings.TrimSpace(sportEventID)
	if sportEventID == "" {
		return RecalculationResult{}, fmt.Errorf("%w: sport event id is required", ErrInvalidInput)
	}
	if _, err := s.requireSportEvent(ctx, sportEventID); err != nil {
		return RecalculationResult{}, err
	}

	board, plan, err := s.leaderboardRepo.Recalculate(ctx, sportEventID, s.now().UTC(), leaderboard.PlanRecalculation)
	if err != nil {
		return RecalculationResult{}, failSpan(span, fmt.Errorf("recalculate leaderboard sport_event=%s: %w", sportEventID, err))
	}
	span.SetAttributes(
		attribute.String("sport_event_id", sportEventID),
		attribute.String("outcome", string(plan.Outcome)),
		attribute.Int("entries", len(plan.Entries)),
	)

	s.logger.InfoContext(ctx, "leaderboard recalculated",
		"sport_event_id", sportEventID,
		"outcome", plan.Outcome,
		"games", plan.Games,
		"entries", len(plan.Entries),
	)

	return RecalculationResult{
		SportEventID: sportEventID,
		Outcome:      plan.Outcome,
		Games:        plan.Games,
		Entries:      len(plan.Entries),
		LastUpdated:  board.LastUpdated,
		IsFinal:      board.IsFinal,
		Board:        board,
	}, nil
}

// RecalculateAll repairs every sport event that has games, in parallel across events.
// Per-event failures are reported in the result rather than aborting the others.
func (s *LeaderboardService) RecalculateAll(ctx context.Context) (RecalculateAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.RecalculateAll")
	defer span.End()

	ids, err := s.gameRepo.ListSportEventIDs(ctx)
	if err != nil {
		return RecalculateAllResult{}, fmt.Errorf("list sport events with games: %w", err)
	}

	p := pool.NewWithResults[RecalculationResult]().WithMaxGoroutines(s.parallelism)
	for _, id := range ids {
		id := id
		p.Go(func() RecalculationResult {
			res, err := s.Recalculate(ctx, id)
			if err != nil {
				s.logger.ErrorContext(ctx, "leaderboard recalculation failed", "sport_event_id", id, "error", err)
				return RecalculationResult{SportEventID: id, Error: err.Error()}
			}
			return res
		})
	}
	items := p.Wait()
	sort.Slice(items, func(i, j int) bool { return items[i].SportEventID < items[j].SportEventID })

	out := RecalculateAllResult{SportEventCount: len(ids), Items: items}
	for _, item := range items {
		if item.Error != "" {
			out.FailedCount++
		}
	}
	return out, nil
}

// SetFinal freezes or unfreezes a leaderboard without recalculating it.
func (s *LeaderboardService) SetFinal(ctx context.Context, sportEventID string, final bool) (leaderboard.Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.SetFinal")
	defer span.End()

	sportEventID = strings.TrimSpace(sportEventID)
	if sportEventID == "" {
		return leaderboard.Leaderboard{}, fmt.Errorf("%w: sport event id is required", ErrInvalidInput)
	}
	if _, err := s.requireSportEvent(ctx, sportEventID); err != nil {
		return leaderboard.Leaderboard{}, err
	}

	board, err := s.leaderboardRepo.SetFinal(ctx, sportEventID, final, s.now().UTC())
	if err != nil {
		return leaderboard.Leaderboard{}, fmt.Errorf("set leaderboard final sport_event=%s: %w", sportEventID, err)
	}
	s.logger.InfoContext(ctx, "leaderboard finalization changed", "sport_event_id", sportEventID, "is_final", final)
	return board, nil
}

func (s *LeaderboardService) Get(ctx context.Context, sportEventID string) (LeaderboardView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Get")
	defer span.End()

	sportEventID = strings.TrimSpace(sportEventID)
	if sportEventID == "" {
		return LeaderboardView{}, fmt.Errorf("%w: sport event id is required", ErrInvalidInput)
	}
	event, err := s.requireSportEvent(ctx, sportEventID)
	if err != nil {
		return LeaderboardView{}, err
	}

	board, exists, err := s.leaderboardRepo.GetBySportEvent(ctx, sportEventID)
	if err != nil {
		return LeaderboardView{}, fmt.Errorf("get leaderboard: %w", err)
	}
	if !exists {
		return LeaderboardView{}, fmt.Errorf("%w: leaderboard sport_event=%s", ErrNotFound, sportEventID)
	}

	entries, err := s.leaderboardRepo.ListEntries(ctx, board.ID)
	if err != nil {
		return LeaderboardView{}, fmt.Errorf("list leaderboard entries: %w", err)
	}
	entries, err = s.withTeamNames(ctx, entries)
	if err != nil {
		return LeaderboardView{}, err
	}

	return LeaderboardView{Leaderboard: board, SportEvent: event, Entries: entries}, nil
}

func (s *LeaderboardService) List(ctx context.Context, filter leaderboard.ListFilter) ([]leaderboard.Leaderboard, error) {
	items, err := s.leaderboardRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list leaderboards: %w", err)
	}
	return items, nil
}

// ListTeamStandings returns the team's row in every leaderboard it appears in.
func (s *LeaderboardService) ListTeamStandings(ctx context.Context, teamID string) ([]leaderboard.TeamStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ListTeamStandings")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	standings, err := s.leaderboardRepo.ListTeamStandings(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team standings: %w", err)
	}

	eventIDs := make([]string, 0, len(standings))
	for _, st := range standings {
		eventIDs = append(eventIDs, st.Leaderboard.SportEventID)
	}
	events, err := s.sportEventRepo.ListByIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("list sport events: %w", err)
	}
	names := make(map[string]string, len(events))
	for _, ev := range events {
		names[ev.ID] = ev.Name
	}

	for i := range standings {
		standings[i].SportEventName = names[standings[i].Leaderboard.SportEventID]
		standings[i].Entry.TeamName = item.Name
	}
	return standings, nil
}

func (s *LeaderboardService) requireSportEvent(ctx context.Context, sportEventID string) (sportevent.SportEvent, error) {
	event, exists, err := s.sportEventRepo.GetByID(ctx, sportEventID)
	if err != nil {
		return sportevent.SportEvent{}, fmt.Errorf("get sport event: %w", err)
	}
	if !exists {
		return sportevent.SportEvent{}, fmt.Errorf("%w: sport_event=%s", ErrNotFound, sportEventID)
	}
	return event, nil
}

func (s *LeaderboardService) withTeamNames(ctx context.Context, entries []leaderboard.Entry) ([]leaderboard.Entry, error) {
	if len(entries) == 0 {
		return entries, nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.TeamID)
	}
	teams, err := s.teamRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	out := make([]leaderboard.Entry, len(entries))
	copy(out, entries)
	for i := range out {
		out[i].TeamName = names[out[i].TeamID]
	}
	return out, nil
}

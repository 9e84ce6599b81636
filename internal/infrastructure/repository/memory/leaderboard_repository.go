package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/platform/id"
	"github.com/riskibarqy/sports-tournament/internal/platform/resilience"
)

// LeaderboardRepository serializes writers per sport event and publishes each
// recalculation as one swap of the entry slice, so readers never see a partial ranking.
type LeaderboardRepository struct {
	mu      sync.RWMutex
	boards  map[string]leaderboard.Leaderboard
	entries map[string][]leaderboard.Entry
	locks   resilience.KeyedMutex
	results ResultSource
	ids     id.Generator
}

func NewLeaderboardRepository(results ResultSource, ids id.Generator) *LeaderboardRepository {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &LeaderboardRepository{
		boards:  make(map[string]leaderboard.Leaderboard),
		entries: make(map[string][]leaderboard.Entry),
		results: results,
		ids:     ids,
	}
}

func (r *LeaderboardRepository) GetBySportEvent(_ context.Context, sportEventID string) (leaderboard.Leaderboard, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.boards[sportEventID]
	return cloneBoard(b), ok, nil
}

func (r *LeaderboardRepository) List(_ context.Context, filter leaderboard.ListFilter) ([]leaderboard.Leaderboard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]leaderboard.Leaderboard, 0, len(r.boards))
	for _, b := range r.boards {
		if filter.IsFinal != nil && b.IsFinal != *filter.IsFinal {
			continue
		}
		out = append(out, cloneBoard(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SportEventID < out[j].SportEventID })
	return out, nil
}

func (r *LeaderboardRepository) ListEntries(_ context.Context, leaderboardID string) ([]leaderboard.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]leaderboard.Entry(nil), r.entries[leaderboardID]...), nil
}

func (r *LeaderboardRepository) ListTeamStandings(_ context.Context, teamID string) ([]leaderboard.TeamStanding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]leaderboard.TeamStanding, 0)
	for _, b := range r.boards {
		for _, e := range r.entries[b.ID] {
			if e.TeamID == teamID {
				out = append(out, leaderboard.TeamStanding{Leaderboard: cloneBoard(b), Entry: e})
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Leaderboard.SportEventID < out[j].Leaderboard.SportEventID })
	return out, nil
}

func (r *LeaderboardRepository) SetFinal(_ context.Context, sportEventID string, final bool, now time.Time) (leaderboard.Leaderboard, error) {
	unlock := r.locks.Lock(sportEventID)
	defer unlock()

	board, err := r.getOrNew(sportEventID, now)
	if err != nil {
		return leaderboard.Leaderboard{}, err
	}
	board.IsFinal = final
	board.UpdatedAt = now

	r.mu.Lock()
	r.boards[sportEventID] = board
	r.mu.Unlock()
	return cloneBoard(board), nil
}

func (r *LeaderboardRepository) Recalculate(ctx context.Context, sportEventID string, now time.Time, plan leaderboard.PlanFunc) (leaderboard.Leaderboard, leaderboard.Plan, error) {
	unlock := r.locks.Lock(sportEventID)
	defer unlock()

	board, err := r.getOrNew(sportEventID, now)
	if err != nil {
		return leaderboard.Leaderboard{}, leaderboard.Plan{}, err
	}
	var results []leaderboard.GameResult
	if !board.IsFinal {
		results, err = r.results.QualifyingResults(ctx, sportEventID)
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
		return cloneBoard(board), p, nil
	case leaderboard.OutcomeNoResults:
		board.LastUpdated = &now
		board.UpdatedAt = now
		r.mu.Lock()
		r.boards[sportEventID] = board
		r.mu.Unlock()
		return cloneBoard(board), p, nil
	}

	r.mu.RLock()
	existing := make(map[string]string, len(r.entries[board.ID]))
	for _, e := range r.entries[board.ID] {
		existing[e.TeamID] = e.ID
	}
	r.mu.RUnlock()

	next := make([]leaderboard.Entry, len(p.Entries))
	for i, e := range p.Entries {
		e.LeaderboardID = board.ID
		e.ID = existing[e.TeamID]
		if e.ID == "" {
			if e.ID, err = r.ids.NewID(); err != nil {
				return leaderboard.Leaderboard{}, leaderboard.Plan{}, fmt.Errorf("generate leaderboard entry id: %w", err)
			}
		}
		e.UpdatedAt = now
		next[i] = e
	}
	board.LastUpdated = &now
	board.UpdatedAt = now

	r.mu.Lock()
	r.boards[sportEventID] = board
	r.entries[board.ID] = next
	r.mu.Unlock()

	p.Entries = append([]leaderboard.Entry(nil), next...)
	return cloneBoard(board), p, nil
}

// getOrNew returns the stored board or an unsaved new one; callers hold the sport event lock.
func (r *LeaderboardRepository) getOrNew(sportEventID string, now time.Time) (leaderboard.Leaderboard, error) {
	r.mu.RLock()
	b, ok := r.boards[sportEventID]
	r.mu.RUnlock()
	if ok {
		return cloneBoard(b), nil
	}
	boardID, err := r.ids.NewID()
	if err != nil {
		return leaderboard.Leaderboard{}, fmt.Errorf("generate leaderboard id: %w", err)
	}
	return leaderboard.Leaderboard{
		ID:           boardID,
		SportEventID: sportEventID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func cloneBoard(b leaderboard.Leaderboard) leaderboard.Leaderboard {
	if b.LastUpdated != nil {
		v := *b.LastUpdated
		b.LastUpdated = &v
	}
	return b
}

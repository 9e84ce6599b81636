package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	"github.com/riskibarqy/sports-tournament/internal/domain/sportevent"
	"github.com/riskibarqy/sports-tournament/internal/domain/team"
)

type SportEventRepository struct {
	mu     sync.RWMutex
	events map[string]sportevent.SportEvent
}

func NewSportEventRepository(events []sportevent.SportEvent) *SportEventRepository {
	r := &SportEventRepository{events: make(map[string]sportevent.SportEvent, len(events))}
	for _, ev := range events {
		r.events[ev.ID] = ev
	}
	return r
}

func (r *SportEventRepository) GetByID(_ context.Context, id string) (sportevent.SportEvent, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, ok := r.events[id]
	return ev, ok, nil
}

func (r *SportEventRepository) ListByIDs(_ context.Context, ids []string) ([]sportevent.SportEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sportevent.SportEvent, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if ev, ok := r.events[id]; ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

type TeamRepository struct {
	mu      sync.RWMutex
	teams   map[string]team.Team
	players map[string]team.Player
}

func NewTeamRepository(teams []team.Team, players []team.Player) *TeamRepository {
	r := &TeamRepository{
		teams:   make(map[string]team.Team, len(teams)),
		players: make(map[string]team.Player, len(players)),
	}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	for _, p := range players {
		r.players[p.ID] = p
	}
	return r
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[id]
	return t, ok, nil
}

func (r *TeamRepository) ListByIDs(_ context.Context, ids []string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if t, ok := r.teams[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TeamRepository) ListPlayersByIDs(_ context.Context, ids []string) ([]team.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Player, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if p, ok := r.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	r := &GameRepository{games: make(map[string]game.Game, len(games))}
	for _, g := range games {
		r.games[g.ID] = cloneGame(g)
	}
	return r
}

func (r *GameRepository) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[id]
	if !ok {
		return game.Game{}, false, nil
	}
	return cloneGame(g), true, nil
}

func (r *GameRepository) ListBySportEvent(_ context.Context, sportEventID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, g := range r.games {
		if g.SportEventID == sportEventID {
			out = append(out, cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *GameRepository) ListSportEventIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, g := range r.games {
		if _, ok := seen[g.SportEventID]; ok {
			continue
		}
		seen[g.SportEventID] = struct{}{}
		out = append(out, g.SportEventID)
	}
	sort.Strings(out)
	return out, nil
}

func cloneGame(g game.Game) game.Game {
	g.Participants = append([]game.Participant(nil), g.Participants...)
	return g
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

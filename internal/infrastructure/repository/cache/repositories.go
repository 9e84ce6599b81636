package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/domain/sportevent"
	"github.com/riskibarqy/sports-tournament/internal/domain/team"
	basecache "github.com/riskibarqy/sports-tournament/internal/platform/cache"
)

const leaderboardPrefix = "leaderboard:"

type cachedItem[T any] struct {
	value  T
	exists bool
}

// LeaderboardRepository caches leaderboard reads. Every write drops the whole
// leaderboard keyspace after it commits.
type LeaderboardRepository struct {
	next  leaderboard.Repository
	cache *basecache.Store
}

func NewLeaderboardRepository(next leaderboard.Repository, cache *basecache.Store) *LeaderboardRepository {
	return &LeaderboardRepository{next: next, cache: cache}
}

func (r *LeaderboardRepository) GetBySportEvent(ctx context.Context, sportEventID string) (leaderboard.Leaderboard, bool, error) {
	key := leaderboardPrefix + "event:" + sportEventID
	v, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedItem[leaderboard.Leaderboard], error) {
		item, exists, err := r.next.GetBySportEvent(ctx, sportEventID)
		return cachedItem[leaderboard.Leaderboard]{value: item, exists: exists}, err
	})
	if err != nil {
		return leaderboard.Leaderboard{}, false, err
	}
	return cloneBoard(v.value), v.exists, nil
}

func (r *LeaderboardRepository) List(ctx context.Context, filter leaderboard.ListFilter) ([]leaderboard.Leaderboard, error) {
	key := leaderboardPrefix + "list:all"
	if filter.IsFinal != nil {
		key = leaderboardPrefix + "list:final:" + strconv.FormatBool(*filter.IsFinal)
	}
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]leaderboard.Leaderboard, error) {
		return r.next.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	out := make([]leaderboard.Leaderboard, len(items))
	for i, b := range items {
		out[i] = cloneBoard(b)
	}
	return out, nil
}

func (r *LeaderboardRepository) ListEntries(ctx context.Context, leaderboardID string) ([]leaderboard.Entry, error) {
	key := leaderboardPrefix + "entries:" + leaderboardID
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]leaderboard.Entry, error) {
		return r.next.ListEntries(ctx, leaderboardID)
	})
	if err != nil {
		return nil, err
	}
	return append([]leaderboard.Entry(nil), items...), nil
}

func (r *LeaderboardRepository) ListTeamStandings(ctx context.Context, teamID string) ([]leaderboard.TeamStanding, error) {
	key := leaderboardPrefix + "team:" + teamID
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]leaderboard.TeamStanding, error) {
		return r.next.ListTeamStandings(ctx, teamID)
	})
	if err != nil {
		return nil, err
	}
	out := make([]leaderboard.TeamStanding, len(items))
	for i, st := range items {
		st.Leaderboard = cloneBoard(st.Leaderboard)
		out[i] = st
	}
	return out, nil
}

func (r *LeaderboardRepository) SetFinal(ctx context.Context, sportEventID string, final bool, now time.Time) (leaderboard.Leaderboard, error) {
	board, err := r.next.SetFinal(ctx, sportEventID, final, now)
	r.cache.DeletePrefix(ctx, leaderboardPrefix)
	return board, err
}

func (r *LeaderboardRepository) Recalculate(ctx context.Context, sportEventID string, now time.Time, plan leaderboard.PlanFunc) (leaderboard.Leaderboard, leaderboard.Plan, error) {
	board, p, err := r.next.Recalculate(ctx, sportEventID, now, plan)
	r.cache.DeletePrefix(ctx, leaderboardPrefix)
	return board, p, err
}

func cloneBoard(b leaderboard.Leaderboard) leaderboard.Leaderboard {
	if b.LastUpdated != nil {
		v := *b.LastUpdated
		b.LastUpdated = &v
	}
	return b
}

type SportEventRepository struct {
	next  sportevent.Repository
	cache *basecache.Store
}

func NewSportEventRepository(next sportevent.Repository, cache *basecache.Store) *SportEventRepository {
	return &SportEventRepository{next: next, cache: cache}
}

func (r *SportEventRepository) GetByID(ctx context.Context, id string) (sportevent.SportEvent, bool, error) {
	v, err := basecache.Load(ctx, r.cache, "sport_event:id:"+id, func(ctx context.Context) (cachedItem[sportevent.SportEvent], error) {
		item, exists, err := r.next.GetByID(ctx, id)
		return cachedItem[sportevent.SportEvent]{value: item, exists: exists}, err
	})
	if err != nil {
		return sportevent.SportEvent{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *SportEventRepository) ListByIDs(ctx context.Context, ids []string) ([]sportevent.SportEvent, error) {
	return r.next.ListByIDs(ctx, ids)
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	v, err := basecache.Load(ctx, r.cache, "team:id:"+id, func(ctx context.Context) (cachedItem[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, id)
		return cachedItem[team.Team]{value: item, exists: exists}, err
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *TeamRepository) ListByIDs(ctx context.Context, ids []string) ([]team.Team, error) {
	key := "team:ids:" + strings.Join(ids, ",")
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]team.Team, error) {
		return r.next.ListByIDs(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

// ListPlayersByIDs is not cached; roster checks must see transfers immediately.
func (r *TeamRepository) ListPlayersByIDs(ctx context.Context, ids []string) ([]team.Player, error) {
	return r.next.ListPlayersByIDs(ctx, ids)
}

type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	v, err := basecache.Load(ctx, r.cache, "game:id:"+id, func(ctx context.Context) (cachedItem[game.Game], error) {
		item, exists, err := r.next.GetByID(ctx, id)
		return cachedItem[game.Game]{value: item, exists: exists}, err
	})
	if err != nil {
		return game.Game{}, false, err
	}
	return cloneGame(v.value), v.exists, nil
}

func (r *GameRepository) ListBySportEvent(ctx context.Context, sportEventID string) ([]game.Game, error) {
	items, err := basecache.Load(ctx, r.cache, "game:event:"+sportEventID, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListBySportEvent(ctx, sportEventID)
	})
	if err != nil {
		return nil, err
	}
	out := make([]game.Game, len(items))
	for i, g := range items {
		out[i] = cloneGame(g)
	}
	return out, nil
}

func (r *GameRepository) ListSportEventIDs(ctx context.Context) ([]string, error) {
	return r.next.ListSportEventIDs(ctx)
}

func cloneGame(g game.Game) game.Game {
	g.Participants = append([]game.Participant(nil), g.Participants...)
	return g
}

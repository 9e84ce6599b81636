package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/sports-tournament/internal/domain/score"
	"github.com/riskibarqy/sports-tournament/internal/platform/resilience"
)

// ScoreRepository keeps score records and their details. Mutations of one record
// are serialized; each mutation is applied under a single write lock.
type ScoreRepository struct {
	mu      sync.RWMutex
	records map[string]score.Record
	byGame  map[string]string
	details map[string][]score.Detail
	locks   resilience.KeyedMutex
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{
		records: make(map[string]score.Record),
		byGame:  make(map[string]string),
		details: make(map[string][]score.Detail),
	}
}

func (r *ScoreRepository) Create(_ context.Context, record score.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byGame[record.GameID]; ok {
		return score.ErrAlreadyExists
	}
	if _, ok := r.records[record.ID]; ok {
		return score.ErrAlreadyExists
	}
	r.records[record.ID] = cloneRecord(record)
	r.byGame[record.GameID] = record.ID
	return nil
}

func (r *ScoreRepository) GetByID(_ context.Context, id string) (score.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return score.Record{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (r *ScoreRepository) GetByGameID(_ context.Context, gameID string) (score.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byGame[gameID]
	if !ok {
		return score.Record{}, false, nil
	}
	return cloneRecord(r.records[id]), true, nil
}

func (r *ScoreRepository) List(_ context.Context, filter score.ListFilter) ([]score.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]score.Record, 0)
	for _, rec := range r.records {
		if filter.Matches(rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SportEventID != out[j].SportEventID {
			return out[i].SportEventID < out[j].SportEventID
		}
		return out[i].GameID < out[j].GameID
	})
	return out, nil
}

func (r *ScoreRepository) ListDetails(_ context.Context, scoreRecordID string) ([]score.Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]score.Detail(nil), r.details[scoreRecordID]...), nil
}

func (r *ScoreRepository) Mutate(_ context.Context, scoreRecordID string, fn score.MutateFunc) (score.Record, error) {
	unlock := r.locks.Lock(scoreRecordID)
	defer unlock()

	r.mu.RLock()
	current, ok := r.records[scoreRecordID]
	details := append([]score.Detail(nil), r.details[scoreRecordID]...)
	r.mu.RUnlock()
	if !ok {
		return score.Record{}, score.ErrRecordNotFound
	}

	m, err := fn(cloneRecord(current), details)
	if err != nil {
		return score.Record{}, err
	}

	next := cloneRecord(m.Record)
	next.ID = current.ID
	next.GameID = current.GameID
	next.SportEventID = current.SportEventID
	next.CreatedAt = current.CreatedAt

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.details[scoreRecordID]
	switch {
	case m.UpsertDetail != nil:
		d := *m.UpsertDetail
		d.ScoreRecordID = scoreRecordID
		replaced := false
		updated := make([]score.Detail, 0, len(stored)+1)
		for _, existing := range stored {
			if existing.ID == d.ID {
				d.CreatedAt = existing.CreatedAt
				updated = append(updated, d)
				replaced = true
				continue
			}
			updated = append(updated, existing)
		}
		if !replaced {
			updated = append(updated, d)
		}
		r.details[scoreRecordID] = updated
	case m.DeleteDetailID != "":
		updated := make([]score.Detail, 0, len(stored))
		found := false
		for _, existing := range stored {
			if existing.ID == m.DeleteDetailID {
				found = true
				continue
			}
			updated = append(updated, existing)
		}
		if !found {
			return score.Record{}, score.ErrDetailNotFound
		}
		r.details[scoreRecordID] = updated
	}

	r.records[scoreRecordID] = next
	return cloneRecord(next), nil
}

// listBySportEvent returns the records of a sport event ordered by game id.
func (r *ScoreRepository) listBySportEvent(sportEventID string) []score.Record {
	out, _ := r.List(context.Background(), score.ListFilter{SportEventID: sportEventID})
	return out
}

func cloneRecord(r score.Record) score.Record {
	if r.FinalScoreSide1 != nil {
		v := *r.FinalScoreSide1
		r.FinalScoreSide1 = &v
	}
	if r.FinalScoreSide2 != nil {
		v := *r.FinalScoreSide2
		r.FinalScoreSide2 = &v
	}
	if r.VerifiedAt != nil {
		v := *r.VerifiedAt
		r.VerifiedAt = &v
	}
	return r
}

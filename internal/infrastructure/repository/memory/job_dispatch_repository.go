package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/sports-tournament/internal/domain/jobscheduler"
)

type JobDispatchRepository struct {
	mu     sync.RWMutex
	events map[string]jobscheduler.DispatchEvent
}

func NewJobDispatchRepository() *JobDispatchRepository {
	return &JobDispatchRepository{events: make(map[string]jobscheduler.DispatchEvent)}
}

func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.events[event.DispatchID]; ok {
		if event.Payload == nil {
			event.Payload = prev.Payload
		}
		if event.Attempt < prev.Attempt {
			event.Attempt = prev.Attempt
		}
	}
	r.events[event.DispatchID] = event
	return nil
}

func (r *JobDispatchRepository) GetByDispatchID(_ context.Context, dispatchID string) (jobscheduler.DispatchEvent, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, ok := r.events[dispatchID]
	return ev, ok, nil
}

func (r *JobDispatchRepository) ListFailed(_ context.Context, limit int) ([]jobscheduler.DispatchEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]jobscheduler.DispatchEvent, 0)
	for _, ev := range r.events {
		if ev.Status == jobscheduler.StatusFailed {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

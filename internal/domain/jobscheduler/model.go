package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

const JobRecalculateLeaderboard = "recalculate_leaderboard"

// DispatchEvent is one ledger row for an asynchronous leaderboard recalculation.
// The same dispatch id moves from sent to completed or failed; Attempt counts retries.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	SportEventID string
	Status       DispatchStatus
	Attempt      int
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}

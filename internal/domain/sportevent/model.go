package sportevent

import "time"

// SportEvent is one competition inside a larger event; leaderboards are scoped to it.
type SportEvent struct {
	ID        string
	EventID   string
	Name      string
	Sport     string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}

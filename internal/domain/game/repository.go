package game

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Game, bool, error)
	ListBySportEvent(ctx context.Context, sportEventID string) ([]Game, error)
	// ListSportEventIDs returns every sport event that has at least one game.
	ListSportEventIDs(ctx context.Context) ([]string, error)
}

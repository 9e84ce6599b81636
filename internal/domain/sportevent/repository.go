package sportevent

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (SportEvent, bool, error)
	ListByIDs(ctx context.Context, ids []string) ([]SportEvent, error)
}

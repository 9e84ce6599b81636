package score

import "context"

// Mutation is the write produced by a MutateFunc. At most one of UpsertDetail
// and DeleteDetailID is set.
type Mutation struct {
	Record         Record
	UpsertDetail   *Detail
	DeleteDetailID string
}

// MutateFunc computes a mutation from the locked record and its live details.
type MutateFunc func(current Record, details []Detail) (Mutation, error)

type Repository interface {
	Create(ctx context.Context, record Record) error
	GetByID(ctx context.Context, id string) (Record, bool, error)
	GetByGameID(ctx context.Context, gameID string) (Record, bool, error)
	// List returns matching records ordered by sport event and game.
	List(ctx context.Context, filter ListFilter) ([]Record, error)
	ListDetails(ctx context.Context, scoreRecordID string) ([]Detail, error)
	// Mutate runs fn with the record locked and persists the mutation in the same
	// transaction. An error from fn rolls everything back.
	Mutate(ctx context.Context, scoreRecordID string, fn MutateFunc) (Record, error)
}

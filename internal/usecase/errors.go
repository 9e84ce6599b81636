package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/sports-tournament/internal/domain/score"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// classifyScoreError attaches the usecase sentinel matching a score domain error,
// keeping the domain error (and any FieldError) reachable through errors.As.
func classifyScoreError(op string, err error) error {
	var fieldErr *score.FieldError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound):
		return err
	case errors.As(err, &fieldErr):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, score.ErrRecordNotFound), errors.Is(err, score.ErrDetailNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, score.ErrAlreadyExists):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

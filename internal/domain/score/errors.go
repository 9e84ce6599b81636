package score

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidStatus       = errors.New("unknown status")
	ErrMissingFinalScore   = errors.New("final score is required to complete the game")
	ErrNegativeScore       = errors.New("score cannot be negative")
	ErrNotCompleted        = errors.New("only completed score records can be verified")
	ErrInvalidVerification = errors.New("verification status does not match the verified flag")
	ErrLocked              = errors.New("score record is verified or cancelled and can no longer change")
	ErrScoresFromDetails   = errors.New("final scores are derived from detail events")
	ErrTeamNotInGame       = errors.New("team is not a participant of this game")
	ErrPlayerTeamMismatch  = errors.New("player does not belong to the team")
	ErrNonPositivePoints   = errors.New("points must be a positive integer")
	ErrCardPoints          = errors.New("card events carry no points")
	ErrNegativeMinute      = errors.New("minute cannot be negative")
	ErrInvalidEventType    = errors.New("unknown event type")
	ErrMissingScorekeeper  = errors.New("scorekeeper id is required")

	ErrRecordNotFound = errors.New("score record not found")
	ErrDetailNotFound = errors.New("score detail not found")
	ErrAlreadyExists  = errors.New("score record already exists for game")
)

// FieldError scopes a validation failure to one input field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// TransitionError names the rejected edge of the status machine.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

package session

import (
	"errors"
	"fmt"
)

// Validation failures. They are wrapped in *ValidationError and the
// session stays where it was.
var (
	ErrMissingName         = errors.New("learner name is required")
	ErrMissingConsent      = errors.New("consent is required")
	ErrQuestionCount       = fmt.Errorf("question count must be between %d and %d", MinQuestionCount, MaxQuestionCount)
	ErrNoMode              = errors.New("a practice mode must be selected")
	ErrEmptyQueue          = errors.New("no items to practice")
	ErrChecklistIncomplete = errors.New("every checklist item must be confirmed")
	ErrNotSubmitted        = errors.New("submit an answer before moving on")
)

// ErrInvalidTransition is returned when an action does not apply to the
// current stage. It indicates a caller bug rather than learner input.
var ErrInvalidTransition = errors.New("invalid transition")

// ValidationError is a recoverable rejection of learner input.
type ValidationError struct {
	Stage Stage
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(st Stage, err error) error {
	return &ValidationError{Stage: st, Err: err}
}

func badTransition(st Stage, a Action) error {
	return fmt.Errorf("%w: %T in %s", ErrInvalidTransition, a, st)
}

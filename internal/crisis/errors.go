package crisis

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrComputation   = errors.New("computation failed")
	ErrInvalidConfig = errors.New("invalid config")
)

// ValidationError reports an input snapshot that cannot be analyzed
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ComputationError wraps an unexpected failure during analysis
type ComputationError struct {
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrComputation, e.Err)
}

func (e *ComputationError) Unwrap() []error {
	return []error{ErrComputation, e.Err}
}

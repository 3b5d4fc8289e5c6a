/*
errors.go - Validation error types for the pacing engine

PURPOSE:
  The engine validates configuration and observed inputs before any
  arithmetic runs. These types carry enough information (which field,
  what constraint) for the caller to build a useful message; how the
  failure is presented (toast, HTTP 400) is the caller's concern.

ERROR CATEGORIES:
  1. Assumption errors - Invalid plan configuration (bad rate, commission)
  2. Input errors - Negative or otherwise out-of-range observed values

Degenerate temporal input (inverted date ranges, zero elapsed time,
future years) is never an error; see the calendar package.
*/
package pacing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAssumptions is returned when plan configuration fails
	// validation: non-positive commission, a rate outside (0,1], or an
	// out-of-range working-days setting.
	ErrInvalidAssumptions = errors.New("invalid assumptions")

	// ErrInvalidInput is returned when an observed value (goal, YTD count,
	// earnings) is negative or non-finite.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the failing field
// =============================================================================

// AssumptionError identifies which assumption failed validation.
type AssumptionError struct {
	Field  string
	Reason string
}

func (e *AssumptionError) Error() string {
	return fmt.Sprintf("invalid assumption %s: %s", e.Field, e.Reason)
}

func (e *AssumptionError) Unwrap() error { return ErrInvalidAssumptions }

// InputError identifies an observed input that failed validation.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAssumptions) || errors.Is(err, ErrInvalidInput)
}

/*
errors.go - Centralized error types for the shift engine

PURPOSE:
  All error values in one place for consistency and discoverability.
  The API layer maps these to HTTP status codes and wire error codes.

ERROR CATEGORIES:
  1. Validation errors - Bad input shape, rejected before any mutation
  2. Store errors - The external state store failed or found nothing

USAGE:
  if errors.Is(err, shift.ErrBadTimeFormat) { ... 400 BAD_TIME_FORMAT ... }

SEE ALSO:
  - engine.go: Raises validation errors
  - store.go: Raises store errors
*/
package shift

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrBadTimeFormat is returned when a planned time string does not
	// match the two-digit-colon-two-digit pattern.
	ErrBadTimeFormat = errors.New("planned time must match HH:MM")

	// ErrUnknownOperator is returned when a takeover names an operator
	// outside the roster.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrBadShiftKind is returned when a takeover names a kind other
	// than DAY or NIGHT.
	ErrBadShiftKind = errors.New("invalid shift kind")

	// ErrStateNotFound is returned by stores when no state document has
	// been saved yet (cold start).
	ErrStateNotFound = errors.New("state not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TakeoverError reports which field of a takeover request was invalid.
type TakeoverError struct {
	Operator OperatorID
	Kind     ShiftKind
	cause    error
}

func (e *TakeoverError) Error() string {
	return fmt.Sprintf("takeover rejected (operator=%q kind=%q): %v", e.Operator, e.Kind, e.cause)
}

func (e *TakeoverError) Unwrap() error { return e.cause }

// IsValidation reports whether err is caused by invalid client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrBadTimeFormat) ||
		errors.Is(err, ErrUnknownOperator) ||
		errors.Is(err, ErrBadShiftKind)
}

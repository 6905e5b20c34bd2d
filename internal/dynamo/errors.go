package dynamo

import "errors"

// Domain errors for engine operations.
var (
	// ErrDivideByZero indicates a domain with a zero-width t or y span.
	ErrDivideByZero = errors.New("dynamo: degenerate domain span (divide by zero)")

	// ErrInvalidConfig indicates bounds, divisions or step outside their valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrNonFinite indicates a computed value of NaN or Inf.
	ErrNonFinite = errors.New("dynamo: non-finite value (NaN or Inf detected)")
)

// StepError wraps an error with the integration step that produced it.
type StepError struct {
	Step    int
	At      Point
	Wrapped error
}

func (e *StepError) Error() string {
	return e.Wrapped.Error()
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

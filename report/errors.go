/*
errors.go - Centralized error types for the reporting engine

PURPOSE:
  All engine error types in one place. Data-quality problems inside a
  report run (bad dates, bad amounts) are never errors; they resolve to
  safe defaults in the cases package. The errors here cover caller
  mistakes: bad parameters, unknown column keys, malformed adjustments.

USAGE:
  Callers classify with errors.Is:

    if errors.Is(err, report.ErrUnknownColumn) {
        // 400, not 500
    }

SEE ALSO:
  - cases/parse.go: The silent-default policy for data fields
  - api/handlers.go: Maps these onto HTTP status codes
*/
package report

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownGranularity is returned for a granularity outside
	// monthly/quarterly/yearly.
	ErrUnknownGranularity = errors.New("unknown granularity")

	// ErrUnknownDimension is returned for an unsupported cross-tab
	// dimension.
	ErrUnknownDimension = errors.New("unknown dimension")

	// ErrUnknownColumn is returned when a view names a column key
	// outside the closed projector registry.
	ErrUnknownColumn = errors.New("unknown column key")

	// ErrInvalidAdjustment is returned when an adjustment fails
	// validation before it is stored.
	ErrInvalidAdjustment = errors.New("invalid adjustment")

	// ErrNoYears is returned when an aggregation is requested with an
	// empty year list.
	ErrNoYears = errors.New("no reporting years requested")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AdjustmentValidationError reports which field of an adjustment was
// rejected and why.
type AdjustmentValidationError struct {
	Field  string
	Reason string
}

func (e *AdjustmentValidationError) Error() string {
	return fmt.Sprintf("invalid adjustment: %s %s", e.Field, e.Reason)
}

func (e *AdjustmentValidationError) Unwrap() error { return ErrInvalidAdjustment }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is the caller's fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownGranularity) ||
		errors.Is(err, ErrUnknownDimension) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrInvalidAdjustment) ||
		errors.Is(err, ErrNoYears)
}

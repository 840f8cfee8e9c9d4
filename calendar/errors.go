package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMemberRequired is returned when a capacity calculation is
	// attempted without a team member. Missing members are never
	// silently defaulted.
	ErrMemberRequired = errors.New("team member is required")

	// ErrOutOfRange is the sentinel wrapped by RangeError.
	ErrOutOfRange = errors.New("value out of range")

	// ErrBadMonthKey is the sentinel wrapped by BadMonthKeyError.
	ErrBadMonthKey = errors.New("malformed month key")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RangeError reports a month or year outside the supported range.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid %s: %d (valid range %d-%d)", e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// BadMonthKeyError reports a month identifier not in YYYY-MM form.
type BadMonthKeyError struct {
	Key string
}

func (e *BadMonthKeyError) Error() string {
	return fmt.Sprintf("invalid month key %q: expected YYYY-MM", e.Key)
}

func (e *BadMonthKeyError) Unwrap() error { return ErrBadMonthKey }

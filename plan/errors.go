package plan

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMemberNotFound is the sentinel wrapped by MemberNotFoundError.
	ErrMemberNotFound = errors.New("team member not found")

	// ErrNegativeTotal is returned when a distribution is requested for
	// a negative man-day budget.
	ErrNegativeTotal = errors.New("total man-days must not be negative")

	// ErrNegativeAllocation is returned when a redistribution would set
	// a month to a negative planned value.
	ErrNegativeAllocation = errors.New("allocation must not be negative")

	// ErrAssignmentRequired is returned when redistribution is invoked
	// without an assignment.
	ErrAssignmentRequired = errors.New("assignment is required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MemberNotFoundError reports a missing team member.
type MemberNotFoundError struct {
	ID string
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("team member %q not found", e.ID)
}

func (e *MemberNotFoundError) Unwrap() error { return ErrMemberNotFound }

// DateRangeError reports a distribution range whose start is not
// strictly before its end.
type DateRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s must be before end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

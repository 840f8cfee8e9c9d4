package calendar

import (
	"fmt"
	"regexp"
	"time"
)

// =============================================================================
// MONTH KEY - Canonical YYYY-MM identifier for all per-month maps
// =============================================================================

// MonthKey is a month identifier in the canonical "YYYY-MM" form with a
// zero-padded month. Lexicographic order equals chronological order,
// which the allocation engine relies on when sorting months.
type MonthKey string

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// MonthKeyFor returns the MonthKey of the month containing t.
func MonthKeyFor(t time.Time) MonthKey {
	return MonthKey(t.Format("2006-01"))
}

// Valid reports whether the key is well-formed.
func (k MonthKey) Valid() bool {
	return monthKeyPattern.MatchString(string(k))
}

// Parse splits the key into year and month, or fails with a
// BadMonthKeyError for anything not matching YYYY-MM.
func (k MonthKey) Parse() (year int, month time.Month, err error) {
	if !k.Valid() {
		return 0, 0, &BadMonthKeyError{Key: string(k)}
	}
	var m int
	if _, err := fmt.Sscanf(string(k), "%4d-%2d", &year, &m); err != nil {
		return 0, 0, &BadMonthKeyError{Key: string(k)}
	}
	return year, time.Month(m), nil
}

// Start returns midnight UTC on the first day of the month.
func (k MonthKey) Start() (time.Time, error) {
	year, month, err := k.Parse()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), nil
}

// Before reports chronological order. Both keys must be well-formed for
// the comparison to be meaningful.
func (k MonthKey) Before(other MonthKey) bool { return string(k) < string(other) }

// After reports chronological order.
func (k MonthKey) After(other MonthKey) bool { return string(k) > string(other) }

func (k MonthKey) String() string { return string(k) }

// lastDayOfMonth returns the final calendar day of t's month.
func lastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

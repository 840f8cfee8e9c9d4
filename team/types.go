/*
Package team defines team member records and the lookup interface the
planning engine depends on.

PURPOSE:
  The capacity calculator and the allocation engine never own team
  member data. They are handed a Manager and look members up by ID.
  This package defines:
  - Member: the record itself (country, default capacity, vacations)
  - Manager: the lookup interface (implemented in-memory here and by
    store/sqlite for persistence)

KEY CONCEPTS:
  MonthlyCapacity:
    A member-level default used only as a fallback when the calendar
    calculator cannot produce a real figure (e.g. no calendar data for
    the sampled year). Zero means "unset" and the engine substitutes
    DefaultMonthlyCapacity.

  VacationDays:
    Personal vacation as ISO YYYY-MM-DD dates, grouped by year. Dates
    that land on weekends or national holidays never reduce capacity;
    the calculator filters them out.

SEE ALSO:
  - calendar/calculator.go: consumes Member for capacity math
  - store/sqlite/sqlite.go: persistent Manager implementation
*/
package team

import (
	"context"

	"github.com/pubule/capacity-planner/calendar"
)

// DefaultMonthlyCapacity is the fallback man-day capacity for a month
// when a member has no explicit default and the calendar cannot help.
const DefaultMonthlyCapacity = 22

// Member is a single schedulable person. Immutable from the engine's
// perspective; only stores mutate it.
type Member struct {
	ID      string
	Name    string
	Country calendar.Country

	// MonthlyCapacity is the member's default man-days per month.
	// Zero means unset; callers substitute DefaultMonthlyCapacity.
	MonthlyCapacity int

	// VacationDays maps year -> ordered ISO YYYY-MM-DD dates.
	VacationDays map[int][]string
}

// Capacity returns the member's default monthly capacity, substituting
// DefaultMonthlyCapacity when unset.
func (m *Member) Capacity() int {
	if m.MonthlyCapacity <= 0 {
		return DefaultMonthlyCapacity
	}
	return m.MonthlyCapacity
}

// calendar.Member implementation.

func (m *Member) MemberID() string                { return m.ID }
func (m *Member) HomeCountry() calendar.Country   { return m.Country }
func (m *Member) VacationDates(year int) []string { return m.VacationDays[year] }

// Manager supplies team member records by ID.
//
// GetTeamMember returns (nil, nil) when no member exists with that ID;
// callers that require the member decide whether that is an error.
type Manager interface {
	GetTeamMember(ctx context.Context, id string) (*Member, error)
}

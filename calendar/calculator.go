/*
calculator.go - Working-day counts and per-member available capacity

PURPOSE:
  Answers two questions:
  1. How many working days does a month (or date range) contain?
  2. How many man-days of a month can THIS team member still take on?

CACHING:
  Full-month working-day counts are cached by (month, year, country)
  and kept until ClearCache. Holiday tables are static for the process
  lifetime, so entries are never invalidated automatically.

EXISTING ALLOCATIONS:
  The calculator keeps an index of man-days a member has already
  committed to other work, keyed by (member ID, month). It is written
  only through SetExistingAllocations and subtracted from available
  capacity unless the caller opts out.

CONCURRENCY:
  Cache and index are instance state guarded by an RWMutex, so one
  Calculator can be shared by concurrent HTTP handlers.

CROSS-COUNTRY CAVEAT:
  WorkingDaysBetween pins holiday exclusion to the Italian calendar no
  matter whose capacity is being computed. Partial-month capacity for a
  Romanian member therefore ignores Romanian holidays between the start
  date and month end. Kept intentionally so partial-month figures stay
  consistent with what planners already have; do not "fix" without
  revisiting every stored plan.
*/
package calendar

import (
	"sync"
	"time"
)

// Supported year range for working-day calculations. Holiday data only
// exists for 2024-2030; earlier years compute weekday-only counts.
const (
	MinYear = 2020
	MaxYear = 2030
)

const isoDate = "2006-01-02"

// Member is the slice of a team member record the calculator needs.
// The team package's Member satisfies it.
type Member interface {
	MemberID() string
	HomeCountry() Country
	// VacationDates returns the member's ISO YYYY-MM-DD vacation dates
	// for a year, in any order.
	VacationDates(year int) []string
}

// CapacityOptions tunes AvailableCapacity.
type CapacityOptions struct {
	// StartDate, when non-zero and inside the requested month, makes
	// the base a partial-month count from StartDate to month end.
	StartDate time.Time

	// ExcludeExisting skips the existing-allocation subtraction, giving
	// the member's gross month capacity.
	ExcludeExisting bool
}

type cacheKey struct {
	month   int
	year    int
	country Country
}

type allocKey struct {
	memberID string
	month    MonthKey
}

// Calculator computes working-day counts and member capacity.
// The zero value is not usable; construct with NewCalculator.
type Calculator struct {
	mu       sync.RWMutex
	cache    map[cacheKey]int
	existing map[allocKey]int
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache:    make(map[cacheKey]int),
		existing: make(map[allocKey]int),
	}
}

// IsNationalHoliday reports whether date is a national holiday in the
// given country. Countries or years without tables are never holidays.
func IsNationalHoliday(date time.Time, country Country) bool {
	set := holidaysFor(country, date.Year())
	_, ok := set[date.Format(isoDate)]
	return ok
}

// CalculateWorkingDays counts the working days of a month: calendar
// days minus weekends minus weekday national holidays. month is 1-12,
// year is MinYear-MaxYear; anything else fails with a RangeError.
// Results are cached until ClearCache.
func (c *Calculator) CalculateWorkingDays(month, year int, country Country) (int, error) {
	if month < 1 || month > 12 {
		return 0, &RangeError{Field: "month", Value: month, Min: 1, Max: 12}
	}
	if year < MinYear || year > MaxYear {
		return 0, &RangeError{Field: "year", Value: year, Min: MinYear, Max: MaxYear}
	}

	key := cacheKey{month: month, year: year, country: country}
	c.mu.RLock()
	if n, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return n, nil
	}
	c.mu.RUnlock()

	holidays := holidaysFor(country, year)
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	count := 0
	for d := first; d.Month() == time.Month(month); d = d.AddDate(0, 0, 1) {
		if isWeekend(d) {
			continue
		}
		if _, holiday := holidays[d.Format(isoDate)]; holiday {
			continue
		}
		count++
	}

	c.mu.Lock()
	c.cache[key] = count
	c.mu.Unlock()
	return count, nil
}

// WorkingDaysBetween counts working days from start to end inclusive.
// Holiday exclusion uses the Italian calendar regardless of member
// country (see the file header). Returns 0 when end precedes start.
func (c *Calculator) WorkingDaysBetween(start, end time.Time) int {
	start = truncateToDay(start)
	end = truncateToDay(end)
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if isWeekend(d) {
			continue
		}
		if IsNationalHoliday(d, CountryItaly) {
			continue
		}
		count++
	}
	return count
}

// AvailableCapacity computes the man-days of a month a member can still
// be allocated:
//
//	base     full-month working days, or a partial-month count when
//	         opts.StartDate falls inside the month
//	- vacation  weekday vacation days in the month that are not
//	            already national holidays (no double subtraction)
//	- existing  man-days committed elsewhere, unless opts.ExcludeExisting
//
// The result is clamped to >= 0 even when vacation plus existing work
// exceed the base.
func (c *Calculator) AvailableCapacity(m Member, month MonthKey, opts CapacityOptions) (int, error) {
	if m == nil {
		return 0, ErrMemberRequired
	}
	year, mon, err := month.Parse()
	if err != nil {
		return 0, err
	}

	var base int
	if !opts.StartDate.IsZero() && opts.StartDate.Year() == year && opts.StartDate.Month() == mon {
		base = c.WorkingDaysBetween(opts.StartDate, lastDayOfMonth(opts.StartDate))
	} else {
		base, err = c.CalculateWorkingDays(int(mon), year, m.HomeCountry())
		if err != nil {
			return 0, err
		}
	}

	vacation := c.vacationDaysIn(m, year, mon)

	existing := 0
	if !opts.ExcludeExisting {
		existing = c.ExistingAllocation(m.MemberID(), month)
	}

	capacity := base - vacation - existing
	if capacity < 0 {
		capacity = 0
	}
	return capacity, nil
}

// vacationDaysIn counts the member's vacation days inside a month that
// actually cost capacity: weekdays that are not national holidays.
// Unparsable dates are ignored.
func (c *Calculator) vacationDaysIn(m Member, year int, month time.Month) int {
	count := 0
	for _, raw := range m.VacationDates(year) {
		d, err := time.ParseInLocation(isoDate, raw, time.UTC)
		if err != nil {
			continue
		}
		if d.Year() != year || d.Month() != month {
			continue
		}
		if isWeekend(d) {
			continue
		}
		if IsNationalHoliday(d, m.HomeCountry()) {
			continue
		}
		count++
	}
	return count
}

// SetExistingAllocations records the man-days a member has already
// committed elsewhere for a month. The only mutator of the index.
func (c *Calculator) SetExistingAllocations(memberID string, month MonthKey, mds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.existing[allocKey{memberID: memberID, month: month}] = mds
}

// ExistingAllocation returns the indexed man-days for (member, month),
// defaulting to 0.
func (c *Calculator) ExistingAllocation(memberID string, month MonthKey) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.existing[allocKey{memberID: memberID, month: month}]
}

// ClearCache drops all cached working-day counts. The existing
// allocation index is untouched.
func (c *Calculator) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[cacheKey]int)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pubule/capacity-planner/calendar"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeMember struct {
	id       string
	country  calendar.Country
	vacation map[int][]string
}

func (m *fakeMember) MemberID() string                { return m.id }
func (m *fakeMember) HomeCountry() calendar.Country   { return m.country }
func (m *fakeMember) VacationDates(year int) []string { return m.vacation[year] }

func italian(id string) *fakeMember {
	return &fakeMember{id: id, country: calendar.CountryItaly, vacation: map[int][]string{}}
}

// =============================================================================
// WORKING DAY COUNTS
// =============================================================================

func TestCalculateWorkingDays_January2024_Italy(t *testing.T) {
	// 31 days, 8 weekend days, New Year's Day on a Monday.
	calc := calendar.NewCalculator()
	days, err := calc.CalculateWorkingDays(1, 2024, calendar.CountryItaly)
	require.NoError(t, err)
	assert.Equal(t, 22, days)
}

func TestCalculateWorkingDays_HolidayOnWeekend_NotDoubleCounted(t *testing.T) {
	// December 2024: Dec 8 (Immacolata) falls on a Sunday, so Italy
	// loses only Dec 25 and Dec 26 from its 22 weekdays.
	calc := calendar.NewCalculator()
	days, err := calc.CalculateWorkingDays(12, 2024, calendar.CountryItaly)
	require.NoError(t, err)
	assert.Equal(t, 20, days)
}

func TestCalculateWorkingDays_UnknownCountry_WeekdayOnlyCount(t *testing.T) {
	// No holiday data means plain weekday counting, not an error.
	calc := calendar.NewCalculator()
	days, err := calc.CalculateWorkingDays(1, 2024, calendar.Country("XX"))
	require.NoError(t, err)
	assert.Equal(t, 23, days)
}

func TestCalculateWorkingDays_YearWithoutHolidayData(t *testing.T) {
	// 2020 is in the supported year range but has no holiday tables:
	// January 2020 has 23 weekdays.
	calc := calendar.NewCalculator()
	days, err := calc.CalculateWorkingDays(1, 2020, calendar.CountryItaly)
	require.NoError(t, err)
	assert.Equal(t, 23, days)
}

func TestCalculateWorkingDays_RangeValidation(t *testing.T) {
	calc := calendar.NewCalculator()

	_, err := calc.CalculateWorkingDays(0, 2024, calendar.CountryItaly)
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)

	_, err = calc.CalculateWorkingDays(13, 2024, calendar.CountryItaly)
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)

	_, err = calc.CalculateWorkingDays(6, 2019, calendar.CountryItaly)
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)

	_, err = calc.CalculateWorkingDays(6, 2031, calendar.CountryItaly)
	var rangeErr *calendar.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "year", rangeErr.Field)
}

func TestCalculateWorkingDays_CachedResultSurvivesUntilClear(t *testing.T) {
	calc := calendar.NewCalculator()

	first, err := calc.CalculateWorkingDays(1, 2024, calendar.CountryItaly)
	require.NoError(t, err)

	// Identical call hits the cache and agrees.
	second, err := calc.CalculateWorkingDays(1, 2024, calendar.CountryItaly)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	calc.ClearCache()
	third, err := calc.CalculateWorkingDays(1, 2024, calendar.CountryItaly)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestIsNationalHoliday(t *testing.T) {
	ferragosto := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, calendar.IsNationalHoliday(ferragosto, calendar.CountryItaly))
	assert.False(t, calendar.IsNationalHoliday(ferragosto.AddDate(0, 0, 1), calendar.CountryItaly))

	// Romania's National Day is not an Italian holiday.
	dec1 := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, calendar.IsNationalHoliday(dec1, calendar.CountryRomania))
	assert.False(t, calendar.IsNationalHoliday(dec1, calendar.CountryItaly))

	// No data at all.
	assert.False(t, calendar.IsNationalHoliday(dec1, calendar.Country("XX")))
}

func TestWorkingDaysBetween_InclusiveScan(t *testing.T) {
	calc := calendar.NewCalculator()

	// Mon Jan 15 2024 through Fri Jan 19 2024.
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 5, calc.WorkingDaysBetween(start, end))

	// Same day, a Monday.
	assert.Equal(t, 1, calc.WorkingDaysBetween(start, start))

	// Reversed range.
	assert.Equal(t, 0, calc.WorkingDaysBetween(end, start))

	// Apr 24-26 2024 spans Liberation Day (Apr 25, Italian calendar).
	aprStart := time.Date(2024, time.April, 24, 0, 0, 0, 0, time.UTC)
	aprEnd := time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, calc.WorkingDaysBetween(aprStart, aprEnd))
}

// =============================================================================
// AVAILABLE CAPACITY
// =============================================================================

func TestAvailableCapacity_FullMonth(t *testing.T) {
	calc := calendar.NewCalculator()
	got, err := calc.AvailableCapacity(italian("tm-1"), "2024-01", calendar.CapacityOptions{})
	require.NoError(t, err)
	assert.Equal(t, 22, got)
}

func TestAvailableCapacity_SubtractsWeekdayVacation(t *testing.T) {
	calc := calendar.NewCalculator()
	m := italian("tm-1")
	m.vacation[2024] = []string{"2024-02-05", "2024-02-06", "2024-02-07"}

	got, err := calc.AvailableCapacity(m, "2024-02", calendar.CapacityOptions{})
	require.NoError(t, err)

	noVacation, err := calc.AvailableCapacity(italian("tm-2"), "2024-02", calendar.CapacityOptions{})
	require.NoError(t, err)
	assert.Equal(t, noVacation-3, got)
}

func TestAvailableCapacity_WeekendVacationIsFree(t *testing.T) {
	// Feb 3/4 2024 are Saturday and Sunday: booking them as vacation
	// must not reduce capacity at all.
	calc := calendar.NewCalculator()
	m := italian("tm-1")
	m.vacation[2024] = []string{"2024-02-03", "2024-02-04"}

	withVacation, err := calc.AvailableCapacity(m, "2024-02", calendar.CapacityOptions{})
	require.NoError(t, err)
	without, err := calc.AvailableCapacity(italian("tm-2"), "2024-02", calendar.CapacityOptions{})
	require.NoError(t, err)
	assert.Equal(t, without, withVacation)
}

func TestAvailableCapacity_HolidayVacationNotDoubleSubtracted(t *testing.T) {
	// Aug 15 2024 is Ferragosto (a Thursday) and already excluded from
	// the base count; booking it as vacation must not subtract again.
	calc := calendar.NewCalculator()
	m := italian("tm-1")
	m.vacation[2024] = []string{"2024-08-15"}

	withVacation, err := calc.AvailableCapacity(m, "2024-08", calendar.CapacityOptions{})
	require.NoError(t, err)
	without, err := calc.AvailableCapacity(italian("tm-2"), "2024-08", calendar.CapacityOptions{})
	require.NoError(t, err)
	assert.Equal(t, without, withVacation)
}

func TestAvailableCapacity_SubtractsExistingAllocations(t *testing.T) {
	calc := calendar.NewCalculator()
	calc.SetExistingAllocations("tm-1", "2024-01", 10)

	got, err := calc.AvailableCapacity(italian("tm-1"), "2024-01", calendar.CapacityOptions{})
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	gross, err := calc.AvailableCapacity(italian("tm-1"), "2024-01", calendar.CapacityOptions{ExcludeExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 22, gross)
}

func TestAvailableCapacity_ClampedAtZero(t *testing.T) {
	// Vacation plus existing work exceed the base; the result clamps
	// to zero instead of going negative.
	calc := calendar.NewCalculator()
	calc.SetExistingAllocations("tm-1", "2024-01", 50)

	got, err := calc.AvailableCapacity(italian("tm-1"), "2024-01", calendar.CapacityOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestAvailableCapacity_PartialMonthFromStartDate(t *testing.T) {
	calc := calendar.NewCalculator()

	// Mon Jan 22 2024 to month end: 8 working days.
	start := time.Date(2024, time.January, 22, 0, 0, 0, 0, time.UTC)
	got, err := calc.AvailableCapacity(italian("tm-1"), "2024-01", calendar.CapacityOptions{StartDate: start})
	require.NoError(t, err)
	assert.Equal(t, 8, got)

	// A start date outside the month falls back to the full-month count.
	other := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	got, err = calc.AvailableCapacity(italian("tm-1"), "2024-01", calendar.CapacityOptions{StartDate: other})
	require.NoError(t, err)
	assert.Equal(t, 22, got)
}

func TestAvailableCapacity_PartialMonthUsesItalianCalendar(t *testing.T) {
	// The range scan behind partial months excludes Italian holidays
	// only (see the calculator.go file header). A Romanian member's
	// full January 2024 honors Jan 1, Jan 2 and Jan 24 (20 days), but
	// the partial count from Mon Jan 22 still includes Unification Day
	// on Wed Jan 24.
	calc := calendar.NewCalculator()
	romanian := &fakeMember{id: "tm-ro", country: calendar.CountryRomania, vacation: map[int][]string{}}

	full, err := calc.AvailableCapacity(romanian, "2024-01", calendar.CapacityOptions{})
	require.NoError(t, err)
	assert.Equal(t, 20, full)

	start := time.Date(2024, time.January, 22, 0, 0, 0, 0, time.UTC)
	partial, err := calc.AvailableCapacity(romanian, "2024-01", calendar.CapacityOptions{StartDate: start})
	require.NoError(t, err)
	assert.Equal(t, 8, partial)
}

func TestAvailableCapacity_Validation(t *testing.T) {
	calc := calendar.NewCalculator()

	_, err := calc.AvailableCapacity(nil, "2024-01", calendar.CapacityOptions{})
	assert.ErrorIs(t, err, calendar.ErrMemberRequired)

	_, err = calc.AvailableCapacity(italian("tm-1"), "2024-1", calendar.CapacityOptions{})
	assert.ErrorIs(t, err, calendar.ErrBadMonthKey)

	_, err = calc.AvailableCapacity(italian("tm-1"), "jan-2024", calendar.CapacityOptions{})
	var badKey *calendar.BadMonthKeyError
	assert.ErrorAs(t, err, &badKey)
}

// =============================================================================
// MONTH KEYS
// =============================================================================

func TestMonthKey(t *testing.T) {
	mk := calendar.MonthKeyFor(time.Date(2024, time.March, 17, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, calendar.MonthKey("2024-03"), mk)

	year, month, err := mk.Parse()
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.March, month)

	start, err := mk.Start()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), start)

	assert.True(t, calendar.MonthKey("2024-09").Before("2024-10"))
	assert.True(t, calendar.MonthKey("2025-01").After("2024-12"))

	for _, bad := range []string{"2024-13", "2024-0", "202403", "2024-003", "march"} {
		_, _, err := calendar.MonthKey(bad).Parse()
		assert.ErrorIs(t, err, calendar.ErrBadMonthKey, "key %q", bad)
	}
}

/*
Package calendar turns months, countries and team member records into
exact working-day counts.

PURPOSE:
  Everything the allocation engine knows about time comes from here:
  - Which dates are national holidays for a country (static tables)
  - How many working days a month or a date range contains
  - How many man-days of a month a specific team member can actually
    take on, net of weekends, holidays, personal vacation and work
    already committed elsewhere

KEY CONCEPTS IN THIS FILE (country.go):
  Country is a closed enum. Holiday data exists for Italy and Romania,
  2024 through 2030. Any other country, or a year outside the table,
  deliberately resolves to an EMPTY holiday set: capacity math then
  counts plain weekdays. Missing data is a supported state, not an
  error.

SEE ALSO:
  - calculator.go: working-day and capacity math, caching
  - monthkey.go: the canonical YYYY-MM month identifier
*/
package calendar

// Country is an ISO 3166-1 alpha-2 country code with holiday data
// bundled in this package.
type Country string

const (
	// CountryItaly has full holiday tables for 2024-2030.
	CountryItaly Country = "IT"

	// CountryRomania has full holiday tables for 2024-2030.
	CountryRomania Country = "RO"
)

// HasHolidayData reports whether holiday tables exist for the country
// in the given year. When false, the country contributes no holidays
// and working-day math counts plain weekdays.
func (c Country) HasHolidayData(year int) bool {
	years, ok := nationalHolidays[c]
	if !ok {
		return false
	}
	_, ok = years[year]
	return ok
}

// nationalHolidays maps country -> year -> set of ISO YYYY-MM-DD dates.
//
// Italy: fixed national holidays plus Easter Monday.
// Romania: legal holidays plus Orthodox Good Friday, Easter and
// Pentecost (both Sunday and Monday observances are listed; weekend
// entries are harmless because weekends are excluded first).
var nationalHolidays = map[Country]map[int]map[string]struct{}{
	CountryItaly: {
		2024: dateSet("2024-01-01", "2024-01-06", "2024-04-01", "2024-04-25", "2024-05-01", "2024-06-02", "2024-08-15", "2024-11-01", "2024-12-08", "2024-12-25", "2024-12-26"),
		2025: dateSet("2025-01-01", "2025-01-06", "2025-04-21", "2025-04-25", "2025-05-01", "2025-06-02", "2025-08-15", "2025-11-01", "2025-12-08", "2025-12-25", "2025-12-26"),
		2026: dateSet("2026-01-01", "2026-01-06", "2026-04-06", "2026-04-25", "2026-05-01", "2026-06-02", "2026-08-15", "2026-11-01", "2026-12-08", "2026-12-25", "2026-12-26"),
		2027: dateSet("2027-01-01", "2027-01-06", "2027-03-29", "2027-04-25", "2027-05-01", "2027-06-02", "2027-08-15", "2027-11-01", "2027-12-08", "2027-12-25", "2027-12-26"),
		2028: dateSet("2028-01-01", "2028-01-06", "2028-04-17", "2028-04-25", "2028-05-01", "2028-06-02", "2028-08-15", "2028-11-01", "2028-12-08", "2028-12-25", "2028-12-26"),
		2029: dateSet("2029-01-01", "2029-01-06", "2029-04-02", "2029-04-25", "2029-05-01", "2029-06-02", "2029-08-15", "2029-11-01", "2029-12-08", "2029-12-25", "2029-12-26"),
		2030: dateSet("2030-01-01", "2030-01-06", "2030-04-22", "2030-04-25", "2030-05-01", "2030-06-02", "2030-08-15", "2030-11-01", "2030-12-08", "2030-12-25", "2030-12-26"),
	},
	CountryRomania: {
		2024: dateSet("2024-01-01", "2024-01-02", "2024-01-24", "2024-05-01", "2024-05-03", "2024-05-05", "2024-05-06", "2024-06-01", "2024-06-23", "2024-06-24", "2024-08-15", "2024-11-30", "2024-12-01", "2024-12-25", "2024-12-26"),
		2025: dateSet("2025-01-01", "2025-01-02", "2025-01-24", "2025-04-18", "2025-04-20", "2025-04-21", "2025-05-01", "2025-06-01", "2025-06-08", "2025-06-09", "2025-08-15", "2025-11-30", "2025-12-01", "2025-12-25", "2025-12-26"),
		2026: dateSet("2026-01-01", "2026-01-02", "2026-01-24", "2026-04-10", "2026-04-12", "2026-04-13", "2026-05-01", "2026-05-31", "2026-06-01", "2026-08-15", "2026-11-30", "2026-12-01", "2026-12-25", "2026-12-26"),
		2027: dateSet("2027-01-01", "2027-01-02", "2027-01-24", "2027-04-30", "2027-05-01", "2027-05-02", "2027-05-03", "2027-06-01", "2027-06-20", "2027-06-21", "2027-08-15", "2027-11-30", "2027-12-01", "2027-12-25", "2027-12-26"),
		2028: dateSet("2028-01-01", "2028-01-02", "2028-01-24", "2028-04-14", "2028-04-16", "2028-04-17", "2028-05-01", "2028-06-01", "2028-06-04", "2028-06-05", "2028-08-15", "2028-11-30", "2028-12-01", "2028-12-25", "2028-12-26"),
		2029: dateSet("2029-01-01", "2029-01-02", "2029-01-24", "2029-04-06", "2029-04-08", "2029-04-09", "2029-05-01", "2029-05-27", "2029-05-28", "2029-06-01", "2029-08-15", "2029-11-30", "2029-12-01", "2029-12-25", "2029-12-26"),
		2030: dateSet("2030-01-01", "2030-01-02", "2030-01-24", "2030-04-26", "2030-04-28", "2030-04-29", "2030-05-01", "2030-06-01", "2030-06-16", "2030-06-17", "2030-08-15", "2030-11-30", "2030-12-01", "2030-12-25", "2030-12-26"),
	},
}

func dateSet(dates ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// holidaysFor returns the holiday set for a country/year, or an empty
// set when no data exists. Never nil, never an error: the "no calendar
// data" branch is an explicit, supported state.
func holidaysFor(c Country, year int) map[string]struct{} {
	if years, ok := nationalHolidays[c]; ok {
		if set, ok := years[year]; ok {
			return set
		}
	}
	return emptyHolidaySet
}

var emptyHolidaySet = map[string]struct{}{}

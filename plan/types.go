/*
Package plan distributes a budget of man-days across calendar months.

PURPOSE:
  Given a total number of man-days (MDs), a date range and a team
  member, the engine:
  - estimates a feasible project end date from a capacity sample
  - spreads the budget across months proportionally to real capacity,
    reporting (never hiding) any forced overflow
  - checks whether a single month's proposed allocation overflows
  - re-balances an existing allocation map after a user edits one
    month's value, without ever touching past or locked months

DESIGN PRINCIPLES:
  1. Precision: MD quantities are decimal.Decimal, never float64
  2. Totals are exact: a distribution always allocates the full budget;
     overflow is reported as metadata, not absorbed by rounding
  3. Transactionality: redistribution either fully succeeds or leaves
     the caller's assignment untouched
  4. Explicit fallbacks: estimates record when they had to substitute a
     default capacity instead of silently degrading

KEY CONCEPTS IN THIS FILE (types.go):
  - AllocationEntry: one month's planned/actual MDs plus a lock flag
  - Distribution: per-month entries with overflow metadata
  - Assignment: a caller-owned allocation map under redistribution
  - EndDateEstimate / OverflowReport: result types with explicit
    exact-vs-fallback flags

SEE ALSO:
  - engine.go: distribution, estimation and overflow checking
  - redistribute.go: post-edit re-balancing
*/
package plan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pubule/capacity-planner/calendar"
)

// AllocationEntry is one month's allocation. Locked entries are never
// modified by automatic redistribution.
type AllocationEntry struct {
	Planned decimal.Decimal `json:"planned"`
	Actual  decimal.Decimal `json:"actual"`
	Locked  bool            `json:"locked"`
}

func (e *AllocationEntry) clone() *AllocationEntry {
	cp := *e
	return &cp
}

// Distribution is the result of spreading a budget across months.
// OverflowAmount is the sum of every month's planned-minus-capacity
// where positive; the allocated total is still exact.
type Distribution struct {
	Months         map[calendar.MonthKey]*AllocationEntry `json:"months"`
	HasOverflow    bool                                   `json:"hasOverflow"`
	OverflowAmount decimal.Decimal                        `json:"overflowAmount"`
}

// Total sums the planned MDs across all months.
func (d *Distribution) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range d.Months {
		total = total.Add(e.Planned)
	}
	return total
}

// Assignment is a caller-owned allocation map passed into
// redistribution. HasUnallocatedMDs reports a claw-back that could not
// be fully satisfied from future months.
type Assignment struct {
	ID           string                                 `json:"id"`
	TeamMemberID string                                 `json:"teamMemberId"`
	Allocations  map[calendar.MonthKey]*AllocationEntry `json:"allocations"`

	HasUnallocatedMDs bool            `json:"hasUnallocatedMDs,omitempty"`
	UnallocatedAmount decimal.Decimal `json:"unallocatedAmount,omitempty"`
}

// Clone deep-copies the assignment so redistribution can fail without
// leaking partial mutation to the caller.
func (a *Assignment) Clone() *Assignment {
	cp := *a
	cp.Allocations = make(map[calendar.MonthKey]*AllocationEntry, len(a.Allocations))
	for k, e := range a.Allocations {
		cp.Allocations[k] = e.clone()
	}
	return &cp
}

// EndDateEstimate is the result of estimating a project end date.
// UsedFallback is true when any sampled month's capacity came from the
// member's default instead of the calendar.
type EndDateEstimate struct {
	EndDate            time.Time
	MonthsNeeded       int
	AvgMonthlyCapacity int
	UsedFallback       bool
}

// OverflowReport describes whether a proposed single-month allocation
// exceeds the month's gross capacity ceiling.
//
// Utilization is a percentage; it is +Inf when MaxCapacity is 0 and the
// proposed allocation is positive. CapacityExact is false when the
// ceiling could not be computed and 0 was substituted, which reports
// the maximum possible overflow rather than silently passing.
type OverflowReport struct {
	HasOverflow    bool            `json:"hasOverflow"`
	OverflowAmount decimal.Decimal `json:"overflowAmount"`
	MaxCapacity    int             `json:"maxCapacity"`
	Utilization    float64         `json:"utilization"`
	CapacityExact  bool            `json:"capacityExact"`
}

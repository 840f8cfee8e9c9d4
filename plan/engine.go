/*
engine.go - End-date estimation, budget distribution, overflow checks

DISTRIBUTION ALGORITHM (Distribute):
  Four phases over the month sequence covered by [start, end):

  1. Capacity pass: compute every month's real capacity (the first
     month is partial when start falls mid-month) and the total.
  2. Proportional pass: in chronological order, give each month
     min(round(total * monthCapacity/totalCapacity), capacity,
     remaining). Rounding leaves a few MDs unplaced.
  3. Spare-capacity sweep: top months up to capacity in the original
     chronological order until the leftover is gone. The order
     dependence when several months have identical spare capacity is
     deliberate and must not be "improved" with a tie-break.
  4. Forced overflow: any budget the range simply cannot hold is dumped
     into the LAST month regardless of its capacity, so the allocated
     total is always exact.

  Overflow is then recomputed from scratch against raw capacities; this
  also catches the overflow forced by phase 4.

END-DATE ESTIMATION (EstimateEndDate):
  Averages the next three months' available capacity. A month whose
  capacity cannot be computed falls back to the member's default; the
  estimate records that it is no longer exact.

SEE ALSO:
  - redistribute.go: post-edit re-balancing
  - calendar/calculator.go: the capacity source
*/
package plan

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pubule/capacity-planner/calendar"
	"github.com/pubule/capacity-planner/team"
)

// endDateSampleMonths is how many months EstimateEndDate samples to
// derive an average capacity.
const endDateSampleMonths = 3

// Engine is the allocation engine. It owns no state of its own; all
// mutable state lives in the injected calculator.
type Engine struct {
	calc    *calendar.Calculator
	members team.Manager
}

func NewEngine(calc *calendar.Calculator, members team.Manager) *Engine {
	return &Engine{calc: calc, members: members}
}

// member resolves a team member, turning absence into an explicit
// error.
func (e *Engine) member(ctx context.Context, id string) (*team.Member, error) {
	m, err := e.members.GetTeamMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &MemberNotFoundError{ID: id}
	}
	return m, nil
}

// EstimateEndDate estimates when a project started at start with a
// budget of totalMDs would finish, from the average capacity of the
// next three months. totalMDs <= 0 returns start unchanged.
func (e *Engine) EstimateEndDate(ctx context.Context, start time.Time, totalMDs decimal.Decimal, memberID string) (*EndDateEstimate, error) {
	member, err := e.member(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !totalMDs.IsPositive() {
		return &EndDateEstimate{EndDate: start}, nil
	}

	sum := 0
	fallback := false
	cursor := start
	for i := 0; i < endDateSampleMonths; i++ {
		capacity, err := e.calc.AvailableCapacity(member, calendar.MonthKeyFor(cursor), calendar.CapacityOptions{})
		if err != nil {
			capacity = member.Capacity()
			fallback = true
		}
		sum += capacity
		cursor = cursor.AddDate(0, 1, 0)
	}

	avg := int(math.Round(float64(sum) / endDateSampleMonths))
	if avg <= 0 {
		// A fully booked sample window would otherwise divide by zero.
		avg = member.Capacity()
		fallback = true
	}

	monthsNeeded := int(totalMDs.Div(decimal.NewFromInt(int64(avg))).Ceil().IntPart())
	return &EndDateEstimate{
		EndDate:            start.AddDate(0, monthsNeeded, 0),
		MonthsNeeded:       monthsNeeded,
		AvgMonthlyCapacity: avg,
		UsedFallback:       fallback,
	}, nil
}

// Distribute spreads totalMDs across the months covered by [start, end)
// using the four-phase algorithm described in the file header.
//
// Guarantees for totalMDs > 0: the planned total over the returned
// months equals totalMDs exactly; insufficiency is reported via
// HasOverflow/OverflowAmount, never by under-allocating.
func (e *Engine) Distribute(ctx context.Context, totalMDs decimal.Decimal, start, end time.Time, memberID string) (*Distribution, error) {
	if totalMDs.IsNegative() {
		return nil, ErrNegativeTotal
	}
	if !start.Before(end) {
		return nil, &DateRangeError{Start: start, End: end}
	}
	member, err := e.member(ctx, memberID)
	if err != nil {
		return nil, err
	}

	dist := &Distribution{
		Months:         make(map[calendar.MonthKey]*AllocationEntry),
		OverflowAmount: decimal.Zero,
	}
	if totalMDs.IsZero() {
		return dist, nil
	}

	months := monthsInRange(start, end)

	// Phase 1: real capacity per month, partial first month.
	capacities := make([]int, len(months))
	totalCapacity := 0
	for i, mk := range months {
		opts := calendar.CapacityOptions{}
		if i == 0 {
			opts.StartDate = start
		}
		capacity, err := e.calc.AvailableCapacity(member, mk, opts)
		if err != nil {
			return nil, err
		}
		capacities[i] = capacity
		totalCapacity += capacity
		dist.Months[mk] = &AllocationEntry{Planned: decimal.Zero, Actual: decimal.Zero}
	}

	// Phase 2: proportional allocation, clamped per month.
	remaining := totalMDs
	if totalCapacity > 0 {
		totalCapDec := decimal.NewFromInt(int64(totalCapacity))
		for i, mk := range months {
			if !remaining.IsPositive() {
				break
			}
			capDec := decimal.NewFromInt(int64(capacities[i]))
			share := totalMDs.Mul(capDec).Div(totalCapDec).Round(0)
			planned := decimal.Min(share, capDec, remaining)
			if planned.IsNegative() {
				planned = decimal.Zero
			}
			entry := dist.Months[mk]
			entry.Planned = planned
			entry.Actual = planned
			remaining = remaining.Sub(planned)
		}
	}

	// Phase 3: sweep rounding leftovers into spare capacity, in the
	// original chronological order.
	for i, mk := range months {
		if !remaining.IsPositive() {
			break
		}
		entry := dist.Months[mk]
		spare := decimal.NewFromInt(int64(capacities[i])).Sub(entry.Planned)
		if !spare.IsPositive() {
			continue
		}
		add := decimal.Min(spare, remaining)
		entry.Planned = entry.Planned.Add(add)
		entry.Actual = entry.Actual.Add(add)
		remaining = remaining.Sub(add)
	}

	// Phase 4: the range cannot hold the budget; force the rest into
	// the last month so the allocated total stays exact.
	if remaining.IsPositive() {
		last := dist.Months[months[len(months)-1]]
		last.Planned = last.Planned.Add(remaining)
		last.Actual = last.Actual.Add(remaining)
	}

	// Overflow is recomputed from scratch rather than tracked through
	// the phases; this also catches the phase 4 dump.
	overflow := decimal.Zero
	for i, mk := range months {
		over := dist.Months[mk].Planned.Sub(decimal.NewFromInt(int64(capacities[i])))
		if over.IsPositive() {
			overflow = overflow.Add(over)
		}
	}
	dist.OverflowAmount = overflow
	dist.HasOverflow = overflow.IsPositive()
	return dist, nil
}

// CheckOverflow reports whether setting a month's allocation to
// newAllocation would exceed the month's gross capacity ceiling: the
// member's available capacity with their existing commitment for the
// month added back.
//
// Any failure to compute the ceiling (unknown member, unsupported
// year) degrades to a ceiling of 0 with CapacityExact=false, reporting
// the maximum possible overflow instead of silently passing.
func (e *Engine) CheckOverflow(ctx context.Context, memberID string, month calendar.MonthKey, newAllocation decimal.Decimal) *OverflowReport {
	maxCapacity := 0
	exact := false
	if member, err := e.member(ctx, memberID); err == nil {
		if available, err := e.calc.AvailableCapacity(member, month, calendar.CapacityOptions{}); err == nil {
			maxCapacity = available + e.calc.ExistingAllocation(memberID, month)
			exact = true
		}
	}

	maxDec := decimal.NewFromInt(int64(maxCapacity))
	overflow := newAllocation.Sub(maxDec)
	if !overflow.IsPositive() {
		overflow = decimal.Zero
	}

	var utilization float64
	switch {
	case maxCapacity == 0 && newAllocation.IsPositive():
		utilization = math.Inf(1)
	case maxCapacity == 0:
		utilization = 0
	default:
		ratio, _ := newAllocation.Div(maxDec).Float64()
		utilization = math.Round(ratio * 100)
	}

	return &OverflowReport{
		HasOverflow:    overflow.IsPositive(),
		OverflowAmount: overflow,
		MaxCapacity:    maxCapacity,
		Utilization:    utilization,
		CapacityExact:  exact,
	}
}

// monthsInRange returns the months containing at least one day of the
// half-open day range [start, end), in chronological order.
func monthsInRange(start, end time.Time) []calendar.MonthKey {
	lastDay := end.AddDate(0, 0, -1)
	stop := time.Date(lastDay.Year(), lastDay.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []calendar.MonthKey
	for cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !cur.After(stop); cur = cur.AddDate(0, 1, 0) {
		months = append(months, calendar.MonthKeyFor(cur))
	}
	return months
}

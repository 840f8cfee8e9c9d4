/*
redistribute.go - Re-balancing an allocation after a manual edit

PURPOSE:
  When a user overrides one month's planned value, the difference has
  to be re-homed so the plan keeps its shape:

  - The user REDUCED the month (diff > 0): the freed man-days are
    pushed into future months, each capped by its remaining capacity.
  - The user INCREASED the month (diff < 0): the extra man-days are
    clawed back from future months, each capped by what it currently
    holds. A shortfall is reported on the assignment, never hidden.

HARD RULES:
  - Months chronologically at or before the edited month are never
    written. The past is immutable.
  - Locked entries are never written.
  - Failure is transactional: the caller's assignment is returned
    untouched together with the error. Work happens on a deep copy
    that is only handed back on success.
*/
package plan

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pubule/capacity-planner/calendar"
)

// Redistribute applies a user's edit of one month and re-balances the
// rest of the assignment. The returned assignment is a new value; the
// input is never mutated. On error the input is returned unchanged.
func (e *Engine) Redistribute(ctx context.Context, a *Assignment, changedMonth calendar.MonthKey, newValue decimal.Decimal) (*Assignment, error) {
	if a == nil {
		return nil, ErrAssignmentRequired
	}
	if !changedMonth.Valid() {
		return a, &calendar.BadMonthKeyError{Key: string(changedMonth)}
	}
	if newValue.IsNegative() {
		return a, ErrNegativeAllocation
	}

	updated := a.Clone()
	entry := updated.Allocations[changedMonth]
	if entry == nil {
		entry = &AllocationEntry{Planned: decimal.Zero, Actual: decimal.Zero}
		updated.Allocations[changedMonth] = entry
	}

	old := entry.Planned
	diff := old.Sub(newValue)
	entry.Planned = newValue

	if diff.IsZero() {
		return updated, nil
	}

	member, err := e.member(ctx, a.TeamMemberID)
	if err != nil {
		return a, err
	}

	future := futureMonths(updated, changedMonth)

	if diff.IsPositive() {
		// Surplus freed by the reduction moves forward, capped by each
		// month's remaining capacity.
		remaining := diff
		for _, mk := range future {
			if !remaining.IsPositive() {
				break
			}
			alloc := updated.Allocations[mk]
			if alloc == nil || alloc.Locked {
				continue
			}
			capacity, err := e.calc.AvailableCapacity(member, mk, calendar.CapacityOptions{})
			if err != nil {
				return a, err
			}
			spare := decimal.NewFromInt(int64(capacity)).Sub(alloc.Planned)
			if !spare.IsPositive() {
				continue
			}
			add := decimal.Min(spare, remaining)
			alloc.Planned = alloc.Planned.Add(add)
			alloc.Actual = alloc.Actual.Add(add)
			remaining = remaining.Sub(add)
		}
		// Surplus the future cannot absorb simply leaves the plan; the
		// user shrank the budget on purpose.
		return updated, nil
	}

	// The increase must be funded from the future; each month can give
	// up at most what it currently holds.
	needed := diff.Neg()
	for _, mk := range future {
		if !needed.IsPositive() {
			break
		}
		alloc := updated.Allocations[mk]
		if alloc == nil || alloc.Locked || !alloc.Planned.IsPositive() {
			continue
		}
		take := decimal.Min(alloc.Planned, needed)
		alloc.Planned = alloc.Planned.Sub(take)
		alloc.Actual = alloc.Actual.Sub(take)
		if alloc.Actual.IsNegative() {
			alloc.Actual = decimal.Zero
		}
		needed = needed.Sub(take)
	}
	if needed.IsPositive() {
		updated.HasUnallocatedMDs = true
		updated.UnallocatedAmount = needed
	}
	return updated, nil
}

// futureMonths returns the assignment's months strictly after the
// changed month, sorted chronologically.
func futureMonths(a *Assignment, changed calendar.MonthKey) []calendar.MonthKey {
	var future []calendar.MonthKey
	for mk := range a.Allocations {
		if mk.After(changed) {
			future = append(future, mk)
		}
	}
	sort.Slice(future, func(i, j int) bool { return future[i].Before(future[j]) })
	return future
}

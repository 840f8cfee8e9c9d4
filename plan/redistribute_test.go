package plan_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pubule/capacity-planner/calendar"
	"github.com/pubule/capacity-planner/plan"
)

func assignment(memberID string, planned map[calendar.MonthKey]float64) *plan.Assignment {
	a := &plan.Assignment{
		ID:           "as-1",
		TeamMemberID: memberID,
		Allocations:  make(map[calendar.MonthKey]*plan.AllocationEntry),
	}
	for mk, v := range planned {
		a.Allocations[mk] = &plan.AllocationEntry{Planned: mds(v), Actual: mds(v)}
	}
	return a
}

func TestRedistribute_Validation(t *testing.T) {
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))
	ctx := context.Background()

	_, err := engine.Redistribute(ctx, nil, "2024-01", mds(5))
	assert.ErrorIs(t, err, plan.ErrAssignmentRequired)

	a := assignment("tm-1", map[calendar.MonthKey]float64{"2024-01": 10})

	got, err := engine.Redistribute(ctx, a, "2024-13", mds(5))
	var keyErr *calendar.BadMonthKeyError
	assert.ErrorAs(t, err, &keyErr)
	assert.Same(t, a, got)

	got, err = engine.Redistribute(ctx, a, "2024-01", mds(-1))
	assert.ErrorIs(t, err, plan.ErrNegativeAllocation)
	assert.Same(t, a, got)
}

func TestRedistribute_NoChange_IsANoOp(t *testing.T) {
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{"2024-01": 10, "2024-02": 5})
	got, err := engine.Redistribute(context.Background(), a, "2024-01", mds(10))
	require.NoError(t, err)
	assert.NotSame(t, a, got)
	assert.Equal(t, "10", got.Allocations["2024-01"].Planned.String())
	assert.Equal(t, "5", got.Allocations["2024-02"].Planned.String())
}

func TestRedistribute_Reduction_PushesSurplusForwardCappedByCapacity(t *testing.T) {
	// Jan 20 -> 8 frees 12 MDs. February (capacity 21, holds 10) can
	// absorb 11; March takes the last 1.
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{
		"2024-01": 20,
		"2024-02": 10,
		"2024-03": 5,
	})
	got, err := engine.Redistribute(context.Background(), a, "2024-01", mds(8))
	require.NoError(t, err)

	assert.Equal(t, "8", got.Allocations["2024-01"].Planned.String())
	assert.Equal(t, "21", got.Allocations["2024-02"].Planned.String())
	assert.Equal(t, "6", got.Allocations["2024-03"].Planned.String())

	// The caller's assignment is untouched.
	assert.Equal(t, "20", a.Allocations["2024-01"].Planned.String())
	assert.Equal(t, "10", a.Allocations["2024-02"].Planned.String())
}

func TestRedistribute_Reduction_SkipsLockedMonths(t *testing.T) {
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{
		"2024-01": 20,
		"2024-02": 10,
		"2024-03": 5,
	})
	a.Allocations["2024-02"].Locked = true

	got, err := engine.Redistribute(context.Background(), a, "2024-01", mds(8))
	require.NoError(t, err)
	assert.Equal(t, "10", got.Allocations["2024-02"].Planned.String())
	assert.Equal(t, "17", got.Allocations["2024-03"].Planned.String())
}

func TestRedistribute_Reduction_UnabsorbedSurplusLeavesThePlan(t *testing.T) {
	// No future months exist; the freed MDs are gone and that is fine.
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{"2024-01": 20})
	got, err := engine.Redistribute(context.Background(), a, "2024-01", mds(5))
	require.NoError(t, err)
	assert.Equal(t, "5", got.Allocations["2024-01"].Planned.String())
	assert.False(t, got.HasUnallocatedMDs)
}

func TestRedistribute_Increase_ClawsBackFromFutureMonths(t *testing.T) {
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{
		"2024-01": 10,
		"2024-02": 10,
		"2024-03": 5,
	})
	got, err := engine.Redistribute(context.Background(), a, "2024-02", mds(15))
	require.NoError(t, err)

	assert.Equal(t, "15", got.Allocations["2024-02"].Planned.String())
	assert.Equal(t, "0", got.Allocations["2024-03"].Planned.String())
	// January precedes the edit and is immutable.
	assert.Equal(t, "10", got.Allocations["2024-01"].Planned.String())
	assert.False(t, got.HasUnallocatedMDs)
}

func TestRedistribute_Increase_SkipsLockedMonths(t *testing.T) {
	// February holds 10 MDs but is locked, so the increase is funded
	// from March alone and the uncovered remainder is reported.
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{
		"2024-01": 10,
		"2024-02": 10,
		"2024-03": 5,
	})
	a.Allocations["2024-02"].Locked = true

	got, err := engine.Redistribute(context.Background(), a, "2024-01", mds(18))
	require.NoError(t, err)

	assert.Equal(t, "18", got.Allocations["2024-01"].Planned.String())
	assert.Equal(t, "10", got.Allocations["2024-02"].Planned.String())
	assert.Equal(t, "0", got.Allocations["2024-03"].Planned.String())
	assert.True(t, got.HasUnallocatedMDs)
	assert.Equal(t, "3", got.UnallocatedAmount.String())
}

func TestRedistribute_Increase_ShortfallIsReported(t *testing.T) {
	// The increase cannot be funded: there is nothing after February.
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{
		"2024-01": 10,
		"2024-02": 10,
	})
	got, err := engine.Redistribute(context.Background(), a, "2024-02", mds(15))
	require.NoError(t, err)

	assert.Equal(t, "15", got.Allocations["2024-02"].Planned.String())
	assert.True(t, got.HasUnallocatedMDs)
	assert.Equal(t, "5", got.UnallocatedAmount.String())
}

func TestRedistribute_PastMonthsAreNeverWritten(t *testing.T) {
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{
		"2023-12": 7,
		"2024-01": 20,
		"2024-02": 5,
	})
	got, err := engine.Redistribute(context.Background(), a, "2024-01", mds(8))
	require.NoError(t, err)
	assert.Equal(t, "7", got.Allocations["2023-12"].Planned.String())
}

func TestRedistribute_EditingAnUnplannedMonth(t *testing.T) {
	// The edited month does not exist yet; its old value is zero, so
	// setting 4 MDs claws 4 back from March.
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{"2024-03": 10})
	got, err := engine.Redistribute(context.Background(), a, "2024-02", mds(4))
	require.NoError(t, err)
	assert.Equal(t, "4", got.Allocations["2024-02"].Planned.String())
	assert.Equal(t, "6", got.Allocations["2024-03"].Planned.String())
}

func TestRedistribute_UnknownMember_ReturnsOriginalUnchanged(t *testing.T) {
	engine, _, _ := newTestEngine()

	a := assignment("nobody", map[calendar.MonthKey]float64{
		"2024-01": 20,
		"2024-02": 10,
	})
	got, err := engine.Redistribute(context.Background(), a, "2024-01", mds(8))
	require.Error(t, err)
	assert.ErrorIs(t, err, plan.ErrMemberNotFound)
	assert.Same(t, a, got)
	assert.Equal(t, "20", a.Allocations["2024-01"].Planned.String())
}

func TestDecimalPrecision_SurvivesRedistribution(t *testing.T) {
	// Fractional MDs move without float drift.
	engine, _, members := newTestEngine()
	members.Put(italianMember("tm-1"))

	a := assignment("tm-1", map[calendar.MonthKey]float64{
		"2024-01": 10.5,
		"2024-02": 3.25,
	})
	got, err := engine.Redistribute(context.Background(), a, "2024-01", decimal.RequireFromString("7.25"))
	require.NoError(t, err)
	assert.Equal(t, "7.25", got.Allocations["2024-01"].Planned.String())
	assert.Equal(t, "6.5", got.Allocations["2024-02"].Planned.String())
}

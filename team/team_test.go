package team_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pubule/capacity-planner/calendar"
	"github.com/pubule/capacity-planner/team"
)

func TestMemberCapacity_Fallback(t *testing.T) {
	m := &team.Member{ID: "tm-1"}
	assert.Equal(t, team.DefaultMonthlyCapacity, m.Capacity())

	m.MonthlyCapacity = 18
	assert.Equal(t, 18, m.Capacity())

	m.MonthlyCapacity = -3
	assert.Equal(t, team.DefaultMonthlyCapacity, m.Capacity())
}

func TestMember_VacationDates(t *testing.T) {
	m := &team.Member{
		ID:      "tm-1",
		Country: calendar.CountryItaly,
		VacationDays: map[int][]string{
			2024: {"2024-08-12", "2024-08-13"},
		},
	}
	assert.Equal(t, []string{"2024-08-12", "2024-08-13"}, m.VacationDates(2024))
	assert.Nil(t, m.VacationDates(2025))
}

func TestMemoryManager(t *testing.T) {
	mgr := team.NewMemoryManager()
	ctx := context.Background()

	got, err := mgr.GetTeamMember(ctx, "tm-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	mgr.Put(&team.Member{ID: "tm-1", Name: "Alice"})
	mgr.Put(&team.Member{ID: "tm-2", Name: "Bob"})

	got, err = mgr.GetTeamMember(ctx, "tm-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Name)

	// Put replaces.
	mgr.Put(&team.Member{ID: "tm-1", Name: "Alice B"})
	got, _ = mgr.GetTeamMember(ctx, "tm-1")
	assert.Equal(t, "Alice B", got.Name)

	assert.Len(t, mgr.List(), 2)
}

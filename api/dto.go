/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

CONVENTIONS:
  Dates are ISO YYYY-MM-DD strings, months are YYYY-MM strings, and
  man-day quantities are JSON numbers carried as json.Number so their
  digits reach decimal.Decimal without a float64 round-trip. A
  utilization of +Inf (a positive allocation against a zero-capacity
  month) is serialized as the string "Infinity" because JSON has no
  infinity literal.

SEE ALSO:
  - handlers.go: Uses these types
  - plan/types.go: The domain types these mirror
*/
package api

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"

	"github.com/pubule/capacity-planner/calendar"
	"github.com/pubule/capacity-planner/plan"
	"github.com/pubule/capacity-planner/team"
)

const isoDate = "2006-01-02"

// =============================================================================
// TEAM MEMBERS
// =============================================================================

// TeamMemberDTO represents a team member in API responses.
type TeamMemberDTO struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Country         string           `json:"country"`
	MonthlyCapacity int              `json:"monthly_capacity,omitempty"`
	VacationDays    map[int][]string `json:"vacation_days,omitempty"`
}

// CreateTeamMemberRequest is the request to create a team member.
// ID is optional; the server generates one when absent.
type CreateTeamMemberRequest struct {
	ID              string           `json:"id,omitempty"`
	Name            string           `json:"name"`
	Country         string           `json:"country"`
	MonthlyCapacity int              `json:"monthly_capacity,omitempty"`
	VacationDays    map[int][]string `json:"vacation_days,omitempty"`
}

// SetAllocationRequest records man-days committed elsewhere for a
// member and month.
type SetAllocationRequest struct {
	MDs int `json:"mds"`
}

// =============================================================================
// PLANNING
// =============================================================================

// DistributeRequest asks the engine to spread a budget over a range.
type DistributeRequest struct {
	TeamMemberID string      `json:"team_member_id"`
	TotalMDs     json.Number `json:"total_mds"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
}

// AllocationDTO is one month's allocation.
type AllocationDTO struct {
	Planned json.Number `json:"planned"`
	Actual  json.Number `json:"actual"`
	Locked  bool        `json:"locked"`
}

// DistributionDTO is the result of a distribution.
type DistributionDTO struct {
	Months         map[string]AllocationDTO `json:"months"`
	HasOverflow    bool                     `json:"has_overflow"`
	OverflowAmount json.Number              `json:"overflow_amount"`
}

// EstimateRequest asks for a feasible project end date.
type EstimateRequest struct {
	TeamMemberID string      `json:"team_member_id"`
	StartDate    string      `json:"start_date"`
	TotalMDs     json.Number `json:"total_mds"`
}

// EstimateDTO is the end-date estimate.
type EstimateDTO struct {
	EndDate            string `json:"end_date"`
	MonthsNeeded       int    `json:"months_needed"`
	AvgMonthlyCapacity int    `json:"avg_monthly_capacity"`
	UsedFallback       bool   `json:"used_fallback"`
}

// OverflowCheckRequest asks whether a single month's proposed
// allocation overflows.
type OverflowCheckRequest struct {
	TeamMemberID  string      `json:"team_member_id"`
	Month         string      `json:"month"`
	NewAllocation json.Number `json:"new_allocation"`
}

// OverflowReportDTO mirrors plan.OverflowReport. Utilization is a
// number, or the string "Infinity" for a positive allocation against
// zero capacity.
type OverflowReportDTO struct {
	HasOverflow    bool        `json:"has_overflow"`
	OverflowAmount json.Number `json:"overflow_amount"`
	MaxCapacity    int         `json:"max_capacity"`
	Utilization    any         `json:"utilization"`
	CapacityExact  bool        `json:"capacity_exact"`
}

// RedistributeRequest applies a manual edit to an assignment.
type RedistributeRequest struct {
	Assignment   AssignmentDTO `json:"assignment"`
	ChangedMonth string        `json:"changed_month"`
	NewValue     json.Number   `json:"new_value"`
}

// AssignmentDTO mirrors plan.Assignment.
type AssignmentDTO struct {
	ID                string                   `json:"id"`
	TeamMemberID      string                   `json:"team_member_id"`
	Allocations       map[string]AllocationDTO `json:"allocations"`
	HasUnallocatedMDs bool                     `json:"has_unallocated_mds,omitempty"`
	UnallocatedAmount json.Number              `json:"unallocated_amount,omitempty"`
}

// WorkingDaysDTO is the answer to a working-days query.
type WorkingDaysDTO struct {
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	Country     string `json:"country"`
	WorkingDays int    `json:"working_days"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

// num carries a decimal onto the wire digit for digit.
func num(d decimal.Decimal) json.Number { return json.Number(d.String()) }

// dec parses a JSON number into a decimal. The JSON decoder has
// already validated the syntax; anything else (such as an absent
// field) reads as zero.
func dec(n json.Number) decimal.Decimal {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toTeamMemberDTO(m *team.Member) TeamMemberDTO {
	return TeamMemberDTO{
		ID:              m.ID,
		Name:            m.Name,
		Country:         string(m.Country),
		MonthlyCapacity: m.MonthlyCapacity,
		VacationDays:    m.VacationDays,
	}
}

func toAllocationDTO(e *plan.AllocationEntry) AllocationDTO {
	return AllocationDTO{Planned: num(e.Planned), Actual: num(e.Actual), Locked: e.Locked}
}

func toDistributionDTO(d *plan.Distribution) DistributionDTO {
	months := make(map[string]AllocationDTO, len(d.Months))
	for mk, e := range d.Months {
		months[string(mk)] = toAllocationDTO(e)
	}
	return DistributionDTO{
		Months:         months,
		HasOverflow:    d.HasOverflow,
		OverflowAmount: num(d.OverflowAmount),
	}
}

func toOverflowReportDTO(r *plan.OverflowReport) OverflowReportDTO {
	var utilization any = r.Utilization
	if math.IsInf(r.Utilization, 1) {
		utilization = "Infinity"
	}
	return OverflowReportDTO{
		HasOverflow:    r.HasOverflow,
		OverflowAmount: num(r.OverflowAmount),
		MaxCapacity:    r.MaxCapacity,
		Utilization:    utilization,
		CapacityExact:  r.CapacityExact,
	}
}

func toAssignmentDTO(a *plan.Assignment) AssignmentDTO {
	allocations := make(map[string]AllocationDTO, len(a.Allocations))
	for mk, e := range a.Allocations {
		allocations[string(mk)] = toAllocationDTO(e)
	}
	return AssignmentDTO{
		ID:                a.ID,
		TeamMemberID:      a.TeamMemberID,
		Allocations:       allocations,
		HasUnallocatedMDs: a.HasUnallocatedMDs,
		UnallocatedAmount: num(a.UnallocatedAmount),
	}
}

func fromAssignmentDTO(dto AssignmentDTO) *plan.Assignment {
	allocations := make(map[calendar.MonthKey]*plan.AllocationEntry, len(dto.Allocations))
	for mk, e := range dto.Allocations {
		allocations[calendar.MonthKey(mk)] = &plan.AllocationEntry{
			Planned: dec(e.Planned),
			Actual:  dec(e.Actual),
			Locked:  e.Locked,
		}
	}
	return &plan.Assignment{
		ID:           dto.ID,
		TeamMemberID: dto.TeamMemberID,
		Allocations:  allocations,
	}
}

/*
handlers.go - HTTP API handlers for the capacity planner

PURPOSE:
  Exposes the planning engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Team members:
    GET    /api/team-members                      List members
    POST   /api/team-members                      Create member
    GET    /api/team-members/{id}                 Get member
    DELETE /api/team-members/{id}                 Delete member
    PUT    /api/team-members/{id}/allocations/{month}
                                                  Record committed MDs

  Calendar:
    GET    /api/workdays?month=&year=&country=    Working-day count

  Planning:
    POST   /api/plan/distribute                   Spread a budget
    POST   /api/plan/estimate-end-date            Estimate end date
    POST   /api/plan/check-overflow               Single-month check
    POST   /api/plan/redistribute                 Post-edit re-balance

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  Redistribution keeps its transactional contract: a failed call
  returns the caller's assignment untouched alongside the error.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pubule/capacity-planner/calendar"
	"github.com/pubule/capacity-planner/metrics"
	"github.com/pubule/capacity-planner/plan"
	"github.com/pubule/capacity-planner/store/sqlite"
	"github.com/pubule/capacity-planner/team"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Calc    *calendar.Calculator
	Engine  *plan.Engine
	Log     zerolog.Logger
	Metrics *metrics.Recorder
}

// NewHandler wires a handler from its dependencies.
func NewHandler(store *sqlite.Store, calc *calendar.Calculator, engine *plan.Engine, log zerolog.Logger, rec *metrics.Recorder) *Handler {
	return &Handler{Store: store, Calc: calc, Engine: engine, Log: log, Metrics: rec}
}

// =============================================================================
// TEAM MEMBER HANDLERS
// =============================================================================

// ListTeamMembers returns all team members.
func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Store.ListTeamMembers(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to list team members", err)
		return
	}

	dtos := make([]TeamMemberDTO, len(members))
	for i, m := range members {
		dtos[i] = toTeamMemberDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTeamMember returns a single team member.
func (h *Handler) GetTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.Store.GetTeamMember(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get team member", err)
		return
	}
	if m == nil {
		h.writeError(w, http.StatusNotFound, "Team member not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toTeamMemberDTO(m))
}

// CreateTeamMember creates a new team member.
func (h *Handler) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	m := &team.Member{
		ID:              req.ID,
		Name:            req.Name,
		Country:         calendar.Country(req.Country),
		MonthlyCapacity: req.MonthlyCapacity,
		VacationDays:    req.VacationDays,
	}
	if err := h.Store.SaveTeamMember(r.Context(), m); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to create team member", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeamMemberDTO(m))
}

// DeleteTeamMember removes a team member.
func (h *Handler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteTeamMember(r.Context(), id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to delete team member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetExistingAllocation records man-days the member has committed to
// other work, both in the store and in the live calculator index.
func (h *Handler) SetExistingAllocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	month := calendar.MonthKey(chi.URLParam(r, "month"))
	if !month.Valid() {
		h.writeError(w, http.StatusBadRequest, "Invalid month key", &calendar.BadMonthKeyError{Key: string(month)})
		return
	}

	var req SetAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	m, err := h.Store.GetTeamMember(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get team member", err)
		return
	}
	if m == nil {
		h.writeError(w, http.StatusNotFound, "Team member not found", nil)
		return
	}

	if err := h.Store.SaveExistingAllocation(r.Context(), id, month, req.MDs); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to save allocation", err)
		return
	}
	h.Calc.SetExistingAllocations(id, month, req.MDs)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetWorkingDays answers a (month, year, country) working-day query.
func (h *Handler) GetWorkingDays(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "month must be an integer", err)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "year must be an integer", err)
		return
	}
	country := calendar.Country(r.URL.Query().Get("country"))

	days, err := h.Calc.CalculateWorkingDays(month, year, country)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid working-days query", err)
		return
	}
	writeJSON(w, http.StatusOK, WorkingDaysDTO{
		Month:       month,
		Year:        year,
		Country:     string(country),
		WorkingDays: days,
	})
}

// =============================================================================
// PLANNING HANDLERS
// =============================================================================

// Distribute spreads a man-day budget across a date range.
func (h *Handler) Distribute(w http.ResponseWriter, r *http.Request) {
	var req DistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := time.Parse(isoDate, req.StartDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	end, err := time.Parse(isoDate, req.EndDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}

	totalMDs := dec(req.TotalMDs)
	dist, err := h.Engine.Distribute(r.Context(), totalMDs, start, end, req.TeamMemberID)
	if err != nil {
		h.writeError(w, statusForPlanError(err), "Distribution failed", err)
		return
	}

	h.Metrics.RecordDistribution(totalMDs.InexactFloat64(), dist.HasOverflow)
	h.Log.Info().
		Str("team_member_id", req.TeamMemberID).
		Str("total_mds", totalMDs.String()).
		Bool("overflow", dist.HasOverflow).
		Msg("distributed budget")
	writeJSON(w, http.StatusOK, toDistributionDTO(dist))
}

// EstimateEndDate estimates when a budget started on a date would run
// out.
func (h *Handler) EstimateEndDate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := time.Parse(isoDate, req.StartDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}

	est, err := h.Engine.EstimateEndDate(r.Context(), start, dec(req.TotalMDs), req.TeamMemberID)
	if err != nil {
		h.writeError(w, statusForPlanError(err), "Estimation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, EstimateDTO{
		EndDate:            est.EndDate.Format(isoDate),
		MonthsNeeded:       est.MonthsNeeded,
		AvgMonthlyCapacity: est.AvgMonthlyCapacity,
		UsedFallback:       est.UsedFallback,
	})
}

// CheckOverflow reports whether a single month's proposed allocation
// exceeds the member's ceiling for that month.
func (h *Handler) CheckOverflow(w http.ResponseWriter, r *http.Request) {
	var req OverflowCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	report := h.Engine.CheckOverflow(r.Context(), req.TeamMemberID, calendar.MonthKey(req.Month), dec(req.NewAllocation))
	h.Metrics.RecordOverflowCheck(report.HasOverflow)
	writeJSON(w, http.StatusOK, toOverflowReportDTO(report))
}

// Redistribute re-balances an assignment after a manual edit. On
// engine failure the original assignment is echoed back with the error
// so the client never sees partial mutation.
func (h *Handler) Redistribute(w http.ResponseWriter, r *http.Request) {
	var req RedistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	assignment := fromAssignmentDTO(req.Assignment)
	updated, err := h.Engine.Redistribute(r.Context(), assignment, calendar.MonthKey(req.ChangedMonth), dec(req.NewValue))
	if err != nil {
		h.Metrics.RecordRedistribution("error")
		h.Log.Warn().Err(err).Str("assignment_id", req.Assignment.ID).Msg("redistribution failed")
		writeJSON(w, statusForPlanError(err), struct {
			Assignment AssignmentDTO `json:"assignment"`
			Error      string        `json:"error"`
		}{Assignment: toAssignmentDTO(assignment), Error: err.Error()})
		return
	}

	h.Metrics.RecordRedistribution("ok")
	writeJSON(w, http.StatusOK, toAssignmentDTO(updated))
}

// =============================================================================
// HELPERS
// =============================================================================

func statusForPlanError(err error) int {
	switch {
	case errors.Is(err, plan.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, plan.ErrNegativeTotal),
		errors.Is(err, plan.ErrNegativeAllocation),
		errors.Is(err, plan.ErrAssignmentRequired),
		errors.Is(err, calendar.ErrBadMonthKey),
		errors.Is(err, calendar.ErrOutOfRange):
		return http.StatusBadRequest
	}
	var rangeErr *plan.DateRangeError
	if errors.As(err, &rangeErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
		h.Log.Debug().Err(err).Int("status", status).Msg(msg)
	}
	writeJSON(w, status, resp)
}

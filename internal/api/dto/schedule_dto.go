package dto

import (
	"time"

	"github.com/spec-kit/break-planner/internal/domain"
	"github.com/spec-kit/break-planner/internal/scheduler"
	"github.com/spec-kit/break-planner/internal/service"
)

// EmployeePayload is one shift. Times are "HH:MM".
type EmployeePayload struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Roles     []string `json:"roles"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// BreakPayload is a placed break with RFC3339 instants. End defaults to
// Start plus Duration.
type BreakPayload struct {
	ID       string           `json:"id"`
	Type     domain.BreakType `json:"type"`
	Duration int              `json:"duration"`
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"`
}

// ScheduleEntryPayload holds the breaks of one employee.
type ScheduleEntryPayload struct {
	EmployeeID string         `json:"employee_id"`
	Breaks     []BreakPayload `json:"breaks"`
}

// RulesPayload overrides stored rules for one request.
type RulesPayload struct {
	BreakRules    []domain.BreakRule    `json:"break_rules"`
	CoverageRules []domain.CoverageRule `json:"coverage_rules"`
	StoreHours    domain.StoreHours     `json:"store_hours"`
	RolePriority  []string              `json:"role_priority"`
}

// GenerateScheduleRequest payload.
type GenerateScheduleRequest struct {
	Date      string            `json:"date"`
	Employees []EmployeePayload `json:"employees"`
	Persist   bool              `json:"persist"`
	RulesPayload
}

// ValidateScheduleRequest payload.
type ValidateScheduleRequest struct {
	Date      string                 `json:"date"`
	Employees []EmployeePayload      `json:"employees"`
	Schedule  []ScheduleEntryPayload `json:"schedule"`
	RulesPayload
}

// HeadcountRequest payload.
type HeadcountRequest struct {
	Date      string                 `json:"date"`
	Employees []EmployeePayload      `json:"employees"`
	Schedule  []ScheduleEntryPayload `json:"schedule"`
}

// SaveScheduleRequest payload.
type SaveScheduleRequest struct {
	Date      string                 `json:"date"`
	Source    domain.SnapshotSource  `json:"source"`
	Employees []EmployeePayload      `json:"employees"`
	Schedule  []ScheduleEntryPayload `json:"schedule"`
	RulesPayload
}

// CalculateBreaksRequest payload.
type CalculateBreaksRequest struct {
	Date       string             `json:"date"`
	StartTime  string             `json:"start_time"`
	EndTime    string             `json:"end_time"`
	BreakRules []domain.BreakRule `json:"break_rules"`
}

// BreakResponse carries both instants and wall-clock display strings.
type BreakResponse struct {
	ID         string           `json:"id"`
	Type       domain.BreakType `json:"type"`
	Duration   int              `json:"duration"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
	StartClock string           `json:"start_clock"`
	EndClock   string           `json:"end_clock"`
}

// ScheduleEntryResponse holds the breaks of one employee.
type ScheduleEntryResponse struct {
	EmployeeID string          `json:"employee_id"`
	Breaks     []BreakResponse `json:"breaks"`
}

// ScheduleResponse is a generated schedule.
type ScheduleResponse struct {
	Date       string                  `json:"date"`
	Schedule   []ScheduleEntryResponse `json:"schedule"`
	Violations []domain.Violation      `json:"violations"`
	SnapshotID string                  `json:"snapshot_id,omitempty"`
}

// ViolationsResponse is the result of a coverage check.
type ViolationsResponse struct {
	Valid      bool               `json:"valid"`
	Violations []domain.Violation `json:"violations"`
}

// SnapshotResponse is a stored schedule.
type SnapshotResponse struct {
	ID             string                  `json:"id"`
	Date           string                  `json:"date"`
	Source         domain.SnapshotSource   `json:"source"`
	Employees      []EmployeePayload       `json:"employees"`
	Schedule       []ScheduleEntryResponse `json:"schedule"`
	ViolationCount int                     `json:"violation_count"`
	CreatedAt      time.Time               `json:"created_at"`
}

// ToEmployees converts request employees.
func ToEmployees(in []EmployeePayload) []domain.Employee {
	out := make([]domain.Employee, 0, len(in))
	for _, e := range in {
		out = append(out, domain.Employee{ID: e.ID, Name: e.Name, Roles: e.Roles, StartTime: e.StartTime, EndTime: e.EndTime})
	}
	return out
}

// FromEmployees converts domain employees for responses.
func FromEmployees(in []domain.Employee) []EmployeePayload {
	out := make([]EmployeePayload, 0, len(in))
	for _, e := range in {
		out = append(out, EmployeePayload{ID: e.ID, Name: e.Name, Roles: e.Roles, StartTime: e.StartTime, EndTime: e.EndTime})
	}
	return out
}

// ToSchedule converts request schedule entries.
func ToSchedule(in []ScheduleEntryPayload) []domain.EmployeeSchedule {
	out := make([]domain.EmployeeSchedule, 0, len(in))
	for _, entry := range in {
		s := domain.EmployeeSchedule{EmployeeID: entry.EmployeeID, Breaks: make([]domain.BreakAssignment, 0, len(entry.Breaks))}
		for _, b := range entry.Breaks {
			end := b.End
			if end.IsZero() {
				end = b.Start.Add(time.Duration(b.Duration) * time.Minute)
			}
			duration := b.Duration
			if duration == 0 {
				duration = int(end.Sub(b.Start) / time.Minute)
			}
			s.Breaks = append(s.Breaks, domain.BreakAssignment{ID: b.ID, Type: b.Type, Duration: duration, Start: b.Start, End: end})
		}
		out = append(out, s)
	}
	return out
}

// FromBreaks converts placed breaks for responses.
func FromBreaks(in []domain.BreakAssignment) []BreakResponse {
	out := make([]BreakResponse, 0, len(in))
	for _, b := range in {
		out = append(out, BreakResponse{
			ID:         b.ID,
			Type:       b.Type,
			Duration:   b.Duration,
			Start:      b.Start,
			End:        b.End,
			StartClock: scheduler.FormatClock(b.Start),
			EndClock:   scheduler.FormatClock(b.End),
		})
	}
	return out
}

// FromSchedule converts a schedule for responses.
func FromSchedule(in []domain.EmployeeSchedule) []ScheduleEntryResponse {
	out := make([]ScheduleEntryResponse, 0, len(in))
	for _, s := range in {
		out = append(out, ScheduleEntryResponse{EmployeeID: s.EmployeeID, Breaks: FromBreaks(s.Breaks)})
	}
	return out
}

// FromResult converts a generate result.
func FromResult(r *service.ScheduleResult) ScheduleResponse {
	return ScheduleResponse{
		Date:       r.Date,
		Schedule:   FromSchedule(r.Schedule),
		Violations: r.Violations,
		SnapshotID: r.SnapshotID,
	}
}

// FromSnapshot converts a stored schedule.
func FromSnapshot(s *domain.ScheduleSnapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:             s.ID,
		Date:           s.Date,
		Source:         s.Source,
		Employees:      FromEmployees(s.Employees),
		Schedule:       FromSchedule(s.Schedule),
		ViolationCount: s.ViolationCount,
		CreatedAt:      s.CreatedAt,
	}
}

// Overrides maps the optional rule fields to service overrides.
func (r RulesPayload) Overrides() service.RuleOverrides {
	return service.RuleOverrides{
		BreakRules:    r.BreakRules,
		CoverageRules: r.CoverageRules,
		StoreHours:    r.StoreHours,
		RolePriority:  r.RolePriority,
	}
}

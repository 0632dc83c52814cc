package scheduler

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/break-planner/internal/domain"
)

// RolePriority ranks role labels. When two shifts start together, the employee
// whose best role ranks higher picks breaks first. Unknown roles rank 0.
type RolePriority map[string]int

// NewRolePriority ranks roles in the given order, highest first.
func NewRolePriority(ordered []string) RolePriority {
	p := make(RolePriority, len(ordered))
	for i, role := range ordered {
		if _, exists := p[role]; exists {
			continue
		}
		p[role] = len(ordered) - i
	}
	return p
}

// Of returns the rank of the highest ranked role in roles.
func (p RolePriority) Of(roles []string) int {
	best := 0
	for _, r := range roles {
		if v := p[r]; v > best {
			best = v
		}
	}
	return best
}

// EmployeeError ties an input error to the employee that caused it.
type EmployeeError struct {
	EmployeeID string
	Err        error
}

func (e *EmployeeError) Error() string {
	return fmt.Sprintf("employee %s: %v", e.EmployeeID, e.Err)
}

func (e *EmployeeError) Unwrap() error {
	return e.Err
}

// Planner places breaks for a daily team.
type Planner struct {
	priority RolePriority
	newID    func() string
}

// Option configures a Planner.
type Option func(*Planner)

// WithRolePriority sets the tie-break order for simultaneous shift starts.
func WithRolePriority(p RolePriority) Option {
	return func(pl *Planner) {
		pl.priority = p
	}
}

// WithIDGenerator replaces the break identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(pl *Planner) {
		if fn != nil {
			pl.newID = fn
		}
	}
}

// NewPlanner builds a Planner. Without options, roles carry no priority and
// break ids are random UUIDs.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{priority: RolePriority{}, newID: uuid.NewString}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// shift is an employee with the shift bounds resolved on a day.
type shift struct {
	employee   domain.Employee
	start, end time.Time
}

func (s shift) hours() float64 {
	return s.end.Sub(s.start).Hours()
}

func (s shift) covers(t time.Time) bool {
	return !t.Before(s.start) && t.Before(s.end)
}

func normalizeShifts(day time.Time, employees []domain.Employee) ([]shift, error) {
	shifts := make([]shift, 0, len(employees))
	for _, e := range employees {
		start, end, err := NormalizeShift(day, e.StartTime, e.EndTime)
		if err != nil {
			return nil, &EmployeeError{EmployeeID: e.ID, Err: err}
		}
		shifts = append(shifts, shift{employee: e, start: start, end: end})
	}
	return shifts, nil
}

// processingOrder sorts shifts by start, then by role priority (highest
// first), then by employee id.
func (p *Planner) processingOrder(shifts []shift) {
	slices.SortStableFunc(shifts, func(a, b shift) int {
		if c := a.start.Compare(b.start); c != 0 {
			return c
		}
		pa, pb := p.priority.Of(a.employee.Roles), p.priority.Of(b.employee.Roles)
		if pa != pb {
			return pb - pa
		}
		return strings.Compare(a.employee.ID, b.employee.ID)
	})
}

// GenerateSchedule assigns breaks to every employee working on day.
//
// Employees are processed earliest start first. Each employee's breaks are
// booked into a shared coverage map before the next employee is scored, so
// earlier employees get the quieter slots. The result is in processing order.
func (p *Planner) GenerateSchedule(day time.Time, employees []domain.Employee, rules []domain.BreakRule, coverageRules []domain.CoverageRule) ([]domain.EmployeeSchedule, error) {
	shifts, err := normalizeShifts(day, employees)
	if err != nil {
		return nil, err
	}
	p.processingOrder(shifts)

	coverage := NewCoverageMap()
	for _, s := range shifts {
		coverage.Increment(s.start, s.end, s.employee.Roles)
	}

	schedule := make([]domain.EmployeeSchedule, 0, len(shifts))
	for _, s := range shifts {
		rule, ok := ResolveRule(rules, s.hours())
		if !ok {
			schedule = append(schedule, domain.EmployeeSchedule{EmployeeID: s.employee.ID, Breaks: []domain.BreakAssignment{}})
			continue
		}
		breaks := placeBreaks(placementInput{
			employee:      s.employee,
			start:         s.start,
			end:           s.end,
			rule:          rule,
			coverage:      coverage,
			coverageRules: coverageRules,
			newID:         p.newID,
		})
		schedule = append(schedule, domain.EmployeeSchedule{EmployeeID: s.employee.ID, Breaks: breaks})
	}
	return schedule, nil
}

// CalculateBreaks places the breaks of a single shift by even spacing alone.
// Coverage is ignored: anchors sit at i/(n+1) of the shift, snapped to the
// slot grid.
func (p *Planner) CalculateBreaks(day time.Time, startStr, endStr string, rules []domain.BreakRule) ([]domain.BreakAssignment, error) {
	start, end, err := NormalizeShift(day, startStr, endStr)
	if err != nil {
		return nil, err
	}
	breaks := []domain.BreakAssignment{}
	rule, ok := ResolveRule(rules, end.Sub(start).Hours())
	if !ok {
		return breaks, nil
	}
	for _, item := range assignAnchors(start, end, breakItems(rule)) {
		at := RoundToNearest15(item.anchor)
		breaks = append(breaks, domain.BreakAssignment{
			ID:       p.newID(),
			Type:     item.kind,
			Duration: int(item.duration / time.Minute),
			Start:    at,
			End:      at.Add(item.duration),
		})
	}
	slices.SortStableFunc(breaks, func(a, b domain.BreakAssignment) int {
		return a.Start.Compare(b.Start)
	})
	return breaks, nil
}

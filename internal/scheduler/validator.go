package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/spec-kit/break-planner/internal/domain"
)

// ErrInvalidStoreHours is returned when store hours are not one entry per
// weekday or carry malformed times.
var ErrInvalidStoreHours = errors.New("invalid store hours")

type openWindow struct {
	open     bool
	from, to int
}

// storeCalendar answers whether the store is open at an instant. The zero
// value is always open.
type storeCalendar struct {
	days    [domain.DaysPerWeek]openWindow
	limited bool
}

func newStoreCalendar(hours domain.StoreHours) (storeCalendar, error) {
	var cal storeCalendar
	if hours == nil {
		return cal, nil
	}
	if len(hours) != domain.DaysPerWeek {
		return cal, fmt.Errorf("%w: want %d days, got %d", ErrInvalidStoreHours, domain.DaysPerWeek, len(hours))
	}
	cal.limited = true
	for i, h := range hours {
		if !h.IsOpen {
			continue
		}
		from, err := parseClock(h.OpenTime)
		if err != nil {
			return cal, fmt.Errorf("%w: day %d open: %w", ErrInvalidStoreHours, i, err)
		}
		to, err := parseClock(h.CloseTime)
		if err != nil {
			return cal, fmt.Errorf("%w: day %d close: %w", ErrInvalidStoreHours, i, err)
		}
		cal.days[i] = openWindow{open: true, from: from, to: to}
	}
	return cal, nil
}

// CheckStoreHours reports whether hours is nil or a well-formed week.
func CheckStoreHours(hours domain.StoreHours) error {
	_, err := newStoreCalendar(hours)
	return err
}

// isOpen maps t to its Monday-first weekday and checks the opening window.
// A close time at or before the open time means closing after midnight.
func (c storeCalendar) isOpen(t time.Time) bool {
	if !c.limited {
		return true
	}
	w := c.days[(int(t.Weekday())+6)%7]
	if !w.open {
		return false
	}
	m := minuteOfDay(t)
	if w.to <= w.from {
		return m >= w.from || m < w.to
	}
	return m >= w.from && m < w.to
}

// onBreak treats a break as covering [start, end-1m] so the slot that starts
// exactly when a break ends counts the employee as back.
func onBreak(t time.Time, breaks []domain.BreakAssignment) bool {
	for _, b := range breaks {
		if !t.Before(b.Start) && !t.After(b.End.Add(-time.Minute)) {
			return true
		}
	}
	return false
}

type headcount struct {
	total  int
	byRole map[string]int
}

func (h *headcount) add(e domain.Employee) {
	h.total++
	for _, r := range e.Roles {
		h.byRole[r]++
	}
}

func (h headcount) of(role string) int {
	if role == domain.RoleAny {
		return h.total
	}
	return h.byRole[role]
}

func timelineSpan(shifts []shift) (time.Time, time.Time, bool) {
	if len(shifts) == 0 {
		return time.Time{}, time.Time{}, false
	}
	lo, hi := shifts[0].start, shifts[0].end
	for _, s := range shifts[1:] {
		if s.start.Before(lo) {
			lo = s.start
		}
		if s.end.After(hi) {
			hi = s.end
		}
	}
	return lo, hi, true
}

// Validate replays schedule slot by slot and reports every 15-minute slot in
// which a coverage rule is short while the store is open. nil storeHours
// means always open. Violations are not merged: a sustained shortage yields
// one record per slot.
func Validate(day time.Time, schedule []domain.EmployeeSchedule, employees []domain.Employee, coverageRules []domain.CoverageRule, storeHours domain.StoreHours) ([]domain.Violation, error) {
	violations := []domain.Violation{}
	if len(schedule) == 0 {
		return violations, nil
	}
	cal, err := newStoreCalendar(storeHours)
	if err != nil {
		return nil, err
	}
	shifts, err := normalizeShifts(day, employees)
	if err != nil {
		return nil, err
	}
	from, to, ok := timelineSpan(shifts)
	if !ok {
		return violations, nil
	}
	byID := make(map[string]shift, len(shifts))
	for _, s := range shifts {
		byID[s.employee.ID] = s
	}

	for t := range Slots(from, to) {
		active := headcount{byRole: map[string]int{}}
		for _, item := range schedule {
			s, ok := byID[item.EmployeeID]
			if !ok || !s.covers(t) || onBreak(t, item.Breaks) {
				continue
			}
			active.add(s.employee)
		}
		for _, rule := range coverageRules {
			if !rule.IsMinStaff() || !cal.isOpen(t) {
				continue
			}
			found := active.of(rule.Role)
			if found >= rule.Count {
				continue
			}
			violations = append(violations, domain.Violation{
				Time:     FormatClock(t),
				At:       t,
				Role:     rule.Role,
				Found:    found,
				Required: rule.Count,
				Message:  fmt.Sprintf("Low coverage for %s: Found %d, needed %d", rule.Role, found, rule.Count),
			})
		}
	}
	return violations, nil
}

// Headcount reports the active staff, total and per role, at every slot of the
// team's timeline. Employees missing from schedule count as present all shift.
func Headcount(day time.Time, schedule []domain.EmployeeSchedule, employees []domain.Employee) ([]domain.SlotHeadcount, error) {
	shifts, err := normalizeShifts(day, employees)
	if err != nil {
		return nil, err
	}
	curve := []domain.SlotHeadcount{}
	from, to, ok := timelineSpan(shifts)
	if !ok {
		return curve, nil
	}
	breaks := make(map[string][]domain.BreakAssignment, len(schedule))
	for _, item := range schedule {
		breaks[item.EmployeeID] = item.Breaks
	}

	for t := range Slots(from, to) {
		active := headcount{byRole: map[string]int{}}
		for _, s := range shifts {
			if !s.covers(t) || onBreak(t, breaks[s.employee.ID]) {
				continue
			}
			active.add(s.employee)
		}
		curve = append(curve, domain.SlotHeadcount{
			Time:   FormatClock(t),
			At:     t,
			Total:  active.total,
			ByRole: active.byRole,
		})
	}
	return curve, nil
}

package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/spec-kit/break-planner/internal/domain"
)

// testDay is a Monday.
var testDay = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func clock(t *testing.T, hhmm string) time.Time {
	t.Helper()
	at, err := ParseTimeOfDay(testDay, hhmm)
	if err != nil {
		t.Fatalf("parse %q: %v", hhmm, err)
	}
	return at
}

func nextDay(t *testing.T, hhmm string) time.Time {
	t.Helper()
	return clock(t, hhmm).Add(24 * time.Hour)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("brk-%d", n)
	}
}

func eightHourRule() domain.BreakRule {
	return domain.BreakRule{MinHours: 7, MaxHours: 9, PaidBreaks: 1, PaidDuration: 15, UnpaidBreaks: 1, UnpaidDuration: 30}
}

func defaultPriority() RolePriority {
	return NewRolePriority([]string{"Product Guide", "Lead", "Manager", "Associate"})
}

func scheduleFor(t *testing.T, schedule []domain.EmployeeSchedule, id string) domain.EmployeeSchedule {
	t.Helper()
	for _, s := range schedule {
		if s.EmployeeID == id {
			return s
		}
	}
	t.Fatalf("no schedule for employee %s", id)
	return domain.EmployeeSchedule{}
}

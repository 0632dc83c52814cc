package domain

import "time"

// DateLayout is the calendar date format for schedule and plan dates.
const DateLayout = "2006-01-02"

// SnapshotSource records how a saved schedule was produced.
type SnapshotSource string

const (
	SnapshotSourceGenerated SnapshotSource = "generated"
	SnapshotSourceManual    SnapshotSource = "manual"
)

// Valid reports whether s is a known source.
func (s SnapshotSource) Valid() bool {
	return s == SnapshotSourceGenerated || s == SnapshotSourceManual
}

// ScheduleSnapshot is a saved schedule for a calendar date.
type ScheduleSnapshot struct {
	ID             string             `json:"id"`
	Date           string             `json:"date"`
	Source         SnapshotSource     `json:"source"`
	Employees      []Employee         `json:"employees"`
	Schedule       []EmployeeSchedule `json:"schedule"`
	ViolationCount int                `json:"violation_count"`
	CreatedAt      time.Time          `json:"created_at"`
}

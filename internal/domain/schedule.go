package domain

import "time"

// BreakAssignment is one placed break.
type BreakAssignment struct {
	ID       string    `json:"id"`
	Type     BreakType `json:"type"`
	Duration int       `json:"duration"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Overlaps reports whether two breaks share any instant.
func (b BreakAssignment) Overlaps(other BreakAssignment) bool {
	return b.Start.Before(other.End) && other.Start.Before(b.End)
}

// EmployeeSchedule holds the breaks of one employee, ordered by start time.
type EmployeeSchedule struct {
	EmployeeID string            `json:"employee_id"`
	Breaks     []BreakAssignment `json:"breaks"`
}

// Violation is a coverage shortfall found at one 15-minute slot.
type Violation struct {
	Time     string    `json:"time"`
	At       time.Time `json:"at"`
	Role     string    `json:"role"`
	Found    int       `json:"found"`
	Required int       `json:"required"`
	Message  string    `json:"message"`
}

// SlotHeadcount is the active staff at the start of a 15-minute slot.
type SlotHeadcount struct {
	Time   string         `json:"time"`
	At     time.Time      `json:"at"`
	Total  int            `json:"total"`
	ByRole map[string]int `json:"by_role"`
}

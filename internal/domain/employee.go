package domain

import "time"

// Employee is one shift on the daily team. Shift bounds are wall-clock "HH:MM"
// strings; an end at or before the start means the shift ends on the next day.
type Employee struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Roles     []string `json:"roles" yaml:"roles"`
	StartTime string   `json:"start_time" yaml:"start_time"`
	EndTime   string   `json:"end_time" yaml:"end_time"`
}

// PrimaryRole is the role used for display. All roles count toward coverage.
func (e Employee) PrimaryRole() string {
	if len(e.Roles) == 0 {
		return ""
	}
	return e.Roles[0]
}

// HasRole reports whether the employee holds role.
func (e Employee) HasRole(role string) bool {
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RosterMember is an employee kept on the stored roster. Its shift times are
// the usual ones and are reused whenever a request sends no team.
type RosterMember struct {
	Employee
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

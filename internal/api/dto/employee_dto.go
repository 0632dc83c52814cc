package dto

import (
	"time"

	"github.com/spec-kit/break-planner/internal/domain"
)

// EmployeeRequest creates or replaces a roster entry. ID is ignored on update.
type EmployeeRequest struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Roles     []string `json:"roles"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// EmployeeResponse is a stored roster entry.
type EmployeeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToEmployee converts the request.
func (r EmployeeRequest) ToEmployee() domain.Employee {
	return domain.Employee{ID: r.ID, Name: r.Name, Roles: r.Roles, StartTime: r.StartTime, EndTime: r.EndTime}
}

// FromRosterMember converts a roster entry for responses.
func FromRosterMember(m *domain.RosterMember) EmployeeResponse {
	roles := m.Roles
	if roles == nil {
		roles = []string{}
	}
	return EmployeeResponse{
		ID:        m.ID,
		Name:      m.Name,
		Roles:     roles,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/break-planner/internal/domain"
	"github.com/spec-kit/break-planner/internal/events"
	"github.com/spec-kit/break-planner/internal/repository"
	"github.com/spec-kit/break-planner/internal/scheduler"
	apperrors "github.com/spec-kit/break-planner/pkg/util/errorutil"
)

// RosterListFilters define roster listing parameters.
type RosterListFilters struct {
	Role   string
	Limit  int
	Offset int
}

// ListEmployees returns the stored roster ordered by name.
func (s *PlannerService) ListEmployees(ctx context.Context, filters RosterListFilters) ([]domain.RosterMember, error) {
	if s.employees == nil {
		return nil, apperrors.NewUnavailable("roster storage not configured")
	}
	repoFilter := repository.EmployeeFilter{Limit: filters.Limit, Offset: filters.Offset}
	if filters.Role != "" {
		repoFilter.Role = &filters.Role
	}
	members, err := s.employees.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if members == nil {
		members = []domain.RosterMember{}
	}
	return members, nil
}

// GetEmployee fetches one roster entry.
func (s *PlannerService) GetEmployee(ctx context.Context, id string) (*domain.RosterMember, error) {
	if s.employees == nil {
		return nil, apperrors.NewUnavailable("roster storage not configured")
	}
	member, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, rosterError(err, id)
	}
	return member, nil
}

// CreateEmployee adds an employee to the roster. A blank id is generated.
func (s *PlannerService) CreateEmployee(ctx context.Context, employee domain.Employee, actor events.Actor) (*domain.RosterMember, error) {
	if s.employees == nil {
		return nil, apperrors.NewUnavailable("roster storage not configured")
	}
	employee.ID = strings.TrimSpace(employee.ID)
	if employee.ID == "" {
		employee.ID = s.newID()
	}
	if err := checkEmployee(employee); err != nil {
		return nil, err
	}

	member := &domain.RosterMember{Employee: employee}
	if err := s.employees.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrEmployeeExists) {
			return nil, apperrors.NewConflict("employee already exists", map[string]any{"employee_id": employee.ID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	s.rosterChanged(ctx, actor, member.ID, events.RosterActionCreated)
	return member, nil
}

// UpdateEmployee replaces the name, roles and shift of a roster entry.
func (s *PlannerService) UpdateEmployee(ctx context.Context, id string, employee domain.Employee, actor events.Actor) (*domain.RosterMember, error) {
	if s.employees == nil {
		return nil, apperrors.NewUnavailable("roster storage not configured")
	}
	employee.ID = id
	if err := checkEmployee(employee); err != nil {
		return nil, err
	}

	member := &domain.RosterMember{Employee: employee}
	if err := s.employees.Update(ctx, member); err != nil {
		return nil, rosterError(err, id)
	}
	s.rosterChanged(ctx, actor, id, events.RosterActionUpdated)
	return member, nil
}

// DeleteEmployee removes an employee from the roster. Saved snapshots keep
// their own copy of the team.
func (s *PlannerService) DeleteEmployee(ctx context.Context, id string, actor events.Actor) error {
	if s.employees == nil {
		return apperrors.NewUnavailable("roster storage not configured")
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return rosterError(err, id)
	}
	s.rosterChanged(ctx, actor, id, events.RosterActionDeleted)
	return nil
}

// resolveTeam returns team, or the whole stored roster when team is empty.
func (s *PlannerService) resolveTeam(ctx context.Context, team []domain.Employee) ([]domain.Employee, error) {
	if len(team) > 0 || s.employees == nil {
		return team, nil
	}
	members, err := s.employees.List(ctx, repository.EmployeeFilter{})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	out := make([]domain.Employee, 0, len(members))
	for _, m := range members {
		out = append(out, m.Employee)
	}
	s.logger.Debug("using stored roster", zap.Int("employees", len(out)))
	return out, nil
}

func (s *PlannerService) rosterChanged(ctx context.Context, actor events.Actor, id string, action events.RosterAction) {
	s.logger.Info("roster changed", zap.String("employee_id", id), zap.String("action", string(action)))
	s.publish(ctx, events.NewEvent(events.EventRosterChanged, "", actor, events.RosterChangedPayload{
		EmployeeID: id,
		Action:     action,
	}))
}

func checkEmployee(employee domain.Employee) error {
	if strings.TrimSpace(employee.Name) == "" {
		return apperrors.NewValidationError("name required", map[string]any{"employee_id": employee.ID})
	}
	for _, role := range employee.Roles {
		if strings.TrimSpace(role) == "" {
			return apperrors.NewValidationError("roles must not be blank", map[string]any{"employee_id": employee.ID})
		}
	}
	if err := scheduler.CheckShift(employee.StartTime, employee.EndTime); err != nil {
		return apperrors.NewValidationError("invalid shift time", map[string]any{
			"employee_id": employee.ID,
			"error":       err.Error(),
		})
	}
	return nil
}

func rosterError(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
	}
	return apperrors.NewInternalError(err)
}

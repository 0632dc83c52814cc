package dto

import "github.com/spec-kit/break-planner/internal/domain"

// UpdateSettingsRequest replaces all planner settings.
type UpdateSettingsRequest struct {
	BreakRules    []domain.BreakRule    `json:"break_rules"`
	CoverageRules []domain.CoverageRule `json:"coverage_rules"`
	StoreHours    domain.StoreHours     `json:"store_hours"`
	RolePriority  []string              `json:"role_priority"`
}

// ToSettings converts the request.
func (r UpdateSettingsRequest) ToSettings() domain.PlannerSettings {
	return domain.PlannerSettings{
		BreakRules:    r.BreakRules,
		CoverageRules: r.CoverageRules,
		StoreHours:    r.StoreHours,
		RolePriority:  r.RolePriority,
	}
}

package domain

import "time"

// PlannerSettings holds the per-deployment rule configuration.
type PlannerSettings struct {
	BreakRules    []BreakRule    `json:"break_rules" yaml:"break_rules"`
	CoverageRules []CoverageRule `json:"coverage_rules" yaml:"coverage_rules"`
	StoreHours    StoreHours     `json:"store_hours,omitempty" yaml:"store_hours,omitempty"`
	RolePriority  []string       `json:"role_priority,omitempty" yaml:"role_priority,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at" yaml:"-"`
}

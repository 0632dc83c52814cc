package domain

// BreakType enumerates kinds of breaks.
type BreakType string

const (
	BreakTypePaid BreakType = "paid"
	BreakTypeMeal BreakType = "meal"
)

// IsMeal reports whether the break is an unpaid meal break.
func (t BreakType) IsMeal() bool {
	return t == BreakTypeMeal || t == "unpaid"
}

// BreakRule maps a shift-length band [MinHours, MaxHours) to the breaks it earns.
type BreakRule struct {
	MinHours       float64 `json:"min_hours" yaml:"min_hours"`
	MaxHours       float64 `json:"max_hours" yaml:"max_hours"`
	PaidBreaks     int     `json:"paid_breaks" yaml:"paid_breaks"`
	PaidDuration   int     `json:"paid_duration" yaml:"paid_duration"`
	UnpaidBreaks   int     `json:"unpaid_breaks" yaml:"unpaid_breaks"`
	UnpaidDuration int     `json:"unpaid_duration" yaml:"unpaid_duration"`
}

// TotalBreaks is the number of breaks the rule requires.
func (r BreakRule) TotalBreaks() int {
	return r.PaidBreaks + r.UnpaidBreaks
}

// CoverageRuleType enumerates coverage constraint kinds.
type CoverageRuleType string

const (
	CoverageRuleMinStaff CoverageRuleType = "min_staff"
)

// RoleAny matches every employee regardless of role.
const RoleAny = "Any"

// CoverageRule is a minimum-headcount constraint for a role, or for everyone
// when Role is RoleAny.
type CoverageRule struct {
	Type  CoverageRuleType `json:"type" yaml:"type"`
	Role  string           `json:"role" yaml:"role"`
	Count int              `json:"count" yaml:"count"`
}

// IsMinStaff reports whether the rule is a minimum staffing rule. An empty type
// is treated as min_staff.
func (r CoverageRule) IsMinStaff() bool {
	return r.Type == "" || r.Type == CoverageRuleMinStaff
}

// AppliesTo reports whether employee e counts toward the rule.
func (r CoverageRule) AppliesTo(e Employee) bool {
	return r.Role == RoleAny || e.HasRole(r.Role)
}

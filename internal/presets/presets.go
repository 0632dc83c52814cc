// Package presets reads planner rule presets and plan files written in YAML.
package presets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/break-planner/internal/domain"
	"github.com/spec-kit/break-planner/internal/scheduler"
)

//go:embed default.yaml
var defaultPreset []byte

// Default returns the built-in rule preset.
func Default() (domain.PlannerSettings, error) {
	return ParseSettings(defaultPreset)
}

// ParseSettings decodes a rule preset.
func ParseSettings(data []byte) (domain.PlannerSettings, error) {
	var settings domain.PlannerSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return domain.PlannerSettings{}, fmt.Errorf("parse preset: %w", err)
	}
	if err := checkStoreHours(settings.StoreHours); err != nil {
		return domain.PlannerSettings{}, err
	}
	return settings, nil
}

// LoadSettings reads a preset file. An empty path yields the built-in preset.
func LoadSettings(path string) (domain.PlannerSettings, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PlannerSettings{}, fmt.Errorf("read preset: %w", err)
	}
	return ParseSettings(data)
}

// PlanBreak is a break written with a wall-clock start.
type PlanBreak struct {
	Type     domain.BreakType `yaml:"type"`
	Start    string           `yaml:"start"`
	Duration int              `yaml:"duration"`
}

// PlanSchedule lists the breaks of one employee.
type PlanSchedule struct {
	EmployeeID string      `yaml:"employee_id"`
	Breaks     []PlanBreak `yaml:"breaks"`
}

// PlanFile is a full day to plan or check.
type PlanFile struct {
	Date          string                `yaml:"date"`
	Employees     []domain.Employee     `yaml:"employees"`
	BreakRules    []domain.BreakRule    `yaml:"break_rules,omitempty"`
	CoverageRules []domain.CoverageRule `yaml:"coverage_rules,omitempty"`
	StoreHours    domain.StoreHours     `yaml:"store_hours,omitempty"`
	RolePriority  []string              `yaml:"role_priority,omitempty"`
	Schedule      []PlanSchedule        `yaml:"schedule,omitempty"`
}

// LoadPlan reads a plan file. Rule sections left out of the file are filled
// from defaults.
func LoadPlan(path string, defaults domain.PlannerSettings) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data, defaults)
}

// ParsePlan decodes a plan file and applies defaults to empty rule sections.
func ParsePlan(data []byte, defaults domain.PlannerSettings) (*PlanFile, error) {
	var plan PlanFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if len(plan.Employees) == 0 {
		return nil, errors.New("plan has no employees")
	}
	if plan.BreakRules == nil {
		plan.BreakRules = defaults.BreakRules
	}
	if plan.CoverageRules == nil {
		plan.CoverageRules = defaults.CoverageRules
	}
	if plan.StoreHours == nil {
		plan.StoreHours = defaults.StoreHours
	}
	if plan.RolePriority == nil {
		plan.RolePriority = defaults.RolePriority
	}
	if err := checkStoreHours(plan.StoreHours); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Day returns the plan date at midnight in loc. A missing date means today.
func (p *PlanFile) Day(loc *time.Location) (time.Time, error) {
	if p.Date == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	day, err := time.ParseInLocation(domain.DateLayout, p.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("plan date: %w", err)
	}
	return day, nil
}

// ToSchedule resolves the wall-clock breaks of the plan to instants on day.
// A break earlier than its employee's shift start falls on the next day.
func (p *PlanFile) ToSchedule(day time.Time) ([]domain.EmployeeSchedule, error) {
	starts := make(map[string]time.Time, len(p.Employees))
	for _, e := range p.Employees {
		start, err := scheduler.ParseTimeOfDay(day, e.StartTime)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", e.ID, err)
		}
		starts[e.ID] = start
	}

	out := make([]domain.EmployeeSchedule, 0, len(p.Schedule))
	for _, s := range p.Schedule {
		entry := domain.EmployeeSchedule{EmployeeID: s.EmployeeID}
		for i, b := range s.Breaks {
			at, err := scheduler.ParseTimeOfDay(day, b.Start)
			if err != nil {
				return nil, fmt.Errorf("employee %s break %d: %w", s.EmployeeID, i+1, err)
			}
			if shiftStart, ok := starts[s.EmployeeID]; ok && at.Before(shiftStart) {
				at = at.AddDate(0, 0, 1)
			}
			entry.Breaks = append(entry.Breaks, domain.BreakAssignment{
				ID:       fmt.Sprintf("%s-%d", s.EmployeeID, i+1),
				Type:     b.Type,
				Duration: b.Duration,
				Start:    at,
				End:      at.Add(time.Duration(b.Duration) * time.Minute),
			})
		}
		out = append(out, entry)
	}
	return out, nil
}

// FromSchedule converts placed breaks back to the wall-clock form of plan files.
func FromSchedule(schedule []domain.EmployeeSchedule) []PlanSchedule {
	out := make([]PlanSchedule, 0, len(schedule))
	for _, s := range schedule {
		entry := PlanSchedule{EmployeeID: s.EmployeeID}
		for _, b := range s.Breaks {
			entry.Breaks = append(entry.Breaks, PlanBreak{
				Type:     b.Type,
				Start:    scheduler.FormatClock(b.Start),
				Duration: b.Duration,
			})
		}
		out = append(out, entry)
	}
	return out
}

func checkStoreHours(hours domain.StoreHours) error {
	if err := scheduler.CheckStoreHours(hours); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/break-planner/internal/domain"
	"github.com/spec-kit/break-planner/internal/events"
	"github.com/spec-kit/break-planner/internal/observability"
	"github.com/spec-kit/break-planner/internal/repository"
	"github.com/spec-kit/break-planner/internal/scheduler"
	apperrors "github.com/spec-kit/break-planner/pkg/util/errorutil"
)

// maxDateListing caps ScheduleDates.
const maxDateListing = 90

// PlannerService coordinates break planning, validation and schedule storage.
type PlannerService struct {
	schedules  repository.ScheduleRepository
	settings   repository.SettingsRepository
	employees  repository.EmployeeRepository
	cache      repository.ScheduleCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	defaults   domain.PlannerSettings
	location   *time.Location
	newID      func() string
	now        func() time.Time
}

// PlannerDependencies bundles collaborators for the planner service. Any
// repository may be nil when its backing store is not configured.
type PlannerDependencies struct {
	ScheduleRepo repository.ScheduleRepository
	SettingsRepo repository.SettingsRepository
	EmployeeRepo repository.EmployeeRepository
	Cache        repository.ScheduleCache
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Defaults     domain.PlannerSettings
	Location     *time.Location
	IDGenerator  func() string
}

// RuleOverrides replaces stored settings for a single request. Nil fields
// keep the stored value.
type RuleOverrides struct {
	BreakRules    []domain.BreakRule
	CoverageRules []domain.CoverageRule
	StoreHours    domain.StoreHours
	RolePriority  []string
}

// GenerateInput describes a generate request.
type GenerateInput struct {
	Date      string
	Employees []domain.Employee
	Rules     RuleOverrides
	Persist   bool
	Actor     events.Actor
}

// ScheduleResult is a generated schedule with its coverage check.
type ScheduleResult struct {
	Date       string                    `json:"date"`
	Schedule   []domain.EmployeeSchedule `json:"schedule"`
	Violations []domain.Violation        `json:"violations"`
	SnapshotID string                    `json:"snapshot_id,omitempty"`
}

// ValidateInput describes a coverage check of an existing schedule.
type ValidateInput struct {
	Date      string
	Employees []domain.Employee
	Schedule  []domain.EmployeeSchedule
	Rules     RuleOverrides
	Actor     events.Actor
}

// CalculateInput describes a single-shift break calculation.
type CalculateInput struct {
	Date       string
	StartTime  string
	EndTime    string
	BreakRules []domain.BreakRule
}

// HeadcountInput describes a headcount curve request.
type HeadcountInput struct {
	Date      string
	Employees []domain.Employee
	Schedule  []domain.EmployeeSchedule
}

// SaveInput describes a schedule snapshot to store.
type SaveInput struct {
	Date      string
	Employees []domain.Employee
	Schedule  []domain.EmployeeSchedule
	Source    domain.SnapshotSource
	Rules     RuleOverrides
	Actor     events.Actor
}

// NewPlannerService constructs the service.
func NewPlannerService(deps *PlannerDependencies) *PlannerService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	newID := deps.IDGenerator
	if newID == nil {
		newID = uuid.NewString
	}
	return &PlannerService{
		schedules:  deps.ScheduleRepo,
		settings:   deps.SettingsRepo,
		employees:  deps.EmployeeRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		defaults:   deps.Defaults,
		location:   loc,
		newID:      newID,
		now:        time.Now,
	}
}

// Generate places breaks for the team and checks the result against the
// coverage rules. An empty team means the stored roster. With Persist set and
// storage configured, the schedule is saved as a snapshot.
func (s *PlannerService) Generate(ctx context.Context, input GenerateInput) (*ScheduleResult, error) {
	employees, err := s.resolveTeam(ctx, input.Employees)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, apperrors.NewValidationError("at least one employee is required", nil)
	}
	date, day, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}
	settings, err := s.effectiveSettings(ctx, input.Rules)
	if err != nil {
		return nil, err
	}

	started := s.now()
	planner := scheduler.NewPlanner(
		scheduler.WithRolePriority(scheduler.NewRolePriority(settings.RolePriority)),
		scheduler.WithIDGenerator(s.newID),
	)
	schedule, err := planner.GenerateSchedule(day, employees, settings.BreakRules, settings.CoverageRules)
	if err != nil {
		return nil, mapSchedulerError(err)
	}
	violations, err := scheduler.Validate(day, schedule, employees, settings.CoverageRules, settings.StoreHours)
	if err != nil {
		return nil, mapSchedulerError(err)
	}

	breaks := countBreaks(schedule)
	s.metrics.RecordScheduleRun("generate", breaks)
	s.metrics.RecordViolations(len(violations))
	s.logger.Info("schedule generated",
		zap.String("date", date),
		zap.Int("employees", len(employees)),
		zap.Int("breaks", breaks),
		zap.Int("violations", len(violations)),
		zap.Duration("duration", s.now().Sub(started)))

	result := &ScheduleResult{Date: date, Schedule: schedule, Violations: violations}
	if input.Persist {
		if s.schedules == nil {
			s.logger.Warn("schedule storage not configured; generated schedule not saved", zap.String("date", date))
		} else {
			snapshot := &domain.ScheduleSnapshot{
				ID:             s.newID(),
				Date:           date,
				Source:         domain.SnapshotSourceGenerated,
				Employees:      employees,
				Schedule:       schedule,
				ViolationCount: len(violations),
			}
			if err := s.store(ctx, snapshot, input.Actor); err != nil {
				return nil, err
			}
			result.SnapshotID = snapshot.ID
		}
	}

	s.publish(ctx, events.NewEvent(events.EventScheduleGenerated, date, input.Actor, events.ScheduleGeneratedPayload{
		Employees:  len(employees),
		Breaks:     breaks,
		Violations: len(violations),
		SnapshotID: result.SnapshotID,
	}))
	s.reportViolations(ctx, date, input.Actor, violations)
	return result, nil
}

// Validate checks an existing schedule against the coverage rules. An empty
// team means the stored roster.
func (s *PlannerService) Validate(ctx context.Context, input ValidateInput) ([]domain.Violation, error) {
	date, day, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}
	employees, err := s.resolveTeam(ctx, input.Employees)
	if err != nil {
		return nil, err
	}
	settings, err := s.effectiveSettings(ctx, input.Rules)
	if err != nil {
		return nil, err
	}
	if err := checkSchedule(input.Schedule); err != nil {
		return nil, err
	}

	violations, err := scheduler.Validate(day, input.Schedule, employees, settings.CoverageRules, settings.StoreHours)
	if err != nil {
		return nil, mapSchedulerError(err)
	}

	s.metrics.RecordScheduleRun("validate", 0)
	s.metrics.RecordViolations(len(violations))
	if len(violations) > 0 {
		s.logger.Warn("coverage violations found", zap.String("date", date), zap.Int("count", len(violations)))
	}

	s.publish(ctx, events.NewEvent(events.EventScheduleValidated, date, input.Actor, events.ScheduleValidatedPayload{
		Employees:  len(employees),
		Violations: len(violations),
	}))
	s.reportViolations(ctx, date, input.Actor, violations)
	return violations, nil
}

// CalculateBreaks places the breaks of one shift by even spacing.
func (s *PlannerService) CalculateBreaks(ctx context.Context, input CalculateInput) ([]domain.BreakAssignment, error) {
	_, day, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}
	rules := input.BreakRules
	if rules == nil {
		settings, err := s.effectiveSettings(ctx, RuleOverrides{})
		if err != nil {
			return nil, err
		}
		rules = settings.BreakRules
	}

	breaks, err := scheduler.NewPlanner(scheduler.WithIDGenerator(s.newID)).CalculateBreaks(day, input.StartTime, input.EndTime, rules)
	if err != nil {
		return nil, mapSchedulerError(err)
	}
	s.metrics.RecordScheduleRun("calculate", len(breaks))
	return breaks, nil
}

// Headcount returns the active staff per slot.
func (s *PlannerService) Headcount(ctx context.Context, input HeadcountInput) ([]domain.SlotHeadcount, error) {
	_, day, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}
	if err := checkSchedule(input.Schedule); err != nil {
		return nil, err
	}
	employees, err := s.resolveTeam(ctx, input.Employees)
	if err != nil {
		return nil, err
	}
	curve, err := scheduler.Headcount(day, input.Schedule, employees)
	if err != nil {
		return nil, mapSchedulerError(err)
	}
	s.metrics.RecordScheduleRun("headcount", 0)
	return curve, nil
}

// SaveSchedule validates and stores a schedule snapshot. An empty team means
// the stored roster.
func (s *PlannerService) SaveSchedule(ctx context.Context, input SaveInput) (*domain.ScheduleSnapshot, error) {
	if s.schedules == nil {
		return nil, apperrors.NewUnavailable("schedule storage not configured")
	}
	source := input.Source
	if source == "" {
		source = domain.SnapshotSourceManual
	}
	if !source.Valid() {
		return nil, apperrors.NewValidationError("source must be generated or manual", map[string]any{"source": source})
	}
	employees, err := s.resolveTeam(ctx, input.Employees)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, apperrors.NewValidationError("at least one employee is required", nil)
	}
	date, day, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}
	if err := checkSchedule(input.Schedule); err != nil {
		return nil, err
	}
	settings, err := s.effectiveSettings(ctx, input.Rules)
	if err != nil {
		return nil, err
	}
	violations, err := scheduler.Validate(day, input.Schedule, employees, settings.CoverageRules, settings.StoreHours)
	if err != nil {
		return nil, mapSchedulerError(err)
	}

	snapshot := &domain.ScheduleSnapshot{
		ID:             s.newID(),
		Date:           date,
		Source:         source,
		Employees:      employees,
		Schedule:       input.Schedule,
		ViolationCount: len(violations),
	}
	if err := s.store(ctx, snapshot, input.Actor); err != nil {
		return nil, err
	}
	s.reportViolations(ctx, date, input.Actor, violations)
	return snapshot, nil
}

// LatestSchedule returns the most recent snapshot for date, checking the cache first.
func (s *PlannerService) LatestSchedule(ctx context.Context, date string) (*domain.ScheduleSnapshot, error) {
	date, _, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		snapshot, err := s.cache.GetLatest(ctx, date)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("schedule cache read failed", zap.String("date", date), zap.Error(err))
		}
	}

	if s.schedules == nil {
		return nil, apperrors.NewUnavailable("schedule storage not configured")
	}
	snapshot, err := s.schedules.Latest(ctx, date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("schedule", map[string]any{"date": date})
		}
		return nil, apperrors.NewInternalError(err)
	}
	s.cacheSnapshot(ctx, snapshot)
	return snapshot, nil
}

// ScheduleDates lists the most recent dates with a saved schedule, newest
// first.
func (s *PlannerService) ScheduleDates(ctx context.Context, limit int) ([]string, error) {
	if s.schedules == nil {
		return nil, apperrors.NewUnavailable("schedule storage not configured")
	}
	if limit <= 0 || limit > maxDateListing {
		limit = maxDateListing
	}
	dates, err := s.schedules.ListDates(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// Settings returns the stored settings, or the defaults when none are stored.
func (s *PlannerService) Settings(ctx context.Context) (*domain.PlannerSettings, error) {
	settings, err := s.storedSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the stored settings.
func (s *PlannerService) UpdateSettings(ctx context.Context, settings domain.PlannerSettings, actor events.Actor) (*domain.PlannerSettings, error) {
	if s.settings == nil {
		return nil, apperrors.NewUnavailable("settings storage not configured")
	}
	if err := checkSettings(settings); err != nil {
		return nil, err
	}
	if err := s.settings.Upsert(ctx, &settings); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("planner settings updated",
		zap.Int("break_rules", len(settings.BreakRules)),
		zap.Int("coverage_rules", len(settings.CoverageRules)))
	s.publish(ctx, events.NewEvent(events.EventPlannerSettingsUpdated, "", actor, settings))
	return &settings, nil
}

func (s *PlannerService) store(ctx context.Context, snapshot *domain.ScheduleSnapshot, actor events.Actor) error {
	if err := s.schedules.Save(ctx, snapshot); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.cacheSnapshot(ctx, snapshot)
	s.logger.Info("schedule saved",
		zap.String("snapshot_id", snapshot.ID),
		zap.String("date", snapshot.Date),
		zap.String("source", string(snapshot.Source)))
	s.publish(ctx, events.NewEvent(events.EventScheduleSaved, snapshot.Date, actor, events.ScheduleSavedPayload{
		SnapshotID:     snapshot.ID,
		Source:         snapshot.Source,
		ViolationCount: snapshot.ViolationCount,
	}))
	return nil
}

func (s *PlannerService) cacheSnapshot(ctx context.Context, snapshot *domain.ScheduleSnapshot) {
	if s.cache == nil {
		return
	}
	err := s.cache.SetLatest(ctx, snapshot)
	if err == nil {
		return
	}
	s.logger.Warn("schedule cache write failed", zap.String("date", snapshot.Date), zap.Error(err))
	// The entry may still hold an older snapshot.
	if err := s.cache.Invalidate(ctx, snapshot.Date); err != nil {
		s.logger.Warn("schedule cache invalidate failed", zap.String("date", snapshot.Date), zap.Error(err))
	}
}

func (s *PlannerService) reportViolations(ctx context.Context, date string, actor events.Actor, violations []domain.Violation) {
	if len(violations) == 0 {
		return
	}
	s.publish(ctx, events.NewEvent(events.EventCoverageViolationsFound, date, actor, events.CoverageViolationsFoundPayload{
		Count:      len(violations),
		Violations: violations,
	}))
}

func (s *PlannerService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// resolveDate parses a "YYYY-MM-DD" date in the planner location. An empty
// date means today.
func (s *PlannerService) resolveDate(date string) (string, time.Time, error) {
	if date == "" {
		now := s.now().In(s.location)
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
		return day.Format(domain.DateLayout), day, nil
	}
	day, err := time.ParseInLocation(domain.DateLayout, date, s.location)
	if err != nil {
		return "", time.Time{}, apperrors.NewValidationError("date must be YYYY-MM-DD", map[string]any{"date": date})
	}
	return date, day, nil
}

func (s *PlannerService) storedSettings(ctx context.Context) (domain.PlannerSettings, error) {
	if s.settings == nil {
		return s.defaults, nil
	}
	stored, err := s.settings.Get(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.defaults, nil
	}
	if err != nil {
		return domain.PlannerSettings{}, apperrors.NewInternalError(err)
	}
	if len(stored.RolePriority) == 0 {
		stored.RolePriority = s.defaults.RolePriority
	}
	return *stored, nil
}

func (s *PlannerService) effectiveSettings(ctx context.Context, overrides RuleOverrides) (domain.PlannerSettings, error) {
	settings, err := s.storedSettings(ctx)
	if err != nil {
		return settings, err
	}
	if overrides.BreakRules != nil {
		settings.BreakRules = overrides.BreakRules
	}
	if overrides.CoverageRules != nil {
		settings.CoverageRules = overrides.CoverageRules
	}
	if overrides.StoreHours != nil {
		settings.StoreHours = overrides.StoreHours
	}
	if overrides.RolePriority != nil {
		settings.RolePriority = overrides.RolePriority
	}
	return settings, nil
}

func checkSettings(settings domain.PlannerSettings) error {
	for i, r := range settings.BreakRules {
		if r.MaxHours < r.MinHours || r.PaidBreaks < 0 || r.UnpaidBreaks < 0 || r.PaidDuration < 0 || r.UnpaidDuration < 0 {
			return apperrors.NewValidationError("invalid break rule", map[string]any{"index": i})
		}
	}
	for i, r := range settings.CoverageRules {
		if r.Role == "" || r.Count < 0 {
			return apperrors.NewValidationError("invalid coverage rule", map[string]any{"index": i})
		}
	}
	if err := scheduler.CheckStoreHours(settings.StoreHours); err != nil {
		return apperrors.NewValidationError("invalid store hours", map[string]any{"error": err.Error()})
	}
	return nil
}

func checkSchedule(schedule []domain.EmployeeSchedule) error {
	for _, item := range schedule {
		for _, b := range item.Breaks {
			if !b.End.After(b.Start) {
				return apperrors.NewValidationError("break must end after it starts", map[string]any{
					"employee_id": item.EmployeeID,
					"break_id":    b.ID,
				})
			}
		}
	}
	return nil
}

// mapSchedulerError turns input errors from the scheduler into validation
// errors and anything else into an internal error.
func mapSchedulerError(err error) error {
	details := map[string]any{"error": err.Error()}
	var empErr *scheduler.EmployeeError
	if errors.As(err, &empErr) {
		details["employee_id"] = empErr.EmployeeID
	}
	switch {
	case errors.Is(err, scheduler.ErrInvalidStoreHours):
		return apperrors.NewValidationError("invalid store hours", details)
	case errors.Is(err, scheduler.ErrInvalidTimeOfDay):
		return apperrors.NewValidationError("invalid shift time", details)
	default:
		return apperrors.NewInternalError(fmt.Errorf("scheduler: %w", err))
	}
}

func countBreaks(schedule []domain.EmployeeSchedule) int {
	n := 0
	for _, item := range schedule {
		n += len(item.Breaks)
	}
	return n
}

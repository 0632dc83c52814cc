package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/break-planner/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventScheduleGenerated       EventType = "schedule_generated"
	EventScheduleValidated       EventType = "schedule_validated"
	EventScheduleSaved           EventType = "schedule_saved"
	EventCoverageViolationsFound EventType = "coverage_violations_found"
	EventPlannerSettingsUpdated  EventType = "planner_settings_updated"
	EventRosterChanged           EventType = "roster_changed"
)

// Actor identifies who triggered an event.
type Actor struct {
	Subject string              `json:"subject,omitempty"`
	Role    domain.OperatorRole `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Date      string    `json:"date,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, date string, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Date:      date,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ScheduleGeneratedPayload payload.
type ScheduleGeneratedPayload struct {
	Employees  int    `json:"employees"`
	Breaks     int    `json:"breaks"`
	Violations int    `json:"violations"`
	SnapshotID string `json:"snapshot_id,omitempty"`
}

// ScheduleValidatedPayload payload.
type ScheduleValidatedPayload struct {
	Employees  int `json:"employees"`
	Violations int `json:"violations"`
}

// ScheduleSavedPayload payload.
type ScheduleSavedPayload struct {
	SnapshotID     string                `json:"snapshot_id"`
	Source         domain.SnapshotSource `json:"source"`
	ViolationCount int                   `json:"violation_count"`
}

// CoverageViolationsFoundPayload payload.
type CoverageViolationsFoundPayload struct {
	Count      int                `json:"count"`
	Violations []domain.Violation `json:"violations"`
}

// RosterAction names a roster mutation.
type RosterAction string

const (
	RosterActionCreated RosterAction = "created"
	RosterActionUpdated RosterAction = "updated"
	RosterActionDeleted RosterAction = "deleted"
)

// RosterChangedPayload payload.
type RosterChangedPayload struct {
	EmployeeID string       `json:"employee_id"`
	Action     RosterAction `json:"action"`
}

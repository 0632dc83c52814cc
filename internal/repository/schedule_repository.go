package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/break-planner/internal/domain"
)

// ScheduleRepository persists schedule snapshots.
type ScheduleRepository interface {
	Save(ctx context.Context, snapshot *domain.ScheduleSnapshot) error
	Latest(ctx context.Context, date string) (*domain.ScheduleSnapshot, error)
	ListDates(ctx context.Context, limit int) ([]string, error)
}

type scheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository instantiates repository.
func NewScheduleRepository(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepository{pool: pool}
}

// schedulePayload is the jsonb document stored per snapshot.
type schedulePayload struct {
	Employees []domain.Employee         `json:"employees"`
	Schedule  []domain.EmployeeSchedule `json:"schedule"`
}

func (r *scheduleRepository) Save(ctx context.Context, snapshot *domain.ScheduleSnapshot) error {
	day, err := time.Parse(domain.DateLayout, snapshot.Date)
	if err != nil {
		return fmt.Errorf("snapshot date: %w", err)
	}
	data, err := json.Marshal(schedulePayload{Employees: snapshot.Employees, Schedule: snapshot.Schedule})
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	const query = `
        INSERT INTO schedule_snapshots (id, schedule_date, source, schedule_data, violation_count)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		snapshot.ID,
		day,
		snapshot.Source,
		data,
		snapshot.ViolationCount,
	).Scan(&snapshot.CreatedAt)
}

func (r *scheduleRepository) Latest(ctx context.Context, date string) (*domain.ScheduleSnapshot, error) {
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("snapshot date: %w", err)
	}

	const query = `
        SELECT id, schedule_date, source, schedule_data, violation_count, created_at
        FROM schedule_snapshots
        WHERE schedule_date=$1
        ORDER BY created_at DESC
        LIMIT 1`

	var (
		snapshot domain.ScheduleSnapshot
		stored   time.Time
		raw      []byte
	)
	if err := r.pool.QueryRow(ctx, query, day).Scan(
		&snapshot.ID,
		&stored,
		&snapshot.Source,
		&raw,
		&snapshot.ViolationCount,
		&snapshot.CreatedAt,
	); err != nil {
		return nil, err
	}

	var payload schedulePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	snapshot.Date = stored.Format(domain.DateLayout)
	snapshot.Employees = payload.Employees
	snapshot.Schedule = payload.Schedule
	return &snapshot, nil
}

func (r *scheduleRepository) ListDates(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 30
	}
	const query = `
        SELECT DISTINCT schedule_date FROM schedule_snapshots
        ORDER BY schedule_date DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d.Format(domain.DateLayout))
	}
	return dates, rows.Err()
}

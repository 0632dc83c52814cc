package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/break-planner/internal/domain"
)

// settingsRowID is the single row holding deployment settings.
const settingsRowID = 1

// SettingsRepository stores planner settings.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.PlannerSettings, error)
	Upsert(ctx context.Context, settings *domain.PlannerSettings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository instantiates repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

// Get returns pgx.ErrNoRows when nothing has been stored yet.
func (r *settingsRepository) Get(ctx context.Context) (*domain.PlannerSettings, error) {
	const query = `SELECT settings, updated_at FROM planner_settings WHERE id=$1`

	var (
		settings domain.PlannerSettings
		raw      []byte
	)
	if err := r.pool.QueryRow(ctx, query, settingsRowID).Scan(&raw, &settings.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings *domain.PlannerSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	const query = `
        INSERT INTO planner_settings (id, settings, updated_at)
        VALUES ($1,$2,NOW())
        ON CONFLICT (id) DO UPDATE SET settings=EXCLUDED.settings, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, settingsRowID, data).Scan(&settings.UpdatedAt)
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/break-planner/internal/domain"
)

// ErrCacheMiss is returned when no schedule is cached for a date.
var ErrCacheMiss = errors.New("schedule cache miss")

// ScheduleCache keeps the latest snapshot per date.
type ScheduleCache interface {
	GetLatest(ctx context.Context, date string) (*domain.ScheduleSnapshot, error)
	SetLatest(ctx context.Context, snapshot *domain.ScheduleSnapshot) error
	Invalidate(ctx context.Context, date string) error
}

type scheduleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScheduleCache instantiates a redis backed cache. A zero ttl keeps entries until replaced.
func NewScheduleCache(client *redis.Client, ttl time.Duration) ScheduleCache {
	return &scheduleCache{client: client, ttl: ttl}
}

// LatestScheduleKey returns the redis key for a date.
func LatestScheduleKey(date string) string {
	return "schedule:latest:" + date
}

func (c *scheduleCache) GetLatest(ctx context.Context, date string) (*domain.ScheduleSnapshot, error) {
	raw, err := c.client.Get(ctx, LatestScheduleKey(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var snapshot domain.ScheduleSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *scheduleCache) SetLatest(ctx context.Context, snapshot *domain.ScheduleSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, LatestScheduleKey(snapshot.Date), data, c.ttl).Err()
}

func (c *scheduleCache) Invalidate(ctx context.Context, date string) error {
	return c.client.Del(ctx, LatestScheduleKey(date)).Err()
}

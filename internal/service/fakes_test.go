package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/break-planner/internal/domain"
	"github.com/spec-kit/break-planner/internal/events"
	"github.com/spec-kit/break-planner/internal/repository"
)

type fakeScheduleRepo struct {
	mu        sync.Mutex
	snapshots []domain.ScheduleSnapshot
	latest    int
	saveErr   error
}

func (f *fakeScheduleRepo) Save(_ context.Context, s *domain.ScheduleSnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.CreatedAt = time.Date(2026, 3, 2, 8, 0, len(f.snapshots), 0, time.UTC)
	f.snapshots = append(f.snapshots, *s)
	return nil
}

func (f *fakeScheduleRepo) Latest(_ context.Context, date string) (*domain.ScheduleSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest++
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		if f.snapshots[i].Date == date {
			s := f.snapshots[i]
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeScheduleRepo) ListDates(_ context.Context, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var dates []string
	for _, s := range f.snapshots {
		if !seen[s.Date] {
			seen[s.Date] = true
			dates = append(dates, s.Date)
		}
	}
	slices.Sort(dates)
	slices.Reverse(dates)
	if len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

type fakeSettingsRepo struct {
	stored *domain.PlannerSettings
	getErr error
}

func (f *fakeSettingsRepo) Get(context.Context) (*domain.PlannerSettings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stored == nil {
		return nil, pgx.ErrNoRows
	}
	s := *f.stored
	return &s, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, s *domain.PlannerSettings) error {
	s.UpdatedAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	stored := *s
	f.stored = &stored
	return nil
}

type fakeCache struct {
	entries       map[string]domain.ScheduleSnapshot
	getErr        error
	setErr        error
	sets          int
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]domain.ScheduleSnapshot{}}
}

func (f *fakeCache) GetLatest(_ context.Context, date string) (*domain.ScheduleSnapshot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.entries[date]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return &s, nil
}

func (f *fakeCache) SetLatest(_ context.Context, s *domain.ScheduleSnapshot) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[s.Date] = *s
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, date string) error {
	f.invalidations++
	delete(f.entries, date)
	return nil
}

type fakeEmployeeRepo struct {
	members map[string]domain.RosterMember
	listErr error
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{members: map[string]domain.RosterMember{}}
}

func (f *fakeEmployeeRepo) Create(_ context.Context, m *domain.RosterMember) error {
	if _, ok := f.members[m.ID]; ok {
		return repository.ErrEmployeeExists
	}
	m.CreatedAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	m.UpdatedAt = m.CreatedAt
	f.members[m.ID] = *m
	return nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, m *domain.RosterMember) error {
	existing, ok := f.members[m.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.members[m.ID] = *m
	return nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.RosterMember, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

func (f *fakeEmployeeRepo) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.RosterMember, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.RosterMember
	for _, m := range f.members {
		if filter.Role != nil && !m.HasRole(*filter.Role) {
			continue
		}
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b domain.RosterMember) int {
		return strings.Compare(a.Name, b.Name)
	})
	if filter.Limit > 0 {
		out = out[min(filter.Offset, len(out)):min(filter.Offset+filter.Limit, len(out))]
	}
	return out, nil
}

func (f *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.members[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.members, id)
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.published = append(d.published, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var errBoom = errors.New("boom")

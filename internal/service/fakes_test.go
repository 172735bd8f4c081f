package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/events"
)

// memoryWeeklyRepo mimics the upsert-with-conflict-target behaviour of weekly_schedules.
type memoryWeeklyRepo struct {
	mu      sync.Mutex
	entries map[string]*domain.WeeklyScheduleEntry
	seq     int
	failOn  domain.Weekday
}

func newMemoryWeeklyRepo() *memoryWeeklyRepo {
	return &memoryWeeklyRepo{entries: map[string]*domain.WeeklyScheduleEntry{}}
}

func weeklyKey(specialistID, branchID string, day domain.Weekday) string {
	return fmt.Sprintf("%s/%s/%d", specialistID, branchID, day)
}

func (r *memoryWeeklyRepo) upsertLocked(entry *domain.WeeklyScheduleEntry) {
	key := weeklyKey(entry.SpecialistID, entry.BranchID, entry.DayOfWeek)
	if existing, ok := r.entries[key]; ok {
		entry.ID = existing.ID
	} else {
		r.seq++
		entry.ID = fmt.Sprintf("weekly-%d", r.seq)
	}
	stored := *entry
	r.entries[key] = &stored
}

func (r *memoryWeeklyRepo) Upsert(_ context.Context, entry *domain.WeeklyScheduleEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(entry)
	return nil
}

func (r *memoryWeeklyRepo) UpsertMany(_ context.Context, entries []*domain.WeeklyScheduleEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range entries {
		if entry.DayOfWeek == r.failOn {
			return fmt.Errorf("write failed for %s", entry.DayOfWeek)
		}
	}
	for _, entry := range entries {
		r.upsertLocked(entry)
	}
	return nil
}

func (r *memoryWeeklyRepo) GetActive(_ context.Context, tenantID, specialistID, branchID string, day domain.Weekday) (*domain.WeeklyScheduleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[weeklyKey(specialistID, branchID, day)]
	if !ok || !entry.IsActive || entry.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func (r *memoryWeeklyRepo) List(_ context.Context, tenantID, specialistID string, branchID *string) ([]domain.WeeklyScheduleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.WeeklyScheduleEntry
	for _, entry := range r.entries {
		if entry.TenantID != tenantID || entry.SpecialistID != specialistID {
			continue
		}
		if branchID != nil && entry.BranchID != *branchID {
			continue
		}
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DayOfWeek < result[j].DayOfWeek })
	return result, nil
}

func (r *memoryWeeklyRepo) Deactivate(_ context.Context, tenantID, specialistID, branchID string, day domain.Weekday) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[weeklyKey(specialistID, branchID, day)]
	if !ok || entry.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	entry.IsActive = false
	return nil
}

// memoryExceptionRepo enforces (specialist_id, exception_date) uniqueness like the database.
type memoryExceptionRepo struct {
	mu     sync.Mutex
	rows   []domain.ScheduleException
	seq    int
	unique bool
}

func (r *memoryExceptionRepo) Create(_ context.Context, exception *domain.ScheduleException) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unique {
		for _, row := range r.rows {
			if row.SpecialistID == exception.SpecialistID && row.ExceptionDate.Equal(exception.ExceptionDate) {
				return &pgconn.PgError{Code: "23505", ConstraintName: "schedule_exceptions_specialist_date_key"}
			}
		}
	}
	r.seq++
	exception.ID = fmt.Sprintf("exception-%d", r.seq)
	exception.CreatedAt = time.Unix(int64(r.seq), 0)
	r.rows = append(r.rows, *exception)
	return nil
}

func (r *memoryExceptionRepo) ListForDate(_ context.Context, tenantID, specialistID string, date time.Time) ([]domain.ScheduleException, error) {
	return r.ListRange(context.Background(), tenantID, specialistID, date, date)
}

func (r *memoryExceptionRepo) ListRange(_ context.Context, tenantID, specialistID string, from, to time.Time) ([]domain.ScheduleException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	var result []domain.ScheduleException
	for _, row := range r.rows {
		d := domain.DateOnly(row.ExceptionDate)
		if row.TenantID == tenantID && row.SpecialistID == specialistID && !d.Before(from) && !d.After(to) {
			result = append(result, row)
		}
	}
	return result, nil
}

func (r *memoryExceptionRepo) Delete(_ context.Context, tenantID, specialistID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.ID == id && row.TenantID == tenantID && row.SpecialistID == specialistID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type MockSpecialistRepo struct {
	mock.Mock
}

func (m *MockSpecialistRepo) Create(ctx context.Context, specialist *domain.Specialist) error {
	return m.Called(ctx, specialist).Error(0)
}

func (m *MockSpecialistRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Specialist, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Specialist), args.Error(1)
}

func (m *MockSpecialistRepo) List(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Specialist, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	return args.Get(0).([]domain.Specialist), args.Error(1)
}

type MockBranchRepo struct {
	mock.Mock
}

func (m *MockBranchRepo) Create(ctx context.Context, branch *domain.Branch) error {
	return m.Called(ctx, branch).Error(0)
}

func (m *MockBranchRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Branch, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Branch), args.Error(1)
}

func (m *MockBranchRepo) List(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Branch, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	return args.Get(0).([]domain.Branch), args.Error(1)
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := make([]events.EventType, len(d.published))
	for i, e := range d.published {
		result[i] = e.Type
	}
	return result
}

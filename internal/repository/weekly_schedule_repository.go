package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booknow-hub/internal/domain"
)

// WeeklyScheduleRepository stores recurring weekly entries keyed by (specialist, branch, day_of_week).
type WeeklyScheduleRepository interface {
	Upsert(ctx context.Context, entry *domain.WeeklyScheduleEntry) error
	// UpsertMany writes all entries in a single transaction.
	UpsertMany(ctx context.Context, entries []*domain.WeeklyScheduleEntry) error
	// GetActive returns the active entry for the key or pgx.ErrNoRows.
	GetActive(ctx context.Context, tenantID, specialistID, branchID string, day domain.Weekday) (*domain.WeeklyScheduleEntry, error)
	List(ctx context.Context, tenantID, specialistID string, branchID *string) ([]domain.WeeklyScheduleEntry, error)
	Deactivate(ctx context.Context, tenantID, specialistID, branchID string, day domain.Weekday) error
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type weeklyScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewWeeklyScheduleRepository constructs repository.
func NewWeeklyScheduleRepository(pool *pgxpool.Pool) WeeklyScheduleRepository {
	return &weeklyScheduleRepository{pool: pool}
}

const weeklyColumns = `id, tenant_id, specialist_id, branch_id, day_of_week, start_time, end_time,
        break_start, break_end, is_active, created_at, updated_at`

const upsertWeeklyQuery = `
        INSERT INTO weekly_schedules
            (tenant_id, specialist_id, branch_id, day_of_week, start_time, end_time, break_start, break_end, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (specialist_id, branch_id, day_of_week) DO UPDATE SET
            start_time = EXCLUDED.start_time,
            end_time = EXCLUDED.end_time,
            break_start = EXCLUDED.break_start,
            break_end = EXCLUDED.break_end,
            is_active = EXCLUDED.is_active,
            updated_at = NOW()
        RETURNING id, created_at, updated_at`

func (r *weeklyScheduleRepository) Upsert(ctx context.Context, entry *domain.WeeklyScheduleEntry) error {
	return upsertWeekly(ctx, r.pool, entry)
}

func (r *weeklyScheduleRepository) UpsertMany(ctx context.Context, entries []*domain.WeeklyScheduleEntry) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, entry := range entries {
			if err := upsertWeekly(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertWeekly(ctx context.Context, q rowQuerier, entry *domain.WeeklyScheduleEntry) error {
	return q.QueryRow(ctx, upsertWeeklyQuery,
		entry.TenantID,
		entry.SpecialistID,
		entry.BranchID,
		int16(entry.DayOfWeek),
		string(entry.StartTime),
		string(entry.EndTime),
		timeParam(entry.BreakStart),
		timeParam(entry.BreakEnd),
		entry.IsActive,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *weeklyScheduleRepository) GetActive(ctx context.Context, tenantID, specialistID, branchID string, day domain.Weekday) (*domain.WeeklyScheduleEntry, error) {
	query := `SELECT ` + weeklyColumns + `
        FROM weekly_schedules
        WHERE tenant_id=$1 AND specialist_id=$2 AND branch_id=$3 AND day_of_week=$4 AND is_active = TRUE`
	return scanWeekly(r.pool.QueryRow(ctx, query, tenantID, specialistID, branchID, int16(day)))
}

func (r *weeklyScheduleRepository) List(ctx context.Context, tenantID, specialistID string, branchID *string) ([]domain.WeeklyScheduleEntry, error) {
	query := `SELECT ` + weeklyColumns + `
        FROM weekly_schedules
        WHERE tenant_id=$1 AND specialist_id=$2`
	args := []any{tenantID, specialistID}
	if branchID != nil {
		query += " AND branch_id=$3"
		args = append(args, *branchID)
	}
	query += " ORDER BY branch_id, day_of_week"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WeeklyScheduleEntry
	for rows.Next() {
		entry, err := scanWeekly(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func (r *weeklyScheduleRepository) Deactivate(ctx context.Context, tenantID, specialistID, branchID string, day domain.Weekday) error {
	const query = `
        UPDATE weekly_schedules SET is_active = FALSE, updated_at = NOW()
        WHERE tenant_id=$1 AND specialist_id=$2 AND branch_id=$3 AND day_of_week=$4`
	cmd, err := r.pool.Exec(ctx, query, tenantID, specialistID, branchID, int16(day))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanWeekly(row pgx.Row) (*domain.WeeklyScheduleEntry, error) {
	var (
		entry                domain.WeeklyScheduleEntry
		day                  int16
		start, end           string
		breakStart, breakEnd *string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.SpecialistID,
		&entry.BranchID,
		&day,
		&start,
		&end,
		&breakStart,
		&breakEnd,
		&entry.IsActive,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	entry.DayOfWeek = domain.Weekday(day)
	entry.StartTime = domain.TimeOfDay(start)
	entry.EndTime = domain.TimeOfDay(end)
	entry.BreakStart = timeValue(breakStart)
	entry.BreakEnd = timeValue(breakEnd)
	return &entry, nil
}

func timeParam(t *domain.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func timeValue(s *string) *domain.TimeOfDay {
	if s == nil {
		return nil
	}
	t := domain.TimeOfDay(*s)
	return &t
}

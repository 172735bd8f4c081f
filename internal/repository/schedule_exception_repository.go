package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booknow-hub/internal/domain"
)

// ScheduleExceptionRepository stores one-off date overrides. (specialist_id, exception_date) is unique.
type ScheduleExceptionRepository interface {
	Create(ctx context.Context, exception *domain.ScheduleException) error
	// ListForDate returns exceptions for one specialist and date ordered by creation.
	ListForDate(ctx context.Context, tenantID, specialistID string, date time.Time) ([]domain.ScheduleException, error)
	ListRange(ctx context.Context, tenantID, specialistID string, from, to time.Time) ([]domain.ScheduleException, error)
	Delete(ctx context.Context, tenantID, specialistID, id string) error
}

type scheduleExceptionRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleExceptionRepository constructs repository.
func NewScheduleExceptionRepository(pool *pgxpool.Pool) ScheduleExceptionRepository {
	return &scheduleExceptionRepository{pool: pool}
}

const exceptionColumns = `id, tenant_id, specialist_id, exception_date, exception_type, is_day_off,
        start_time, end_time, reason, created_at`

func (r *scheduleExceptionRepository) Create(ctx context.Context, exception *domain.ScheduleException) error {
	const query = `
        INSERT INTO schedule_exceptions
            (tenant_id, specialist_id, exception_date, exception_type, is_day_off, start_time, end_time, reason)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		exception.TenantID,
		exception.SpecialistID,
		domain.DateOnly(exception.ExceptionDate),
		string(exception.ExceptionType),
		exception.IsDayOff,
		timeParam(exception.StartTime),
		timeParam(exception.EndTime),
		exception.Reason,
	).Scan(&exception.ID, &exception.CreatedAt)
}

func (r *scheduleExceptionRepository) ListForDate(ctx context.Context, tenantID, specialistID string, date time.Time) ([]domain.ScheduleException, error) {
	query := `SELECT ` + exceptionColumns + `
        FROM schedule_exceptions
        WHERE tenant_id=$1 AND specialist_id=$2 AND exception_date=$3
        ORDER BY created_at, id`
	return r.query(ctx, query, tenantID, specialistID, domain.DateOnly(date))
}

func (r *scheduleExceptionRepository) ListRange(ctx context.Context, tenantID, specialistID string, from, to time.Time) ([]domain.ScheduleException, error) {
	query := `SELECT ` + exceptionColumns + `
        FROM schedule_exceptions
        WHERE tenant_id=$1 AND specialist_id=$2 AND exception_date BETWEEN $3 AND $4
        ORDER BY exception_date, created_at, id`
	return r.query(ctx, query, tenantID, specialistID, domain.DateOnly(from), domain.DateOnly(to))
}

func (r *scheduleExceptionRepository) Delete(ctx context.Context, tenantID, specialistID, id string) error {
	const query = `DELETE FROM schedule_exceptions WHERE tenant_id=$1 AND specialist_id=$2 AND id=$3`
	cmd, err := r.pool.Exec(ctx, query, tenantID, specialistID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *scheduleExceptionRepository) query(ctx context.Context, query string, args ...any) ([]domain.ScheduleException, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ScheduleException
	for rows.Next() {
		var (
			ex         domain.ScheduleException
			kind       string
			start, end *string
		)
		if err := rows.Scan(
			&ex.ID,
			&ex.TenantID,
			&ex.SpecialistID,
			&ex.ExceptionDate,
			&kind,
			&ex.IsDayOff,
			&start,
			&end,
			&ex.Reason,
			&ex.CreatedAt,
		); err != nil {
			return nil, err
		}
		ex.ExceptionType = domain.ExceptionType(kind)
		ex.StartTime = timeValue(start)
		ex.EndTime = timeValue(end)
		result = append(result, ex)
	}
	return result, rows.Err()
}

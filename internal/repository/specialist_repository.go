package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booknow-hub/internal/domain"
)

// SpecialistRepository manages bookable staff.
type SpecialistRepository interface {
	Create(ctx context.Context, specialist *domain.Specialist) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Specialist, error)
	List(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Specialist, error)
}

type specialistRepository struct {
	pool *pgxpool.Pool
}

// NewSpecialistRepository constructs repository.
func NewSpecialistRepository(pool *pgxpool.Pool) SpecialistRepository {
	return &specialistRepository{pool: pool}
}

func (r *specialistRepository) Create(ctx context.Context, specialist *domain.Specialist) error {
	const query = `
        INSERT INTO specialists (tenant_id, full_name, email, phone, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		specialist.TenantID,
		specialist.FullName,
		specialist.Email,
		specialist.Phone,
		specialist.IsActive,
	).Scan(&specialist.ID, &specialist.CreatedAt, &specialist.UpdatedAt)
}

func (r *specialistRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Specialist, error) {
	const query = `
        SELECT id, tenant_id, full_name, email, phone, is_active, created_at, updated_at
        FROM specialists WHERE tenant_id=$1 AND id=$2`
	return scanSpecialist(r.pool.QueryRow(ctx, query, tenantID, id))
}

func (r *specialistRepository) List(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Specialist, error) {
	query := `
        SELECT id, tenant_id, full_name, email, phone, is_active, created_at, updated_at
        FROM specialists WHERE tenant_id=$1`
	if !includeInactive {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY full_name ASC"

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Specialist
	for rows.Next() {
		specialist, err := scanSpecialist(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *specialist)
	}
	return result, rows.Err()
}

func scanSpecialist(row pgx.Row) (*domain.Specialist, error) {
	var s domain.Specialist
	if err := row.Scan(&s.ID, &s.TenantID, &s.FullName, &s.Email, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booknow-hub/internal/domain"
)

// TenantRepository manages persistence for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Tenant, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository constructs repository.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	const query = `
        INSERT INTO tenants (slug, name, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	tenant.Slug = strings.ToLower(strings.TrimSpace(tenant.Slug))
	return r.pool.QueryRow(ctx, query, tenant.Slug, tenant.Name, tenant.IsActive).
		Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	const query = `
        SELECT id, slug, name, is_active, created_at, updated_at
        FROM tenants WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	const query = `
        SELECT id, slug, name, is_active, created_at, updated_at
        FROM tenants WHERE slug=$1`
	return r.scanOne(ctx, query, strings.ToLower(strings.TrimSpace(slug)))
}

func (r *tenantRepository) List(ctx context.Context, includeInactive bool) ([]domain.Tenant, error) {
	query := `
        SELECT id, slug, name, is_active, created_at, updated_at
        FROM tenants`
	if !includeInactive {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tenant
	for rows.Next() {
		var tenant domain.Tenant
		if err := rows.Scan(&tenant.ID, &tenant.Slug, &tenant.Name, &tenant.IsActive, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, tenant)
	}
	return result, rows.Err()
}

func (r *tenantRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE tenants SET is_active=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tenantRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&tenant.ID,
		&tenant.Slug,
		&tenant.Name,
		&tenant.IsActive,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tenant, nil
}

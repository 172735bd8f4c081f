package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booknow-hub/internal/domain"
)

// BranchRepository manages tenant branches.
type BranchRepository interface {
	Create(ctx context.Context, branch *domain.Branch) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Branch, error)
	List(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Branch, error)
}

type branchRepository struct {
	pool *pgxpool.Pool
}

// NewBranchRepository constructs repository.
func NewBranchRepository(pool *pgxpool.Pool) BranchRepository {
	return &branchRepository{pool: pool}
}

func (r *branchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	const query = `
        INSERT INTO branches (tenant_id, name, address, phone, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		branch.TenantID,
		branch.Name,
		branch.Address,
		branch.Phone,
		branch.IsActive,
	).Scan(&branch.ID, &branch.CreatedAt, &branch.UpdatedAt)
}

func (r *branchRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Branch, error) {
	const query = `
        SELECT id, tenant_id, name, address, phone, is_active, created_at, updated_at
        FROM branches WHERE tenant_id=$1 AND id=$2`
	return scanBranch(r.pool.QueryRow(ctx, query, tenantID, id))
}

func (r *branchRepository) List(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Branch, error) {
	query := `
        SELECT id, tenant_id, name, address, phone, is_active, created_at, updated_at
        FROM branches WHERE tenant_id=$1`
	if !includeInactive {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *branch)
	}
	return result, rows.Err()
}

func scanBranch(row pgx.Row) (*domain.Branch, error) {
	var branch domain.Branch
	if err := row.Scan(
		&branch.ID,
		&branch.TenantID,
		&branch.Name,
		&branch.Address,
		&branch.Phone,
		&branch.IsActive,
		&branch.CreatedAt,
		&branch.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &branch, nil
}

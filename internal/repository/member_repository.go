package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booknow-hub/internal/domain"
)

// TenantMemberRepository handles persistence for tenant staff users.
type TenantMemberRepository interface {
	Create(ctx context.Context, member *domain.TenantMember) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.TenantMember, error)
	// GetActive returns the active membership of userID in tenantID or pgx.ErrNoRows.
	GetActive(ctx context.Context, userID, tenantID string) (*domain.TenantMember, error)
	List(ctx context.Context, filter MemberFilter) ([]domain.TenantMember, error)
	Update(ctx context.Context, member *domain.TenantMember) error
}

// MemberFilter defines query params for member listing.
type MemberFilter struct {
	TenantID string
	Role     *domain.MemberRole
	Active   *bool
	Limit    int
	Offset   int
}

type tenantMemberRepository struct {
	pool *pgxpool.Pool
}

// NewTenantMemberRepository instantiates the repository.
func NewTenantMemberRepository(pool *pgxpool.Pool) TenantMemberRepository {
	return &tenantMemberRepository{pool: pool}
}

const memberColumns = `id, tenant_id, user_id, email, full_name, role, is_active, created_at, updated_at`

func (r *tenantMemberRepository) Create(ctx context.Context, member *domain.TenantMember) error {
	const query = `
        INSERT INTO tenant_members (tenant_id, user_id, email, full_name, role, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		member.TenantID,
		member.UserID,
		normalizeEmail(member.Email),
		member.FullName,
		string(member.Role),
		member.IsActive,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

func (r *tenantMemberRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.TenantMember, error) {
	query := `SELECT ` + memberColumns + ` FROM tenant_members WHERE tenant_id=$1 AND id=$2`
	return scanMember(r.pool.QueryRow(ctx, query, tenantID, id))
}

func (r *tenantMemberRepository) GetActive(ctx context.Context, userID, tenantID string) (*domain.TenantMember, error) {
	query := `SELECT ` + memberColumns + `
        FROM tenant_members
        WHERE user_id=$1 AND tenant_id=$2 AND is_active = TRUE`
	return scanMember(r.pool.QueryRow(ctx, query, userID, tenantID))
}

func (r *tenantMemberRepository) Update(ctx context.Context, member *domain.TenantMember) error {
	const query = `
        UPDATE tenant_members
        SET full_name=$1, role=$2, is_active=$3, updated_at=NOW()
        WHERE tenant_id=$4 AND id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		member.FullName,
		string(member.Role),
		member.IsActive,
		member.TenantID,
		member.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tenantMemberRepository) List(ctx context.Context, filter MemberFilter) ([]domain.TenantMember, error) {
	query := `SELECT ` + memberColumns + ` FROM tenant_members`
	args := []any{filter.TenantID}
	clauses := []string{"tenant_id=$1"}

	if filter.Role != nil {
		args = append(args, string(*filter.Role))
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	query += " WHERE " + strings.Join(clauses, " AND ")
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TenantMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *member)
	}
	return result, rows.Err()
}

func scanMember(row pgx.Row) (*domain.TenantMember, error) {
	var member domain.TenantMember
	if err := row.Scan(
		&member.ID,
		&member.TenantID,
		&member.UserID,
		&member.Email,
		&member.FullName,
		&member.Role,
		&member.IsActive,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

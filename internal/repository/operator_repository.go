package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booknow-hub/internal/domain"
)

// GlobalOperatorRepository handles persistence for platform operators.
type GlobalOperatorRepository interface {
	Create(ctx context.Context, operator *domain.GlobalOperator) error
	GetByUserID(ctx context.Context, userID string) (*domain.GlobalOperator, error)
	List(ctx context.Context) ([]domain.GlobalOperator, error)
}

type globalOperatorRepository struct {
	pool *pgxpool.Pool
}

// NewGlobalOperatorRepository instantiates the repository.
func NewGlobalOperatorRepository(pool *pgxpool.Pool) GlobalOperatorRepository {
	return &globalOperatorRepository{pool: pool}
}

const operatorColumns = `id, user_id, email, full_name, role, is_active, created_at, updated_at`

func (r *globalOperatorRepository) Create(ctx context.Context, operator *domain.GlobalOperator) error {
	const query = `
        INSERT INTO global_operators (user_id, email, full_name, role, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		operator.UserID,
		normalizeEmail(operator.Email),
		operator.FullName,
		string(operator.Role),
		operator.IsActive,
	).Scan(&operator.ID, &operator.CreatedAt, &operator.UpdatedAt)
}

// GetByUserID returns the operator row regardless of is_active; callers decide what inactive means.
func (r *globalOperatorRepository) GetByUserID(ctx context.Context, userID string) (*domain.GlobalOperator, error) {
	query := `SELECT ` + operatorColumns + ` FROM global_operators WHERE user_id=$1`

	var op domain.GlobalOperator
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&op.ID, &op.UserID, &op.Email, &op.FullName, &op.Role, &op.IsActive, &op.CreatedAt, &op.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *globalOperatorRepository) List(ctx context.Context) ([]domain.GlobalOperator, error) {
	query := `SELECT ` + operatorColumns + ` FROM global_operators ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.GlobalOperator
	for rows.Next() {
		var op domain.GlobalOperator
		if err := rows.Scan(
			&op.ID, &op.UserID, &op.Email, &op.FullName, &op.Role, &op.IsActive, &op.CreatedAt, &op.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, op)
	}
	return result, rows.Err()
}

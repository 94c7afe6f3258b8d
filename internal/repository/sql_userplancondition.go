package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
)

// SQLUserPlanConditionRepo implements UserPlanConditionRepo.
type SQLUserPlanConditionRepo struct {
	db db.DBTX
}

func NewSQLUserPlanConditionRepo(conn db.DBTX) *SQLUserPlanConditionRepo {
	return &SQLUserPlanConditionRepo{db: conn}
}

const userPlanConditionColumns = `upc.id, upc.user_plan_id, upc.plan_condition_id, upc.user_id, upc.status, upc.created_at, upc.updated_at`

func (r *SQLUserPlanConditionRepo) Create(ctx context.Context, upc *domain.UserPlanCondition) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_plan_conditions (id, user_plan_id, plan_condition_id, user_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		upc.ID, upc.UserPlanID, upc.PlanConditionID, upc.UserID, string(upc.Status),
		formatTime(upc.CreatedAt), formatTime(upc.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting user plan condition: %w", err)
	}
	return nil
}

func (r *SQLUserPlanConditionRepo) GetByID(ctx context.Context, id string) (*domain.UserPlanCondition, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userPlanConditionColumns+` FROM user_plan_conditions upc WHERE upc.id = ?`, id)
	upc, err := scanUserPlanCondition(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user plan condition %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return upc, nil
}

// ListByUserPlan returns the conditions in the plan's condition order.
func (r *SQLUserPlanConditionRepo) ListByUserPlan(ctx context.Context, userPlanID string) ([]*domain.UserPlanCondition, error) {
	return r.list(ctx, `SELECT `+userPlanConditionColumns+`
		FROM user_plan_conditions upc
		JOIN plan_conditions pc ON pc.id = upc.plan_condition_id
		WHERE upc.user_plan_id = ?
		ORDER BY pc.order_index, pc.created_at, upc.id`, userPlanID)
}

func (r *SQLUserPlanConditionRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.UserPlanCondition, error) {
	return r.list(ctx, `SELECT `+userPlanConditionColumns+`
		FROM user_plan_conditions upc
		JOIN plan_conditions pc ON pc.id = upc.plan_condition_id
		WHERE pc.plan_id = ?
		ORDER BY upc.user_plan_id, pc.order_index, pc.created_at, upc.id`, planID)
}

func (r *SQLUserPlanConditionRepo) list(ctx context.Context, query, arg string) ([]*domain.UserPlanCondition, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing user plan conditions: %w", err)
	}
	defer rows.Close()

	var out []*domain.UserPlanCondition
	for rows.Next() {
		upc, err := scanUserPlanCondition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, upc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user plan conditions: %w", err)
	}
	return out, nil
}

func (r *SQLUserPlanConditionRepo) UpdateStatus(ctx context.Context, upc *domain.UserPlanCondition) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_plan_conditions SET status = ?, updated_at = ? WHERE id = ?`,
		string(upc.Status), formatTime(upc.UpdatedAt), upc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user plan condition status: %w", err)
	}
	return requireAffected(res, "user plan condition", upc.ID)
}

func (r *SQLUserPlanConditionRepo) DeleteByUserPlan(ctx context.Context, userPlanID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_plan_conditions WHERE user_plan_id = ?`, userPlanID); err != nil {
		return fmt.Errorf("deleting user plan conditions: %w", err)
	}
	return nil
}

func scanUserPlanCondition(s rowScanner) (*domain.UserPlanCondition, error) {
	var upc domain.UserPlanCondition
	var status, createdAt, updatedAt string
	if err := s.Scan(&upc.ID, &upc.UserPlanID, &upc.PlanConditionID, &upc.UserID, &status,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user plan condition: %w", err)
	}
	upc.Status = domain.ConditionStatus(status)
	if err := parseCreatedUpdated(createdAt, updatedAt, &upc.CreatedAt, &upc.UpdatedAt); err != nil {
		return nil, err
	}
	return &upc, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
)

// SQLUserPlanRepo implements UserPlanRepo.
type SQLUserPlanRepo struct {
	db db.DBTX
}

func NewSQLUserPlanRepo(conn db.DBTX) *SQLUserPlanRepo {
	return &SQLUserPlanRepo{db: conn}
}

const userPlanColumns = `id, plan_id, user_id, status, created_at, updated_at`

func (r *SQLUserPlanRepo) Create(ctx context.Context, up *domain.UserPlan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_plans (`+userPlanColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		up.ID, up.PlanID, up.UserID, string(up.Status),
		formatTime(up.CreatedAt), formatTime(up.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting user plan: %w", err)
	}
	return nil
}

func (r *SQLUserPlanRepo) GetByID(ctx context.Context, id string) (*domain.UserPlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userPlanColumns+` FROM user_plans WHERE id = ?`, id)
	up, err := scanUserPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user plan %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return up, nil
}

func (r *SQLUserPlanRepo) GetByPlanAndUser(ctx context.Context, planID, userID string) (*domain.UserPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userPlanColumns+` FROM user_plans WHERE plan_id = ? AND user_id = ?`,
		planID, userID,
	)
	up, err := scanUserPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user plan for plan %s and user %s: %w", planID, userID, ErrNotFound)
		}
		return nil, err
	}
	return up, nil
}

func (r *SQLUserPlanRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.UserPlan, error) {
	return r.list(ctx, `SELECT `+userPlanColumns+` FROM user_plans WHERE plan_id = ? ORDER BY created_at, id`, planID)
}

func (r *SQLUserPlanRepo) ListByUser(ctx context.Context, userID string) ([]*domain.UserPlan, error) {
	return r.list(ctx, `SELECT `+userPlanColumns+` FROM user_plans WHERE user_id = ? ORDER BY created_at, id`, userID)
}

func (r *SQLUserPlanRepo) list(ctx context.Context, query string, arg string) ([]*domain.UserPlan, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing user plans: %w", err)
	}
	defer rows.Close()

	var ups []*domain.UserPlan
	for rows.Next() {
		up, err := scanUserPlan(rows)
		if err != nil {
			return nil, err
		}
		ups = append(ups, up)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user plans: %w", err)
	}
	return ups, nil
}

func (r *SQLUserPlanRepo) UpdateStatus(ctx context.Context, up *domain.UserPlan) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_plans SET status = ?, updated_at = ? WHERE id = ?`,
		string(up.Status), formatTime(up.UpdatedAt), up.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user plan status: %w", err)
	}
	return requireAffected(res, "user plan", up.ID)
}

func (r *SQLUserPlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user plan: %w", err)
	}
	return requireAffected(res, "user plan", id)
}

func scanUserPlan(s rowScanner) (*domain.UserPlan, error) {
	var up domain.UserPlan
	var status, createdAt, updatedAt string
	if err := s.Scan(&up.ID, &up.PlanID, &up.UserID, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user plan: %w", err)
	}
	up.Status = domain.UserPlanStatus(status)
	if err := parseCreatedUpdated(createdAt, updatedAt, &up.CreatedAt, &up.UpdatedAt); err != nil {
		return nil, err
	}
	return &up, nil
}

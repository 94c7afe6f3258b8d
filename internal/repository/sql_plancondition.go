package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
)

// SQLPlanConditionRepo implements PlanConditionRepo.
type SQLPlanConditionRepo struct {
	db db.DBTX
}

func NewSQLPlanConditionRepo(conn db.DBTX) *SQLPlanConditionRepo {
	return &SQLPlanConditionRepo{db: conn}
}

const planConditionColumns = `id, plan_id, name, overview, est_time, order_index, created_at, updated_at`

func (r *SQLPlanConditionRepo) Create(ctx context.Context, c *domain.PlanCondition) error {
	query := `INSERT INTO plan_conditions (` + planConditionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.PlanID, c.Name, c.Overview, c.EstTime, c.OrderIndex,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan condition: %w", err)
	}
	return nil
}

func (r *SQLPlanConditionRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.PlanCondition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planConditionColumns+` FROM plan_conditions WHERE plan_id = ? ORDER BY order_index, created_at, id`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing plan conditions: %w", err)
	}
	defer rows.Close()

	var conds []*domain.PlanCondition
	for rows.Next() {
		var c domain.PlanCondition
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.PlanID, &c.Name, &c.Overview, &c.EstTime, &c.OrderIndex,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan condition: %w", err)
		}
		if err := parseCreatedUpdated(createdAt, updatedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conds = append(conds, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan conditions: %w", err)
	}
	return conds, nil
}

func (r *SQLPlanConditionRepo) Update(ctx context.Context, c *domain.PlanCondition) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plan_conditions SET name = ?, overview = ?, est_time = ?, order_index = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Overview, c.EstTime, c.OrderIndex, formatTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan condition: %w", err)
	}
	return requireAffected(res, "plan condition", c.ID)
}

func (r *SQLPlanConditionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plan_conditions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan condition: %w", err)
	}
	return requireAffected(res, "plan condition", id)
}

func (r *SQLPlanConditionRepo) DeleteByPlan(ctx context.Context, planID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_conditions WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("deleting plan conditions: %w", err)
	}
	return nil
}

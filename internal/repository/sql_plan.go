package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
)

// SQLPlanRepo implements PlanRepo.
type SQLPlanRepo struct {
	db db.DBTX
}

func NewSQLPlanRepo(conn db.DBTX) *SQLPlanRepo {
	return &SQLPlanRepo{db: conn}
}

const planColumns = `id, tenant_id, name, description, start_date, complete_date,
	department_id, division_id, group_id, status, created_by, created_at, updated_at`

func (r *SQLPlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	status := p.Status
	if status == "" {
		status = domain.PlanNoStart
	}
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.TenantID, p.Name, p.Description,
		p.StartDate.Format(dateLayout), p.CompleteDate.Format(dateLayout),
		p.DepartmentID, p.DivisionID, p.GroupID, string(status), p.CreatedBy,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	p.Status = status
	return nil
}

func (r *SQLPlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLPlanRepo) List(ctx context.Context, filter PlanFilter) ([]*domain.Plan, error) {
	var where []string
	var args []any
	if filter.TenantID != "" {
		where = append(where, "tenant_id = ?")
		args = append(args, filter.TenantID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.DepartmentID != "" {
		where = append(where, "department_id = ?")
		args = append(args, filter.DepartmentID)
	}

	query := `SELECT ` + planColumns + ` FROM plans`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date, name, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *SQLPlanRepo) Update(ctx context.Context, p *domain.Plan) error {
	query := `UPDATE plans SET name = ?, description = ?, start_date = ?, complete_date = ?,
		department_id = ?, division_id = ?, group_id = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description,
		p.StartDate.Format(dateLayout), p.CompleteDate.Format(dateLayout),
		p.DepartmentID, p.DivisionID, p.GroupID, string(p.Status),
		formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	return requireAffected(res, "plan", p.ID)
}

func (r *SQLPlanRepo) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plans SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(now), id,
	)
	if err != nil {
		return fmt.Errorf("updating plan status: %w", err)
	}
	return requireAffected(res, "plan", id)
}

func (r *SQLPlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return requireAffected(res, "plan", id)
}

func scanPlan(s rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var status, startDate, completeDate, createdAt, updatedAt string
	err := s.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &startDate, &completeDate,
		&p.DepartmentID, &p.DivisionID, &p.GroupID, &status, &p.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	p.Status = domain.PlanStatus(status)
	if p.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if p.CompleteDate, err = time.Parse(dateLayout, completeDate); err != nil {
		return nil, fmt.Errorf("parsing complete_date: %w", err)
	}
	if err := parseCreatedUpdated(createdAt, updatedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
)

// SQLUserRepo implements UserRepo.
type SQLUserRepo struct {
	db db.DBTX
}

// NewSQLUserRepo creates a new SQLUserRepo.
func NewSQLUserRepo(conn db.DBTX) *SQLUserRepo {
	return &SQLUserRepo{db: conn}
}

const userColumns = `id, tenant_id, name, email, role, department_id, division_id, group_id, created_at, updated_at`

func (r *SQLUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.TenantID, u.Name, u.Email, string(u.Role),
		u.DepartmentID, u.DivisionID, u.GroupID,
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLUserRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE tenant_id = ? ORDER BY name, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

func (r *SQLUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name = ?, email = ?, role = ?, department_id = ?, division_id = ?, group_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		u.Name, u.Email, string(u.Role), u.DepartmentID, u.DivisionID, u.GroupID,
		formatTime(u.UpdatedAt), u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return requireAffected(res, "user", u.ID)
}

func scanUser(s rowScanner) (*domain.User, error) {
	var u domain.User
	var role, createdAt, updatedAt string
	err := s.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &role,
		&u.DepartmentID, &u.DivisionID, &u.GroupID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.Role = domain.Role(role)
	if err := parseCreatedUpdated(createdAt, updatedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// requireAffected turns an update or delete that matched nothing into ErrNotFound.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}

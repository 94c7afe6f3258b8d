package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
)

// SQLNotificationRepo implements NotificationRepo.
type SQLNotificationRepo struct {
	db db.DBTX
}

func NewSQLNotificationRepo(conn db.DBTX) *SQLNotificationRepo {
	return &SQLNotificationRepo{db: conn}
}

const notificationColumns = `id, tenant_id, recipient_id, kind, plan_id, message, created_at, read_at`

func (r *SQLNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.TenantID, n.RecipientID, string(n.Kind), n.PlanID, n.Message,
		formatTime(n.CreatedAt), nullableTimeToString(n.ReadAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (r *SQLNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

// ListByRecipient returns newest first.
func (r *SQLNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = ?`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return out, nil
}

// MarkRead sets read_at once; marking an already read notification keeps
// the original timestamp.
func (r *SQLNotificationRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, ?) WHERE id = ?`,
		formatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return requireAffected(res, "notification", id)
}

func scanNotification(s rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var kind, createdAt string
	var readAt sql.NullString
	if err := s.Scan(&n.ID, &n.TenantID, &n.RecipientID, &kind, &n.PlanID, &n.Message,
		&createdAt, &readAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning notification: %w", err)
	}
	n.Kind = domain.NotificationKind(kind)
	var err error
	if n.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	n.ReadAt = parseNullableTime(readAt, time.RFC3339)
	return &n, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
)

// SQLActivityRepo implements ActivityRepo over the user plan and condition
// activity tables.
type SQLActivityRepo struct {
	db db.DBTX
}

func NewSQLActivityRepo(conn db.DBTX) *SQLActivityRepo {
	return &SQLActivityRepo{db: conn}
}

type activityTable struct {
	name      string
	fk        string
	hasFile   bool
	entityTag string
}

func tableFor(target domain.ActivityTarget) (activityTable, error) {
	switch target {
	case domain.TargetUserPlan:
		return activityTable{name: "user_plan_activities", fk: "user_plan_id", entityTag: "user plan activity"}, nil
	case domain.TargetCondition:
		return activityTable{name: "user_plan_condition_activities", fk: "user_plan_condition_id", hasFile: true, entityTag: "condition activity"}, nil
	default:
		return activityTable{}, fmt.Errorf("unknown activity target %q", target)
	}
}

func (t activityTable) columns() string {
	cols := "id, " + t.fk + ", seq, type, comment, revokes_id, user_id, created_at"
	if t.hasFile {
		cols += ", file_url"
	} else {
		cols += ", ''"
	}
	return cols
}

// Append assigns the next sequence number for the target and inserts a.
// Callers run it inside a transaction; UNIQUE(target, seq) rejects a
// concurrent writer that raced for the same number.
func (r *SQLActivityRepo) Append(ctx context.Context, a *domain.Activity) error {
	t, err := tableFor(a.Target)
	if err != nil {
		return err
	}

	var seq int
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM `+t.name+` WHERE `+t.fk+` = ?`, a.TargetID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("allocating activity seq: %w", err)
	}

	if t.hasFile {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO `+t.name+` (id, `+t.fk+`, seq, type, comment, revokes_id, user_id, created_at, file_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.TargetID, seq, string(a.Type), a.Comment, nullableString(a.RevokesID), a.ActorID,
			formatTime(a.CreatedAt), a.FileURL,
		)
	} else {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO `+t.name+` (id, `+t.fk+`, seq, type, comment, revokes_id, user_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.TargetID, seq, string(a.Type), a.Comment, nullableString(a.RevokesID), a.ActorID,
			formatTime(a.CreatedAt),
		)
	}
	if err != nil {
		return fmt.Errorf("inserting %s: %w", t.entityTag, err)
	}
	a.Seq = seq
	return nil
}

func (r *SQLActivityRepo) GetByID(ctx context.Context, target domain.ActivityTarget, id string) (*domain.Activity, error) {
	t, err := tableFor(target)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+t.columns()+` FROM `+t.name+` WHERE id = ?`, id)
	a, err := scanActivity(row, target)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", t.entityTag, id, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

// ListByTarget returns the target's log in sequence order with revocations
// resolved onto the entries they cancel.
func (r *SQLActivityRepo) ListByTarget(ctx context.Context, target domain.ActivityTarget, targetID string) ([]*domain.Activity, error) {
	t, err := tableFor(target)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+t.columns()+` FROM `+t.name+` WHERE `+t.fk+` = ? ORDER BY seq`, targetID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var acts []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows, target)
		if err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	domain.ResolveRevocations(acts)
	return acts, nil
}

func scanActivity(s rowScanner, target domain.ActivityTarget) (*domain.Activity, error) {
	a := domain.Activity{Target: target}
	var typ, createdAt string
	var revokesID sql.NullString
	if err := s.Scan(&a.ID, &a.TargetID, &a.Seq, &typ, &a.Comment, &revokesID, &a.ActorID,
		&createdAt, &a.FileURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}
	a.Type = domain.ActivityType(typ)
	a.RevokesID = revokesID.String
	var err error
	if a.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}

package db

import (
	"context"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is re-applied on each open.
func Migrate(d *DB) error {
	ctx := context.Background()
	conn := d.Conn()
	for i, stmt := range migrations {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") || strings.Contains(msg, "already exists")
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		tenant_id     TEXT NOT NULL,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL
		              CHECK(role IN ('ADMIN','MANAGER','LEADER','MEMBER')),
		department_id TEXT NOT NULL DEFAULT '',
		division_id   TEXT NOT NULL DEFAULT '',
		group_id      TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_tenant ON users(tenant_id)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id            TEXT PRIMARY KEY,
		tenant_id     TEXT NOT NULL,
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		start_date    TEXT NOT NULL,
		complete_date TEXT NOT NULL,
		department_id TEXT NOT NULL DEFAULT '',
		division_id   TEXT NOT NULL DEFAULT '',
		group_id      TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'NO_START'
		              CHECK(status IN ('NO_START','IN_PROGRESS','COMPLETED')),
		created_by    TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_tenant ON plans(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status)`,

	`CREATE TABLE IF NOT EXISTS plan_conditions (
		id          TEXT PRIMARY KEY,
		plan_id     TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		overview    TEXT NOT NULL DEFAULT '',
		est_time    INTEGER NOT NULL DEFAULT 0 CHECK(est_time >= 0),
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_conditions_plan ON plan_conditions(plan_id)`,

	`CREATE TABLE IF NOT EXISTS user_plans (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status     TEXT NOT NULL DEFAULT 'IN_PROGRESS'
		           CHECK(status IN ('IN_PROGRESS','PENDING_APPROVAL','COMPLETED')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (plan_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_plans_user ON user_plans(user_id)`,

	`CREATE TABLE IF NOT EXISTS user_plan_conditions (
		id                TEXT PRIMARY KEY,
		user_plan_id      TEXT NOT NULL REFERENCES user_plans(id) ON DELETE CASCADE,
		plan_condition_id TEXT NOT NULL REFERENCES plan_conditions(id) ON DELETE CASCADE,
		user_id           TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'IN_COMPLETE'
		                  CHECK(status IN ('IN_COMPLETE','PENDING_APPROVAL','COMPLETED')),
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL,
		UNIQUE (user_plan_id, plan_condition_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_plan_conditions_condition ON user_plan_conditions(plan_condition_id)`,

	`CREATE TABLE IF NOT EXISTS user_plan_activities (
		id           TEXT PRIMARY KEY,
		user_plan_id TEXT NOT NULL REFERENCES user_plans(id) ON DELETE CASCADE,
		seq          INTEGER NOT NULL,
		type         TEXT NOT NULL
		             CHECK(type IN ('ACCEPTED','SUBMITTED','REJECTED','REVOKED')),
		comment      TEXT NOT NULL DEFAULT '',
		revokes_id   TEXT,
		user_id      TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		UNIQUE (user_plan_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS user_plan_condition_activities (
		id                     TEXT PRIMARY KEY,
		user_plan_condition_id TEXT NOT NULL REFERENCES user_plan_conditions(id) ON DELETE CASCADE,
		seq                    INTEGER NOT NULL,
		type                   TEXT NOT NULL
		                       CHECK(type IN ('ACCEPTED','SUBMITTED','REJECTED','REVOKED')),
		comment                TEXT NOT NULL DEFAULT '',
		file_url               TEXT NOT NULL DEFAULT '',
		revokes_id             TEXT,
		user_id                TEXT NOT NULL,
		created_at             TEXT NOT NULL,
		UNIQUE (user_plan_condition_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id           TEXT PRIMARY KEY,
		tenant_id    TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		kind         TEXT NOT NULL,
		plan_id      TEXT NOT NULL DEFAULT '',
		message      TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		read_at      TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id)`,
}

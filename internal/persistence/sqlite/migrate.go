package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one ordered schema step. Versions must be unique and ascending;
// applied versions are recorded in schema_migrations and never re-run.
type migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "create employees",
		SQL: `
			CREATE TABLE IF NOT EXISTS employees (
				id TEXT PRIMARY KEY,
				display_name TEXT NOT NULL DEFAULT '',
				active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
	},
	{
		Version: 2,
		Name:    "create working_hours",
		SQL: `
			CREATE TABLE IF NOT EXISTS working_hours (
				employee_id TEXT NOT NULL REFERENCES employees(id),
				weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
				start_minute INTEGER NOT NULL,
				end_minute INTEGER NOT NULL,
				working INTEGER NOT NULL DEFAULT 0,
				CHECK (working = 0 OR start_minute < end_minute),
				PRIMARY KEY (employee_id, weekday)
			)`,
	},
	{
		Version: 3,
		Name:    "create unavailability_periods",
		SQL: `
			CREATE TABLE IF NOT EXISTS unavailability_periods (
				id TEXT PRIMARY KEY,
				employee_id TEXT NOT NULL REFERENCES employees(id),
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				type TEXT NOT NULL CHECK (type IN ('vacation', 'sick_leave', 'day_off')),
				reason TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				CHECK (start_time < end_time)
			)`,
	},
	{
		Version: 4,
		Name:    "create bookings",
		SQL: `
			CREATE TABLE IF NOT EXISTS bookings (
				id TEXT PRIMARY KEY,
				employee_id TEXT NOT NULL REFERENCES employees(id),
				client_id TEXT NOT NULL DEFAULT '',
				service TEXT NOT NULL DEFAULT '',
				start_time TEXT NOT NULL,
				duration_minutes INTEGER NOT NULL DEFAULT 60,
				status TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled')),
				note TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
	},
	{
		Version: 5,
		Name:    "create clients",
		SQL: `
			CREATE TABLE IF NOT EXISTS clients (
				id TEXT PRIMARY KEY,
				display_name TEXT NOT NULL DEFAULT '',
				preferred_employee_id TEXT,
				preferred_time_bucket TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
	},
	{
		Version: 6,
		Name:    "index booking lookups",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_bookings_employee_start
				ON bookings(employee_id, start_time);
			CREATE INDEX IF NOT EXISTS idx_bookings_client_status
				ON bookings(client_id, status);
			CREATE INDEX IF NOT EXISTS idx_unavailability_employee_start
				ON unavailability_periods(employee_id, start_time)`,
	},
}

// Migrate applies any unapplied schema migrations in order, each inside its
// own transaction.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.DB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := migrationApplied(ctx, pool, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec(
				"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
				m.Version, m.Name,
			); err != nil {
				return fmt.Errorf("record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func migrationApplied(ctx context.Context, pool *ConnectionPool, version int) (bool, error) {
	var count int
	err := pool.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check migration %d: %w", version, err)
	}
	return count > 0, nil
}

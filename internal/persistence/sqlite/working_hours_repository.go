package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// WorkingHoursRepository implements persistence.WorkingHoursRepository using
// SQLite.
type WorkingHoursRepository struct {
	pool *ConnectionPool
}

var _ persistence.WorkingHoursRepository = (*WorkingHoursRepository)(nil)

// NewWorkingHoursRepository creates a new SQLite working hours repository.
func NewWorkingHoursRepository(pool *ConnectionPool) *WorkingHoursRepository {
	return &WorkingHoursRepository{pool: pool}
}

// GetDay retrieves the template entry for one weekday. Missing days return
// persistence.ErrNotFound; the service layer supplies the non-working default.
func (r *WorkingHoursRepository) GetDay(ctx context.Context, employeeID string, weekday time.Weekday) (persistence.WorkingHoursEntry, error) {
	if employeeID == "" {
		return persistence.WorkingHoursEntry{}, persistence.ErrNotFound
	}

	query := `
		SELECT employee_id, weekday, start_minute, end_minute, working
		FROM working_hours
		WHERE employee_id = ? AND weekday = ?
	`
	var entry persistence.WorkingHoursEntry
	var wd, working int

	err := r.pool.DB().QueryRowContext(ctx, query, employeeID, int(weekday)).Scan(
		&entry.EmployeeID,
		&wd,
		&entry.StartMinute,
		&entry.EndMinute,
		&working,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.WorkingHoursEntry{}, persistence.ErrNotFound
		}
		return persistence.WorkingHoursEntry{}, MapError(err)
	}

	entry.Weekday = time.Weekday(wd)
	entry.Working = working != 0
	return entry, nil
}

// GetWeek returns the stored entries for an employee ordered by weekday. Days
// without a stored entry are absent from the result.
func (r *WorkingHoursRepository) GetWeek(ctx context.Context, employeeID string) ([]persistence.WorkingHoursEntry, error) {
	query := `
		SELECT employee_id, weekday, start_minute, end_minute, working
		FROM working_hours
		WHERE employee_id = ?
		ORDER BY weekday ASC
	`
	rows, err := r.pool.DB().QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var entries []persistence.WorkingHoursEntry
	for rows.Next() {
		var entry persistence.WorkingHoursEntry
		var wd, working int
		if err := rows.Scan(&entry.EmployeeID, &wd, &entry.StartMinute, &entry.EndMinute, &working); err != nil {
			return nil, MapError(err)
		}
		entry.Weekday = time.Weekday(wd)
		entry.Working = working != 0
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return entries, nil
}

// SetWeek replaces the employee's full weekly template atomically.
func (r *WorkingHoursRepository) SetWeek(ctx context.Context, employeeID string, entries []persistence.WorkingHoursEntry) error {
	if employeeID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM working_hours WHERE employee_id = ?", employeeID); err != nil {
			return MapError(err)
		}

		for _, entry := range entries {
			_, err := tx.Exec(`
				INSERT INTO working_hours (employee_id, weekday, start_minute, end_minute, working)
				VALUES (?, ?, ?, ?, ?)`,
				employeeID,
				int(entry.Weekday),
				entry.StartMinute,
				entry.EndMinute,
				boolToInt(entry.Working),
			)
			if err != nil {
				return MapError(err)
			}
		}
		return nil
	})
}

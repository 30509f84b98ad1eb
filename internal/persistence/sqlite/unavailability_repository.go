package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// UnavailabilityRepository implements persistence.UnavailabilityRepository
// using SQLite.
type UnavailabilityRepository struct {
	pool *ConnectionPool
}

var _ persistence.UnavailabilityRepository = (*UnavailabilityRepository)(nil)

// NewUnavailabilityRepository creates a new SQLite unavailability repository.
func NewUnavailabilityRepository(pool *ConnectionPool) *UnavailabilityRepository {
	return &UnavailabilityRepository{pool: pool}
}

// AddUnavailability stores a new exclusion period. Overlaps with existing
// periods are permitted; the interval algebra merges them at read time.
func (r *UnavailabilityRepository) AddUnavailability(ctx context.Context, period persistence.UnavailabilityPeriod) error {
	if period.ID == "" || period.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}
	if !period.Start.Before(period.End) {
		return persistence.ErrConstraintViolation
	}
	if !persistence.KnownUnavailabilityType(period.Type) {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	period.CreatedAt = now
	period.UpdatedAt = now

	query := `
		INSERT INTO unavailability_periods (id, employee_id, start_time, end_time, type, reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.DB().ExecContext(ctx, query,
		period.ID,
		period.EmployeeID,
		formatTime(period.Start),
		formatTime(period.End),
		string(period.Type),
		period.Reason,
		formatTime(period.CreatedAt),
		formatTime(period.UpdatedAt),
	)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// RemoveUnavailability deletes an exclusion period by id.
func (r *UnavailabilityRepository) RemoveUnavailability(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.DB().ExecContext(ctx, "DELETE FROM unavailability_periods WHERE id = ?", id)
	if err != nil {
		return MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListUnavailabilityInRange returns periods intersecting [start, end) for the
// employee, ordered by start time.
func (r *UnavailabilityRepository) ListUnavailabilityInRange(ctx context.Context, employeeID string, start, end time.Time) ([]persistence.UnavailabilityPeriod, error) {
	query := `
		SELECT id, employee_id, start_time, end_time, type, reason, created_at, updated_at
		FROM unavailability_periods
		WHERE employee_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time ASC, id ASC
	`
	rows, err := r.pool.DB().QueryContext(ctx, query, employeeID, formatTime(end), formatTime(start))
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var periods []persistence.UnavailabilityPeriod
	for rows.Next() {
		period, err := scanUnavailability(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return periods, nil
}

func scanUnavailability(rows *sql.Rows) (persistence.UnavailabilityPeriod, error) {
	var period persistence.UnavailabilityPeriod
	var startStr, endStr, typeStr, createdAt, updatedAt string

	if err := rows.Scan(
		&period.ID,
		&period.EmployeeID,
		&startStr,
		&endStr,
		&typeStr,
		&period.Reason,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.UnavailabilityPeriod{}, MapError(err)
	}

	period.Type = persistence.UnavailabilityType(typeStr)

	var err error
	if period.Start, err = parseTime(startStr); err != nil {
		return persistence.UnavailabilityPeriod{}, fmt.Errorf("parse start_time: %w", err)
	}
	if period.End, err = parseTime(endStr); err != nil {
		return persistence.UnavailabilityPeriod{}, fmt.Errorf("parse end_time: %w", err)
	}
	if period.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.UnavailabilityPeriod{}, fmt.Errorf("parse created_at: %w", err)
	}
	if period.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.UnavailabilityPeriod{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return period, nil
}

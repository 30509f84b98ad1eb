package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository using SQLite.
type EmployeeRepository struct {
	pool *ConnectionPool
}

var _ persistence.EmployeeRepository = (*EmployeeRepository)(nil)

// NewEmployeeRepository creates a new SQLite employee repository.
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// UpsertEmployee inserts or replaces the directory record for an employee.
func (r *EmployeeRepository) UpsertEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now

	query := `
		INSERT INTO employees (id, display_name, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			active = excluded.active,
			updated_at = excluded.updated_at
	`
	_, err := r.pool.DB().ExecContext(ctx, query,
		employee.ID,
		employee.DisplayName,
		boolToInt(employee.Active),
		formatTime(employee.CreatedAt),
		formatTime(employee.UpdatedAt),
	)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// GetEmployee retrieves an employee by id.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	if id == "" {
		return persistence.Employee{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, display_name, active, created_at, updated_at
		FROM employees
		WHERE id = ?
	`
	var employee persistence.Employee
	var active int
	var createdAt, updatedAt string

	err := r.pool.DB().QueryRowContext(ctx, query, id).Scan(
		&employee.ID,
		&employee.DisplayName,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Employee{}, persistence.ErrNotFound
		}
		return persistence.Employee{}, MapError(err)
	}

	employee.Active = active != 0
	if employee.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Employee{}, fmt.Errorf("parse created_at: %w", err)
	}
	if employee.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Employee{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return employee, nil
}

// ListActiveEmployees returns active employees ordered by id.
func (r *EmployeeRepository) ListActiveEmployees(ctx context.Context) ([]persistence.Employee, error) {
	query := `
		SELECT id, display_name, active, created_at, updated_at
		FROM employees
		WHERE active = 1
		ORDER BY id ASC
	`
	rows, err := r.pool.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		var employee persistence.Employee
		var active int
		var createdAt, updatedAt string

		if err := rows.Scan(&employee.ID, &employee.DisplayName, &active, &createdAt, &updatedAt); err != nil {
			return nil, MapError(err)
		}
		employee.Active = active != 0
		if employee.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		if employee.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return employees, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool *ConnectionPool
}

var _ persistence.BookingRepository = (*BookingRepository)(nil)

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// CreateBooking inserts a new booking row.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" || booking.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}
	if !persistence.KnownBookingStatus(booking.Status) {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	query := `
		INSERT INTO bookings (id, employee_id, client_id, service, start_time, duration_minutes, status, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.DB().ExecContext(ctx, query,
		booking.ID,
		booking.EmployeeID,
		booking.ClientID,
		booking.Service,
		formatTime(booking.Start),
		booking.DurationMinutes,
		string(booking.Status),
		booking.Note,
		formatTime(booking.CreatedAt),
		formatTime(booking.UpdatedAt),
	)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// GetBooking retrieves a booking by id.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	query := bookingColumns + " FROM bookings WHERE id = ?"
	row := r.pool.DB().QueryRowContext(ctx, query, id)
	booking, err := scanBookingRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, err
	}
	return booking, nil
}

// UpdateBookingStatus sets the booking's status. Rows are never deleted;
// cancellation goes through here.
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id string, status persistence.BookingStatus, updatedAt time.Time) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	if !persistence.KnownBookingStatus(status) {
		return persistence.ErrConstraintViolation
	}

	result, err := r.pool.DB().ExecContext(ctx,
		"UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?",
		string(status), formatTime(updatedAt), id)
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

// ListActiveInRange returns pending/confirmed bookings whose occupied window
// intersects [start, end) for the employee, ordered by start time. A missing
// duration counts as the 60 minute default when computing the window end.
func (r *BookingRepository) ListActiveInRange(ctx context.Context, employeeID string, start, end time.Time) ([]persistence.Booking, error) {
	query := bookingColumns + `
		FROM bookings
		WHERE employee_id = ?
		  AND status IN ('pending', 'confirmed')
		  AND datetime(start_time) < datetime(?)
		  AND datetime(start_time, '+' || (CASE WHEN duration_minutes > 0 THEN duration_minutes ELSE 60 END) || ' minutes') > datetime(?)
		ORDER BY start_time ASC, id ASC
	`
	return r.queryBookings(ctx, query, employeeID, formatTime(end), formatTime(start))
}

// ListCompletedForClient returns the client's completed bookings, most recent
// first, capped at limit (0 means no cap).
func (r *BookingRepository) ListCompletedForClient(ctx context.Context, clientID string, limit int) ([]persistence.Booking, error) {
	query := bookingColumns + `
		FROM bookings
		WHERE client_id = ? AND status = 'completed'
		ORDER BY start_time DESC, id ASC
	`
	args := []interface{}{clientID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.queryBookings(ctx, query, args...)
}

// ListClientIDsWithCompletedBookings enumerates distinct clients holding at
// least one completed booking, ordered by id.
func (r *BookingRepository) ListClientIDsWithCompletedBookings(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT client_id
		FROM bookings
		WHERE status = 'completed' AND client_id != ''
		ORDER BY client_id ASC
	`
	rows, err := r.pool.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return ids, nil
}

const bookingColumns = `
	SELECT id, employee_id, client_id, service, start_time, duration_minutes, status, note, created_at, updated_at`

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]persistence.Booking, error) {
	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBookingRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return bookings, nil
}

func scanBookingRow(scan func(dest ...any) error) (persistence.Booking, error) {
	var booking persistence.Booking
	var startStr, statusStr, createdAt, updatedAt string

	if err := scan(
		&booking.ID,
		&booking.EmployeeID,
		&booking.ClientID,
		&booking.Service,
		&startStr,
		&booking.DurationMinutes,
		&statusStr,
		&booking.Note,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Booking{}, err
	}

	booking.Status = persistence.BookingStatus(statusStr)

	var err error
	if booking.Start, err = parseTime(startStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("parse start_time: %w", err)
	}
	if booking.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("parse created_at: %w", err)
	}
	if booking.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return booking, nil
}

package persistence

import (
	"context"
	"time"
)

// EmployeeRepository exposes the directory mirror of staff members.
type EmployeeRepository interface {
	UpsertEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListActiveEmployees(ctx context.Context) ([]Employee, error)
}

// WorkingHoursRepository stores the recurring weekly template per employee.
type WorkingHoursRepository interface {
	GetDay(ctx context.Context, employeeID string, weekday time.Weekday) (WorkingHoursEntry, error)
	GetWeek(ctx context.Context, employeeID string) ([]WorkingHoursEntry, error)
	// SetWeek replaces the employee's full week atomically
	// (delete-then-insert in one transaction).
	SetWeek(ctx context.Context, employeeID string, entries []WorkingHoursEntry) error
}

// UnavailabilityRepository stores ad-hoc exclusion periods.
type UnavailabilityRepository interface {
	AddUnavailability(ctx context.Context, period UnavailabilityPeriod) error
	RemoveUnavailability(ctx context.Context, id string) error
	// ListUnavailabilityInRange returns periods intersecting [start, end)
	// for the employee, ordered by start.
	ListUnavailabilityInRange(ctx context.Context, employeeID string, start, end time.Time) ([]UnavailabilityPeriod, error)
}

// BookingRepository stores appointment claims. Rows are never deleted; status
// transitions are the only mutation after insert.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status BookingStatus, updatedAt time.Time) error
	// ListActiveInRange returns pending/confirmed bookings whose window
	// intersects [start, end) for the employee, ordered by start.
	ListActiveInRange(ctx context.Context, employeeID string, start, end time.Time) ([]Booking, error)
	// ListCompletedForClient returns the client's completed bookings,
	// most recent first, capped at limit (0 means no cap).
	ListCompletedForClient(ctx context.Context, clientID string, limit int) ([]Booking, error)
	// ListClientIDsWithCompletedBookings enumerates candidate clients for
	// the suggestion engine.
	ListClientIDsWithCompletedBookings(ctx context.Context) ([]string, error)
}

// ClientRepository stores client preference records.
type ClientRepository interface {
	UpsertClient(ctx context.Context, client Client) error
	GetClient(ctx context.Context, id string) (Client, error)
}

package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/example/salon-scheduler/internal/interval"
	"github.com/example/salon-scheduler/internal/persistence"
)

// allowedTransitions encodes the booking lifecycle. Completed and cancelled
// are terminal; pending can never jump straight to completed.
var allowedTransitions = map[persistence.BookingStatus][]persistence.BookingStatus{
	persistence.BookingPending:   {persistence.BookingConfirmed, persistence.BookingCancelled},
	persistence.BookingConfirmed: {persistence.BookingCompleted, persistence.BookingCancelled},
}

// transitionAllowed reports whether from may move to to.
func transitionAllowed(from, to persistence.BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// employeeLocks hands out one mutex per employee id so booking admission
// serializes per employee without cross-employee contention.
type employeeLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEmployeeLocks() *employeeLocks {
	return &employeeLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *employeeLocks) forEmployee(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	return lock
}

// BookingService is the sole mutation gate for bookings. TryBook re-checks the
// requested window under a per-employee lock before inserting, guaranteeing
// at most one successful claim per (employee, window) under concurrency.
type BookingService struct {
	employees      persistence.EmployeeRepository
	workingHours   persistence.WorkingHoursRepository
	unavailability persistence.UnavailabilityRepository
	bookings       persistence.BookingRepository
	availability   *AvailabilityService
	locks          *employeeLocks
	loc            *time.Location
	idGenerator    func() string
	now            func() time.Time
	logger         *slog.Logger
}

// NewBookingService wires dependencies for booking admission and lifecycle
// transitions. availability may be nil; when present its slot cache is
// invalidated after every successful write.
func NewBookingService(
	employees persistence.EmployeeRepository,
	workingHours persistence.WorkingHoursRepository,
	unavailability persistence.UnavailabilityRepository,
	bookings persistence.BookingRepository,
	availability *AvailabilityService,
	loc *time.Location,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		employees:      employees,
		workingHours:   workingHours,
		unavailability: unavailability,
		bookings:       bookings,
		availability:   availability,
		locks:          newEmployeeLocks(),
		loc:            loc,
		idGenerator:    idGenerator,
		now:            now,
		logger:         loggerOrNop(logger),
	}
}

// TryBook admits a booking for the requested window or reports why it cannot.
// Inside the per-employee critical section it re-reads active bookings and
// unavailability for the window and verifies the working hours cover it; only
// then does it insert the pending booking. A lost race returns *ConflictError.
func (s *BookingService) TryBook(ctx context.Context, params TryBookParams) (persistence.Booking, error) {
	vErr := &ValidationError{}
	if params.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if params.DurationMinutes <= 0 {
		vErr.add("duration_minutes", "must be positive")
	}
	if vErr.HasErrors() {
		return persistence.Booking{}, vErr
	}

	employee, err := s.employees.GetEmployee(ctx, params.EmployeeID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Booking{}, ErrNotFound
		}
		return persistence.Booking{}, storageErr("load employee", err)
	}
	if !employee.Active {
		return persistence.Booking{}, ErrNotFound
	}

	start := params.Start.In(s.loc)
	end := start.Add(time.Duration(params.DurationMinutes) * time.Minute)

	lock := s.locks.forEmployee(params.EmployeeID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return persistence.Booking{}, storageErr("acquire admission lock", err)
	}

	if err := s.checkWindowFree(ctx, params.EmployeeID, start, end); err != nil {
		return persistence.Booking{}, err
	}

	now := s.now().UTC()
	booking := persistence.Booking{
		ID:              s.idGenerator(),
		EmployeeID:      params.EmployeeID,
		ClientID:        params.ClientID,
		Service:         params.Service,
		Start:           start.UTC(),
		DurationMinutes: params.DurationMinutes,
		Status:          persistence.BookingPending,
		Note:            params.Note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return persistence.Booking{}, storageErr("create booking", err)
	}

	if s.availability != nil {
		s.availability.InvalidateCache()
	}
	s.logger.Info("booking admitted",
		"booking_id", booking.ID, "employee_id", booking.EmployeeID,
		"start", booking.Start, "duration_minutes", booking.DurationMinutes)
	return booking, nil
}

// Transition moves a booking through its lifecycle. Invalid moves, including
// any mutation of a terminal state, come back as validation errors.
func (s *BookingService) Transition(ctx context.Context, bookingID string, to persistence.BookingStatus) (persistence.Booking, error) {
	if !persistence.KnownBookingStatus(to) {
		vErr := &ValidationError{}
		vErr.add("status", "unknown status")
		return persistence.Booking{}, vErr
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Booking{}, ErrNotFound
		}
		return persistence.Booking{}, storageErr("load booking", err)
	}

	if !transitionAllowed(booking.Status, to) {
		vErr := &ValidationError{}
		vErr.add("status", "transition from "+string(booking.Status)+" to "+string(to)+" is not allowed")
		return persistence.Booking{}, vErr
	}

	updatedAt := s.now().UTC()
	if err := s.bookings.UpdateBookingStatus(ctx, bookingID, to, updatedAt); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Booking{}, ErrNotFound
		}
		return persistence.Booking{}, storageErr("update booking status", err)
	}

	booking.Status = to
	booking.UpdatedAt = updatedAt

	if s.availability != nil {
		s.availability.InvalidateCache()
	}
	s.logger.Info("booking transitioned", "booking_id", bookingID, "status", to)
	return booking, nil
}

// Cancel is the public face of "deletion": history is preserved and the slot
// is released.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (persistence.Booking, error) {
	return s.Transition(ctx, bookingID, persistence.BookingCancelled)
}

// checkWindowFree verifies the requested window sits inside working hours and
// overlaps no unavailability period or active booking.
func (s *BookingService) checkWindowFree(ctx context.Context, employeeID string, start, end time.Time) error {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)
	requested := interval.Interval{
		Start: minuteOfDay(start, dayStart),
		End:   minuteOfDay(end, dayStart),
	}

	entry, err := s.workingHours.GetDay(ctx, employeeID, dayStart.Weekday())
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return &ConflictError{EmployeeID: employeeID, Start: start, End: end}
		}
		return storageErr("load working hours", err)
	}
	if !entry.Working || requested.Start < entry.StartMinute || requested.End > entry.EndMinute {
		return &ConflictError{EmployeeID: employeeID, Start: start, End: end}
	}

	periods, err := s.unavailability.ListUnavailabilityInRange(ctx, employeeID, start, end)
	if err != nil {
		return storageErr("load unavailability", err)
	}
	if len(periods) > 0 {
		return &ConflictError{EmployeeID: employeeID, Start: start, End: end}
	}

	bookings, err := s.bookings.ListActiveInRange(ctx, employeeID, start, end)
	if err != nil {
		return storageErr("load bookings", err)
	}
	for _, existing := range bookings {
		existingIv := interval.Interval{
			Start: minuteOfDay(existing.Start, dayStart),
			End:   minuteOfDay(existing.End(), dayStart),
		}
		if interval.Overlaps(requested, existingIv) {
			return &ConflictError{EmployeeID: employeeID, Start: start, End: end}
		}
	}
	return nil
}

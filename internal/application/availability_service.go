package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/salon-scheduler/internal/interval"
	"github.com/example/salon-scheduler/internal/persistence"
)

// AvailabilityService computes free bookable slots per employee and day. It is
// stateless apart from a short-lived slot cache; all reads tolerate a slightly
// stale snapshot because booking admission re-checks authoritatively.
type AvailabilityService struct {
	employees      persistence.EmployeeRepository
	workingHours   persistence.WorkingHoursRepository
	unavailability persistence.UnavailabilityRepository
	bookings       persistence.BookingRepository
	loc            *time.Location
	minDuration    int
	cache          *slotCache
	logger         *slog.Logger
}

// NewAvailabilityService wires dependencies for availability computation.
// minDurationMinutes is the room an IsAvailable check assumes; zero selects
// the default of 30 minutes.
func NewAvailabilityService(
	employees persistence.EmployeeRepository,
	workingHours persistence.WorkingHoursRepository,
	unavailability persistence.UnavailabilityRepository,
	bookings persistence.BookingRepository,
	loc *time.Location,
	minDurationMinutes int,
	now func() time.Time,
	logger *slog.Logger,
) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	if minDurationMinutes <= 0 {
		minDurationMinutes = DefaultMinimumDurationMinutes
	}
	return &AvailabilityService{
		employees:      employees,
		workingHours:   workingHours,
		unavailability: unavailability,
		bookings:       bookings,
		loc:            loc,
		minDuration:    minDurationMinutes,
		cache:          newSlotCache(30*time.Second, 256, now),
		logger:         loggerOrNop(logger),
	}
}

// InvalidateCache drops all cached slot lists. The write-path services call
// this after any mutation that can change availability.
func (s *AvailabilityService) InvalidateCache() {
	s.cache.Invalidate()
}

// GetAvailableSlots returns the ascending HH:MM start times on the given
// YYYY-MM-DD date at which a booking of durationMinutes fits for the employee.
// Slots are tiled by the requested duration, so back-to-back bookings of equal
// length fill the day exactly.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, employeeID, date string, durationMinutes int) ([]string, error) {
	vErr := &ValidationError{}
	if durationMinutes <= 0 {
		vErr.add("duration_minutes", "must be positive")
	}
	day, err := parseDate(date, s.loc)
	if err != nil {
		vErr.add("date", "must be formatted YYYY-MM-DD")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	if err := s.ensureEmployeeExists(ctx, employeeID); err != nil {
		return nil, err
	}

	key := slotCacheKey(employeeID, date, durationMinutes)
	if slots, ok := s.cache.Get(key); ok {
		return slots, nil
	}

	free, err := s.freeIntervals(ctx, employeeID, day)
	if err != nil {
		return nil, err
	}

	starts := interval.Clip(free, durationMinutes, durationMinutes)
	slots := make([]string, 0, len(starts))
	for _, minute := range starts {
		slots = append(slots, formatMinute(minute))
	}

	s.cache.Store(key, slots)
	s.logger.Debug("computed availability",
		"employee_id", employeeID, "date", date, "duration", durationMinutes, "slots", len(slots))
	return slots, nil
}

// IsAvailable reports whether the HH:MM time on the given date falls inside a
// free interval with room for the configured minimum duration. It checks
// containment directly instead of recomputing the tiled slot list, so the
// answer does not depend on any particular slot alignment.
func (s *AvailabilityService) IsAvailable(ctx context.Context, employeeID, date, timeOfDay string) (bool, error) {
	vErr := &ValidationError{}
	day, err := parseDate(date, s.loc)
	if err != nil {
		vErr.add("date", "must be formatted YYYY-MM-DD")
	}
	minute, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		vErr.add("time", "must be formatted HH:MM")
	}
	if vErr.HasErrors() {
		return false, vErr
	}

	if err := s.ensureEmployeeExists(ctx, employeeID); err != nil {
		return false, err
	}

	free, err := s.freeIntervals(ctx, employeeID, day)
	if err != nil {
		return false, err
	}
	return interval.ContainsWithRoom(free, minute, s.minDuration), nil
}

// GetAllAvailability maps every active employee to their available slots on
// the date. Employees with no free time are present with an empty list, so
// "fully booked" stays distinguishable from "no such employee".
func (s *AvailabilityService) GetAllAvailability(ctx context.Context, date string, durationMinutes int) (map[string][]string, error) {
	employees, err := s.employees.ListActiveEmployees(ctx)
	if err != nil {
		return nil, storageErr("list employees", err)
	}

	all := make(map[string][]string, len(employees))
	for _, employee := range employees {
		slots, err := s.GetAvailableSlots(ctx, employee.ID, date, durationMinutes)
		if err != nil {
			return nil, err
		}
		if slots == nil {
			slots = []string{}
		}
		all[employee.ID] = slots
	}
	return all, nil
}

// freeIntervals computes the employee's free minute intervals for the
// salon-local day starting at dayStart: the working window minus merged
// unavailability and active booking windows.
func (s *AvailabilityService) freeIntervals(ctx context.Context, employeeID string, dayStart time.Time) ([]interval.Interval, error) {
	entry, err := s.workingHours.GetDay(ctx, employeeID, dayStart.Weekday())
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, nil
		}
		return nil, storageErr("load working hours", err)
	}
	if !entry.Working || entry.StartMinute >= entry.EndMinute {
		return nil, nil
	}

	base := interval.Interval{Start: entry.StartMinute, End: entry.EndMinute}
	dayEnd := dayStart.AddDate(0, 0, 1)

	periods, err := s.unavailability.ListUnavailabilityInRange(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return nil, storageErr("load unavailability", err)
	}
	bookings, err := s.bookings.ListActiveInRange(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return nil, storageErr("load bookings", err)
	}

	exclusions := make([]interval.Interval, 0, len(periods)+len(bookings))
	for _, period := range periods {
		exclusions = append(exclusions, interval.Interval{
			Start: minuteOfDay(period.Start, dayStart),
			End:   minuteOfDay(period.End, dayStart),
		})
	}
	for _, booking := range bookings {
		exclusions = append(exclusions, interval.Interval{
			Start: minuteOfDay(booking.Start, dayStart),
			End:   minuteOfDay(booking.End(), dayStart),
		})
	}

	return interval.Subtract(base, exclusions), nil
}

func (s *AvailabilityService) ensureEmployeeExists(ctx context.Context, employeeID string) error {
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr("load employee", err)
	}
	return nil
}

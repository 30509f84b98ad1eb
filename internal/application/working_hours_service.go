package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// Display fallback for days without a stored entry: shown as 09:00-18:00 but
// never bookable because Working stays false.
const (
	fallbackStartMinute = 9 * 60
	fallbackEndMinute   = 18 * 60
)

// WorkingHoursService manages the recurring weekly template per employee.
type WorkingHoursService struct {
	employees    persistence.EmployeeRepository
	workingHours persistence.WorkingHoursRepository
	availability *AvailabilityService
	logger       *slog.Logger
}

// NewWorkingHoursService wires dependencies for template management.
func NewWorkingHoursService(
	employees persistence.EmployeeRepository,
	workingHours persistence.WorkingHoursRepository,
	availability *AvailabilityService,
	logger *slog.Logger,
) *WorkingHoursService {
	return &WorkingHoursService{
		employees:    employees,
		workingHours: workingHours,
		availability: availability,
		logger:       loggerOrNop(logger),
	}
}

// GetWeek returns all seven days for the employee. Days the repository does
// not know are filled in as non-working with the display fallback window, so
// callers never branch on absence.
func (s *WorkingHoursService) GetWeek(ctx context.Context, employeeID string) (WeekTemplate, error) {
	if err := s.ensureEmployeeExists(ctx, employeeID); err != nil {
		return WeekTemplate{}, err
	}

	stored, err := s.workingHours.GetWeek(ctx, employeeID)
	if err != nil {
		return WeekTemplate{}, storageErr("load working hours", err)
	}

	week := WeekTemplate{EmployeeID: employeeID}
	for day := time.Sunday; day <= time.Saturday; day++ {
		week.Days[day] = persistence.WorkingHoursEntry{
			EmployeeID:  employeeID,
			Weekday:     day,
			StartMinute: fallbackStartMinute,
			EndMinute:   fallbackEndMinute,
			Working:     false,
		}
	}
	for _, entry := range stored {
		if entry.Weekday >= time.Sunday && entry.Weekday <= time.Saturday {
			week.Days[entry.Weekday] = entry
		}
	}
	return week, nil
}

// SetWeek validates and replaces the employee's full weekly template
// atomically. The write is an idempotent upsert: repeating it with the same
// entries leaves the same state.
func (s *WorkingHoursService) SetWeek(ctx context.Context, employeeID string, entries []persistence.WorkingHoursEntry) error {
	if err := s.ensureEmployeeExists(ctx, employeeID); err != nil {
		return err
	}

	vErr := &ValidationError{}
	if len(entries) != 7 {
		vErr.add("entries", "exactly 7 entries are required")
	}
	seen := make(map[time.Weekday]bool, 7)
	for _, entry := range entries {
		if entry.Weekday < time.Sunday || entry.Weekday > time.Saturday {
			vErr.add("weekday", "weekday must be between 0 and 6")
			continue
		}
		if seen[entry.Weekday] {
			vErr.add("weekday", fmt.Sprintf("duplicate entry for %s", entry.Weekday))
		}
		seen[entry.Weekday] = true
		if entry.Working && entry.StartMinute >= entry.EndMinute {
			vErr.add(fmt.Sprintf("day_%d", int(entry.Weekday)), "start must be before end on working days")
		}
	}
	if vErr.HasErrors() {
		return vErr
	}

	if err := s.workingHours.SetWeek(ctx, employeeID, entries); err != nil {
		return storageErr("set working hours", err)
	}

	if s.availability != nil {
		s.availability.InvalidateCache()
	}
	s.logger.Info("working hours replaced", "employee_id", employeeID)
	return nil
}

func (s *WorkingHoursService) ensureEmployeeExists(ctx context.Context, employeeID string) error {
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr("load employee", err)
	}
	return nil
}

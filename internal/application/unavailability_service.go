package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// UnavailabilityService records and removes ad-hoc exclusion periods. Write
// time performs no overlap validation; overlapping periods are merged by the
// interval algebra when availability is read.
type UnavailabilityService struct {
	employees      persistence.EmployeeRepository
	unavailability persistence.UnavailabilityRepository
	availability   *AvailabilityService
	idGenerator    func() string
	logger         *slog.Logger
}

// NewUnavailabilityService wires dependencies for exclusion management.
func NewUnavailabilityService(
	employees persistence.EmployeeRepository,
	unavailability persistence.UnavailabilityRepository,
	availability *AvailabilityService,
	idGenerator func() string,
	logger *slog.Logger,
) *UnavailabilityService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &UnavailabilityService{
		employees:      employees,
		unavailability: unavailability,
		availability:   availability,
		idGenerator:    idGenerator,
		logger:         loggerOrNop(logger),
	}
}

// Add validates and stores a new exclusion period, returning its id.
func (s *UnavailabilityService) Add(ctx context.Context, input UnavailabilityInput) (string, error) {
	vErr := &ValidationError{}
	if input.Start.IsZero() || input.End.IsZero() {
		vErr.add("range", "start and end are required")
	} else if !input.Start.Before(input.End) {
		vErr.add("range", "start must be before end")
	}
	if !persistence.KnownUnavailabilityType(input.Type) {
		vErr.add("type", "must be vacation, sick_leave, or day_off")
	}
	if vErr.HasErrors() {
		return "", vErr
	}

	if _, err := s.employees.GetEmployee(ctx, input.EmployeeID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", storageErr("load employee", err)
	}

	period := persistence.UnavailabilityPeriod{
		ID:         s.idGenerator(),
		EmployeeID: input.EmployeeID,
		Start:      input.Start.UTC(),
		End:        input.End.UTC(),
		Type:       input.Type,
		Reason:     input.Reason,
	}
	if err := s.unavailability.AddUnavailability(ctx, period); err != nil {
		return "", storageErr("add unavailability", err)
	}

	if s.availability != nil {
		s.availability.InvalidateCache()
	}
	s.logger.Info("unavailability recorded",
		"period_id", period.ID, "employee_id", period.EmployeeID, "type", period.Type)
	return period.ID, nil
}

// Remove deletes an exclusion period.
func (s *UnavailabilityService) Remove(ctx context.Context, id string) error {
	if err := s.unavailability.RemoveUnavailability(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr("remove unavailability", err)
	}

	if s.availability != nil {
		s.availability.InvalidateCache()
	}
	s.logger.Info("unavailability removed", "period_id", id)
	return nil
}

// ListForEmployeeInRange returns periods intersecting [start, end).
func (s *UnavailabilityService) ListForEmployeeInRange(ctx context.Context, employeeID string, start, end time.Time) ([]persistence.UnavailabilityPeriod, error) {
	periods, err := s.unavailability.ListUnavailabilityInRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, storageErr("list unavailability", err)
	}
	return periods, nil
}

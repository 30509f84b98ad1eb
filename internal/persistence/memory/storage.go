// Package memory provides a map-backed implementation of every persistence
// repository. It backs unit tests and fixtures where a real SQLite file would
// slow things down.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// Storage implements the persistence repository interfaces in memory.
type Storage struct {
	mu             sync.RWMutex
	employees      map[string]persistence.Employee
	workingHours   map[string]map[time.Weekday]persistence.WorkingHoursEntry
	unavailability map[string]persistence.UnavailabilityPeriod
	bookings       map[string]persistence.Booking
	clients        map[string]persistence.Client
}

var (
	_ persistence.EmployeeRepository       = (*Storage)(nil)
	_ persistence.WorkingHoursRepository   = (*Storage)(nil)
	_ persistence.UnavailabilityRepository = (*Storage)(nil)
	_ persistence.BookingRepository        = (*Storage)(nil)
	_ persistence.ClientRepository         = (*Storage)(nil)
)

// NewStorage returns an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{
		employees:      make(map[string]persistence.Employee),
		workingHours:   make(map[string]map[time.Weekday]persistence.WorkingHoursEntry),
		unavailability: make(map[string]persistence.UnavailabilityPeriod),
		bookings:       make(map[string]persistence.Booking),
		clients:        make(map[string]persistence.Client),
	}
}

// --- EmployeeRepository implementation ---

// UpsertEmployee inserts or replaces an employee record.
func (s *Storage) UpsertEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" {
		return persistence.ErrConstraintViolation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[employee.ID] = employee
	return nil
}

// GetEmployee retrieves an employee by id.
func (s *Storage) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[id]
	if !ok {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return employee, nil
}

// ListActiveEmployees returns active employees ordered by id.
func (s *Storage) ListActiveEmployees(ctx context.Context) ([]persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var employees []persistence.Employee
	for _, employee := range s.employees {
		if employee.Active {
			employees = append(employees, employee)
		}
	}
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].ID < employees[j].ID
	})
	return employees, nil
}

// --- WorkingHoursRepository implementation ---

// GetDay retrieves the template entry for one weekday.
func (s *Storage) GetDay(ctx context.Context, employeeID string, weekday time.Weekday) (persistence.WorkingHoursEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	week, ok := s.workingHours[employeeID]
	if !ok {
		return persistence.WorkingHoursEntry{}, persistence.ErrNotFound
	}
	entry, ok := week[weekday]
	if !ok {
		return persistence.WorkingHoursEntry{}, persistence.ErrNotFound
	}
	return entry, nil
}

// GetWeek returns stored entries ordered by weekday.
func (s *Storage) GetWeek(ctx context.Context, employeeID string) ([]persistence.WorkingHoursEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	week, ok := s.workingHours[employeeID]
	if !ok {
		return nil, nil
	}
	entries := make([]persistence.WorkingHoursEntry, 0, len(week))
	for _, entry := range week {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Weekday < entries[j].Weekday
	})
	return entries, nil
}

// SetWeek replaces the employee's full weekly template.
func (s *Storage) SetWeek(ctx context.Context, employeeID string, entries []persistence.WorkingHoursEntry) error {
	if employeeID == "" {
		return persistence.ErrConstraintViolation
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	week := make(map[time.Weekday]persistence.WorkingHoursEntry, len(entries))
	for _, entry := range entries {
		entry.EmployeeID = employeeID
		week[entry.Weekday] = entry
	}
	s.workingHours[employeeID] = week
	return nil
}

// --- UnavailabilityRepository implementation ---

// AddUnavailability stores a new exclusion period.
func (s *Storage) AddUnavailability(ctx context.Context, period persistence.UnavailabilityPeriod) error {
	if period.ID == "" || period.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}
	if !period.Start.Before(period.End) {
		return persistence.ErrConstraintViolation
	}
	if !persistence.KnownUnavailabilityType(period.Type) {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.unavailability[period.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.unavailability[period.ID] = period
	return nil
}

// RemoveUnavailability deletes an exclusion period by id.
func (s *Storage) RemoveUnavailability(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.unavailability[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.unavailability, id)
	return nil
}

// ListUnavailabilityInRange returns periods intersecting [start, end).
func (s *Storage) ListUnavailabilityInRange(ctx context.Context, employeeID string, start, end time.Time) ([]persistence.UnavailabilityPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var periods []persistence.UnavailabilityPeriod
	for _, period := range s.unavailability {
		if period.EmployeeID != employeeID {
			continue
		}
		if period.Start.Before(end) && period.End.After(start) {
			periods = append(periods, period)
		}
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].Start.Equal(periods[j].Start) {
			return periods[i].ID < periods[j].ID
		}
		return periods[i].Start.Before(periods[j].Start)
	})
	return periods, nil
}

// --- BookingRepository implementation ---

// CreateBooking inserts a new booking.
func (s *Storage) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" || booking.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}
	if !persistence.KnownBookingStatus(booking.Status) {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[booking.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.bookings[booking.ID] = booking
	return nil
}

// GetBooking retrieves a booking by id.
func (s *Storage) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return booking, nil
}

// UpdateBookingStatus sets the booking's status.
func (s *Storage) UpdateBookingStatus(ctx context.Context, id string, status persistence.BookingStatus, updatedAt time.Time) error {
	if !persistence.KnownBookingStatus(status) {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[id]
	if !ok {
		return persistence.ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = updatedAt
	s.bookings[id] = booking
	return nil
}

// ListActiveInRange returns pending/confirmed bookings intersecting [start, end).
func (s *Storage) ListActiveInRange(ctx context.Context, employeeID string, start, end time.Time) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bookings []persistence.Booking
	for _, booking := range s.bookings {
		if booking.EmployeeID != employeeID || !booking.IsActive() {
			continue
		}
		if booking.Start.Before(end) && booking.End().After(start) {
			bookings = append(bookings, booking)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].Start.Before(bookings[j].Start)
	})
	return bookings, nil
}

// ListCompletedForClient returns completed bookings, most recent first.
func (s *Storage) ListCompletedForClient(ctx context.Context, clientID string, limit int) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bookings []persistence.Booking
	for _, booking := range s.bookings {
		if booking.ClientID == clientID && booking.Status == persistence.BookingCompleted {
			bookings = append(bookings, booking)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].Start.After(bookings[j].Start)
	})
	if limit > 0 && len(bookings) > limit {
		bookings = bookings[:limit]
	}
	return bookings, nil
}

// ListClientIDsWithCompletedBookings enumerates clients with completed history.
func (s *Storage) ListClientIDsWithCompletedBookings(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, booking := range s.bookings {
		if booking.Status == persistence.BookingCompleted && booking.ClientID != "" {
			seen[booking.ClientID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// --- ClientRepository implementation ---

// UpsertClient inserts or replaces a client record.
func (s *Storage) UpsertClient(ctx context.Context, client persistence.Client) error {
	if client.ID == "" {
		return persistence.ErrConstraintViolation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ID] = cloneClient(client)
	return nil
}

// GetClient retrieves a client by id.
func (s *Storage) GetClient(ctx context.Context, id string) (persistence.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return persistence.Client{}, persistence.ErrNotFound
	}
	return cloneClient(client), nil
}

func cloneClient(client persistence.Client) persistence.Client {
	out := client
	if client.PreferredEmployeeID != nil {
		id := *client.PreferredEmployeeID
		out.PreferredEmployeeID = &id
	}
	if client.PreferredTimeBucket != nil {
		bucket := *client.PreferredTimeBucket
		out.PreferredTimeBucket = &bucket
	}
	return out
}

// Package testfixtures provides deterministic building blocks for tests:
// a controllable clock, a counting id generator, and seed helpers over the
// in-memory storage.
package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
	"github.com/example/salon-scheduler/internal/persistence/memory"
)

// ReferenceTime is the shared anchor for deterministic tests: a Wednesday at
// noon UTC.
func ReferenceTime() time.Time {
	return time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)
}

// ReferenceDate is ReferenceTime's day in boundary format.
const ReferenceDate = "2025-01-15"

// SeedEmployee stores an active employee and returns it.
func SeedEmployee(t *testing.T, store *memory.Storage, id string) persistence.Employee {
	t.Helper()
	employee := persistence.Employee{
		ID:          id,
		DisplayName: "Employee " + id,
		Active:      true,
		CreatedAt:   ReferenceTime(),
		UpdatedAt:   ReferenceTime(),
	}
	if err := store.UpsertEmployee(context.Background(), employee); err != nil {
		t.Fatalf("seed employee %s: %v", id, err)
	}
	return employee
}

// SeedInactiveEmployee stores an inactive employee and returns it.
func SeedInactiveEmployee(t *testing.T, store *memory.Storage, id string) persistence.Employee {
	t.Helper()
	employee := persistence.Employee{
		ID:        id,
		Active:    false,
		CreatedAt: ReferenceTime(),
		UpdatedAt: ReferenceTime(),
	}
	if err := store.UpsertEmployee(context.Background(), employee); err != nil {
		t.Fatalf("seed inactive employee %s: %v", id, err)
	}
	return employee
}

// SeedFullWeek stores a template where every day shares the same working
// window.
func SeedFullWeek(t *testing.T, store *memory.Storage, employeeID string, startMinute, endMinute int) {
	t.Helper()
	entries := make([]persistence.WorkingHoursEntry, 0, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		entries = append(entries, persistence.WorkingHoursEntry{
			EmployeeID:  employeeID,
			Weekday:     day,
			StartMinute: startMinute,
			EndMinute:   endMinute,
			Working:     true,
		})
	}
	if err := store.SetWeek(context.Background(), employeeID, entries); err != nil {
		t.Fatalf("seed week for %s: %v", employeeID, err)
	}
}

// SeedBooking stores a booking with the given status and returns it.
func SeedBooking(t *testing.T, store *memory.Storage, booking persistence.Booking) persistence.Booking {
	t.Helper()
	if booking.Status == "" {
		booking.Status = persistence.BookingConfirmed
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = ReferenceTime()
		booking.UpdatedAt = ReferenceTime()
	}
	if err := store.CreateBooking(context.Background(), booking); err != nil {
		t.Fatalf("seed booking %s: %v", booking.ID, err)
	}
	return booking
}

// SeedUnavailability stores an exclusion period and returns it.
func SeedUnavailability(t *testing.T, store *memory.Storage, period persistence.UnavailabilityPeriod) persistence.UnavailabilityPeriod {
	t.Helper()
	if period.Type == "" {
		period.Type = persistence.UnavailabilityDayOff
	}
	if err := store.AddUnavailability(context.Background(), period); err != nil {
		t.Fatalf("seed unavailability %s: %v", period.ID, err)
	}
	return period
}

// SeedClient stores a client preference record and returns it.
func SeedClient(t *testing.T, store *memory.Storage, client persistence.Client) persistence.Client {
	t.Helper()
	if err := store.UpsertClient(context.Background(), client); err != nil {
		t.Fatalf("seed client %s: %v", client.ID, err)
	}
	return client
}

package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/salon-scheduler/internal/application"
	"github.com/example/salon-scheduler/internal/persistence"
	"github.com/example/salon-scheduler/internal/testfixtures"
)

func TestUnavailabilityService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a period and blocks the slots it covers", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-1")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-1", 9*60, 17*60)

		id, err := harness.Unavailability.Add(ctx, application.UnavailabilityInput{
			EmployeeID: "emp-1",
			Start:      time.Date(2025, time.January, 15, 13, 0, 0, 0, time.UTC),
			End:        time.Date(2025, time.January, 15, 15, 0, 0, 0, time.UTC),
			Type:       persistence.UnavailabilitySickLeave,
			Reason:     "flu",
		})
		if err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
		if id == "" {
			t.Fatalf("expected a period id")
		}

		slots, err := harness.Availability.GetAvailableSlots(ctx, "emp-1", testfixtures.ReferenceDate, 60)
		if err != nil {
			t.Fatalf("GetAvailableSlots returned error: %v", err)
		}
		if contains(slots, "13:00") || contains(slots, "14:00") {
			t.Fatalf("expected 13:00 and 14:00 blocked, got %v", slots)
		}
		if !contains(slots, "12:00") || !contains(slots, "15:00") {
			t.Fatalf("expected the surrounding hours to stay free, got %v", slots)
		}
	})

	t.Run("overlapping periods are accepted", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-1")

		base := application.UnavailabilityInput{
			EmployeeID: "emp-1",
			Start:      time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC),
			End:        time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC),
			Type:       persistence.UnavailabilityVacation,
		}
		if _, err := harness.Unavailability.Add(ctx, base); err != nil {
			t.Fatalf("first Add returned error: %v", err)
		}
		overlapping := base
		overlapping.Start = time.Date(2025, time.January, 15, 11, 0, 0, 0, time.UTC)
		overlapping.End = time.Date(2025, time.January, 15, 13, 0, 0, 0, time.UTC)
		if _, err := harness.Unavailability.Add(ctx, overlapping); err != nil {
			t.Fatalf("overlapping Add returned error: %v", err)
		}

		periods, err := harness.Unavailability.ListForEmployeeInRange(ctx, "emp-1",
			time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.January, 16, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("ListForEmployeeInRange returned error: %v", err)
		}
		if len(periods) != 2 {
			t.Fatalf("expected both periods stored, got %d", len(periods))
		}
	})

	t.Run("validation", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-1")

		var vErr *application.ValidationError

		_, err := harness.Unavailability.Add(ctx, application.UnavailabilityInput{
			EmployeeID: "emp-1",
			Start:      time.Date(2025, time.January, 15, 15, 0, 0, 0, time.UTC),
			End:        time.Date(2025, time.January, 15, 13, 0, 0, 0, time.UTC),
			Type:       persistence.UnavailabilityVacation,
		})
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError for inverted range, got %v", err)
		}

		_, err = harness.Unavailability.Add(ctx, application.UnavailabilityInput{
			EmployeeID: "emp-1",
			Start:      time.Date(2025, time.January, 15, 13, 0, 0, 0, time.UTC),
			End:        time.Date(2025, time.January, 15, 15, 0, 0, 0, time.UTC),
			Type:       "sabbatical",
		})
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError for unknown type, got %v", err)
		}
	})

	t.Run("unknown employee", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)

		_, err := harness.Unavailability.Add(ctx, application.UnavailabilityInput{
			EmployeeID: "ghost",
			Start:      time.Date(2025, time.January, 15, 13, 0, 0, 0, time.UTC),
			End:        time.Date(2025, time.January, 15, 15, 0, 0, 0, time.UTC),
			Type:       persistence.UnavailabilityDayOff,
		})
		if !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUnavailabilityService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removal restores the blocked slots", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-1")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-1", 9*60, 17*60)

		id, err := harness.Unavailability.Add(ctx, application.UnavailabilityInput{
			EmployeeID: "emp-1",
			Start:      time.Date(2025, time.January, 15, 13, 0, 0, 0, time.UTC),
			End:        time.Date(2025, time.January, 15, 14, 0, 0, 0, time.UTC),
			Type:       persistence.UnavailabilityDayOff,
		})
		if err != nil {
			t.Fatalf("Add returned error: %v", err)
		}

		blocked, err := harness.Availability.GetAvailableSlots(ctx, "emp-1", testfixtures.ReferenceDate, 60)
		if err != nil {
			t.Fatalf("GetAvailableSlots returned error: %v", err)
		}
		if contains(blocked, "13:00") {
			t.Fatalf("expected 13:00 blocked, got %v", blocked)
		}

		if err := harness.Unavailability.Remove(ctx, id); err != nil {
			t.Fatalf("Remove returned error: %v", err)
		}

		restored, err := harness.Availability.GetAvailableSlots(ctx, "emp-1", testfixtures.ReferenceDate, 60)
		if err != nil {
			t.Fatalf("GetAvailableSlots returned error: %v", err)
		}
		if !contains(restored, "13:00") {
			t.Fatalf("expected 13:00 restored, got %v", restored)
		}
	})

	t.Run("unknown period", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		if err := harness.Unavailability.Remove(ctx, "ghost"); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

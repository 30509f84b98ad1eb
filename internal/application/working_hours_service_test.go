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

func weekEntries(employeeID string, startMinute, endMinute int, workingDays ...time.Weekday) []persistence.WorkingHoursEntry {
	working := make(map[time.Weekday]bool, len(workingDays))
	for _, day := range workingDays {
		working[day] = true
	}
	entries := make([]persistence.WorkingHoursEntry, 0, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		entries = append(entries, persistence.WorkingHoursEntry{
			EmployeeID:  employeeID,
			Weekday:     day,
			StartMinute: startMinute,
			EndMinute:   endMinute,
			Working:     working[day],
		})
	}
	return entries
}

func TestWorkingHoursService_SetWeekGetWeek(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a full template", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-1")

		entries := weekEntries("emp-1", 10*60, 19*60,
			time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday)
		if err := harness.WorkingHours.SetWeek(ctx, "emp-1", entries); err != nil {
			t.Fatalf("SetWeek returned error: %v", err)
		}

		week, err := harness.WorkingHours.GetWeek(ctx, "emp-1")
		if err != nil {
			t.Fatalf("GetWeek returned error: %v", err)
		}
		if week.EmployeeID != "emp-1" {
			t.Fatalf("unexpected employee id %s", week.EmployeeID)
		}
		if !week.Days[time.Wednesday].Working {
			t.Fatalf("expected Wednesday to be a working day")
		}
		if week.Days[time.Wednesday].StartMinute != 10*60 || week.Days[time.Wednesday].EndMinute != 19*60 {
			t.Fatalf("unexpected Wednesday window: %+v", week.Days[time.Wednesday])
		}
		if week.Days[time.Monday].Working {
			t.Fatalf("expected Monday to be off")
		}
	})

	t.Run("repeating the same write is idempotent", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-1")

		entries := weekEntries("emp-1", 9*60, 17*60, time.Monday)
		for i := 0; i < 2; i++ {
			if err := harness.WorkingHours.SetWeek(ctx, "emp-1", entries); err != nil {
				t.Fatalf("SetWeek pass %d returned error: %v", i, err)
			}
		}

		stored, err := harness.Store.GetWeek(ctx, "emp-1")
		if err != nil {
			t.Fatalf("GetWeek returned error: %v", err)
		}
		if len(stored) != 7 {
			t.Fatalf("expected 7 stored entries, got %d", len(stored))
		}
	})

	t.Run("missing days fall back to a non-working default window", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-1")

		week, err := harness.WorkingHours.GetWeek(ctx, "emp-1")
		if err != nil {
			t.Fatalf("GetWeek returned error: %v", err)
		}
		for day := time.Sunday; day <= time.Saturday; day++ {
			entry := week.Days[day]
			if entry.Working {
				t.Fatalf("expected %s to default to non-working", day)
			}
			if entry.StartMinute != 9*60 || entry.EndMinute != 18*60 {
				t.Fatalf("unexpected fallback window for %s: %+v", day, entry)
			}
		}
	})

	t.Run("template change reshapes availability", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-1")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-1", 9*60, 17*60)

		before, err := harness.Availability.GetAvailableSlots(ctx, "emp-1", testfixtures.ReferenceDate, 60)
		if err != nil {
			t.Fatalf("GetAvailableSlots returned error: %v", err)
		}
		if len(before) == 0 {
			t.Fatalf("expected slots before the template change")
		}

		if err := harness.WorkingHours.SetWeek(ctx, "emp-1", weekEntries("emp-1", 9*60, 17*60)); err != nil {
			t.Fatalf("SetWeek returned error: %v", err)
		}

		after, err := harness.Availability.GetAvailableSlots(ctx, "emp-1", testfixtures.ReferenceDate, 60)
		if err != nil {
			t.Fatalf("GetAvailableSlots returned error: %v", err)
		}
		if len(after) != 0 {
			t.Fatalf("expected no slots after every day turned off, got %v", after)
		}
	})

	t.Run("validation", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-1")

		var vErr *application.ValidationError

		short := weekEntries("emp-1", 9*60, 17*60, time.Monday)[:6]
		if err := harness.WorkingHours.SetWeek(ctx, "emp-1", short); !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError for 6 entries, got %v", err)
		}

		duplicated := weekEntries("emp-1", 9*60, 17*60, time.Monday)
		duplicated[0].Weekday = time.Monday
		if err := harness.WorkingHours.SetWeek(ctx, "emp-1", duplicated); !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError for duplicate weekday, got %v", err)
		}

		inverted := weekEntries("emp-1", 17*60, 9*60, time.Monday)
		if err := harness.WorkingHours.SetWeek(ctx, "emp-1", inverted); !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError for inverted window, got %v", err)
		}
	})

	t.Run("unknown employee", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)

		if _, err := harness.WorkingHours.GetWeek(ctx, "ghost"); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound from GetWeek, got %v", err)
		}
		entries := weekEntries("ghost", 9*60, 17*60, time.Monday)
		if err := harness.WorkingHours.SetWeek(ctx, "ghost", entries); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound from SetWeek, got %v", err)
		}
	})
}

package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/salon-scheduler/internal/application"
	"github.com/example/salon-scheduler/internal/persistence"
	"github.com/example/salon-scheduler/internal/testfixtures"
)

// seedCompletedVisits stores count completed visits for the client with the
// given employee, one per week ending at last.
func seedCompletedVisits(t *testing.T, harness *testfixtures.Harness, clientID, employeeID string, count int, last time.Time) {
	t.Helper()
	for i := 0; i < count; i++ {
		testfixtures.SeedBooking(t, harness.Store, persistence.Booking{
			ID:              fmt.Sprintf("hist-%s-%d", clientID, i),
			EmployeeID:      employeeID,
			ClientID:        clientID,
			Service:         "haircut",
			Start:           last.AddDate(0, 0, -7*i),
			DurationMinutes: 60,
			Status:          persistence.BookingCompleted,
		})
	}
}

func TestSuggestionService_SuggestBookings(t *testing.T) {
	ctx := context.Background()
	targetDate := "2025-01-16"
	lapsedVisit := time.Date(2024, time.December, 1, 10, 0, 0, 0, time.UTC)

	t.Run("lapsed regular scores history base plus loyalty", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-a")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-a", 9*60, 17*60)
		seedCompletedVisits(t, harness, "client-1", "emp-a", 5, lapsedVisit)

		candidates, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("SuggestBookings returned error: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("expected one candidate, got %d", len(candidates))
		}
		got := candidates[0]
		if got.ClientID != "client-1" || got.EmployeeID != "emp-a" {
			t.Fatalf("unexpected pairing: %+v", got)
		}
		if got.Confidence != 0.7 {
			t.Fatalf("expected confidence 0.7 without stored preferences, got %v", got.Confidence)
		}
		// All historical visits were at 10:00, so the morning slot wins.
		want := time.Date(2025, time.January, 16, 9, 0, 0, 0, time.UTC)
		if !got.SlotStart.Equal(want) {
			t.Fatalf("expected slot %v, got %v", want, got.SlotStart)
		}
		if got.Service != "haircut" {
			t.Fatalf("expected last service carried over, got %s", got.Service)
		}
	})

	t.Run("matching stored preferences raise the score to the cap", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-a")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-a", 9*60, 17*60)
		seedCompletedVisits(t, harness, "client-1", "emp-a", 5, lapsedVisit)
		employee := "emp-a"
		bucket := persistence.BucketMorning
		testfixtures.SeedClient(t, harness.Store, persistence.Client{
			ID:                  "client-1",
			PreferredEmployeeID: &employee,
			PreferredTimeBucket: &bucket,
		})

		candidates, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("SuggestBookings returned error: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("expected one candidate, got %d", len(candidates))
		}
		if candidates[0].Confidence != 1.0 {
			t.Fatalf("expected confidence capped at 1.0, got %v", candidates[0].Confidence)
		}
	})

	t.Run("contradicting stored preferences withhold the bonus", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-a")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-a", 9*60, 17*60)
		seedCompletedVisits(t, harness, "client-1", "emp-a", 5, lapsedVisit)
		other := "emp-z"
		testfixtures.SeedClient(t, harness.Store, persistence.Client{
			ID:                  "client-1",
			PreferredEmployeeID: &other,
		})

		candidates, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("SuggestBookings returned error: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("expected one candidate, got %d", len(candidates))
		}
		if candidates[0].Confidence != 0.7 {
			t.Fatalf("expected confidence 0.7 with mismatched preferences, got %v", candidates[0].Confidence)
		}
	})

	t.Run("recent clients are not targeted", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-a")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-a", 9*60, 17*60)
		recent := time.Date(2025, time.January, 10, 10, 0, 0, 0, time.UTC)
		seedCompletedVisits(t, harness, "client-1", "emp-a", 5, recent)

		candidates, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("SuggestBookings returned error: %v", err)
		}
		if len(candidates) != 0 {
			t.Fatalf("expected no candidates for a recent client, got %v", candidates)
		}
	})

	t.Run("preferred employee is the most frequent in history", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-a")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-a", 9*60, 17*60)
		testfixtures.SeedEmployee(t, harness.Store, "emp-b")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-b", 9*60, 17*60)

		seedCompletedVisits(t, harness, "client-1", "emp-b", 3, lapsedVisit)
		testfixtures.SeedBooking(t, harness.Store, persistence.Booking{
			ID:              "hist-client-1-extra",
			EmployeeID:      "emp-a",
			ClientID:        "client-1",
			Start:           lapsedVisit.AddDate(0, 0, -28),
			DurationMinutes: 60,
			Status:          persistence.BookingCompleted,
		})

		candidates, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("SuggestBookings returned error: %v", err)
		}
		if len(candidates) != 1 || candidates[0].EmployeeID != "emp-b" {
			t.Fatalf("expected emp-b as the preferred employee, got %v", candidates)
		}
	})

	t.Run("inactive preferred employee drops the client", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedInactiveEmployee(t, harness.Store, "emp-gone")
		seedCompletedVisits(t, harness, "client-1", "emp-gone", 5, lapsedVisit)

		candidates, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("SuggestBookings returned error: %v", err)
		}
		if len(candidates) != 0 {
			t.Fatalf("expected no candidates for an inactive employee, got %v", candidates)
		}
	})

	t.Run("no free slots drops the client", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-a")
		seedCompletedVisits(t, harness, "client-1", "emp-a", 5, lapsedVisit)

		candidates, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("SuggestBookings returned error: %v", err)
		}
		if len(candidates) != 0 {
			t.Fatalf("expected no candidates without working hours, got %v", candidates)
		}
	})

	t.Run("ordering and cap are deterministic", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-a")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-a", 9*60, 17*60)

		// Same employee and identical morning history, so both clients land
		// on the same slot with the same score and sort by id.
		seedCompletedVisits(t, harness, "client-b", "emp-a", 3, lapsedVisit)
		seedCompletedVisits(t, harness, "client-a", "emp-a", 3, lapsedVisit)
		// Afternoon-only history sends this client to a later slot.
		afternoonVisit := time.Date(2024, time.December, 1, 14, 30, 0, 0, time.UTC)
		seedCompletedVisits(t, harness, "client-c", "emp-a", 3, afternoonVisit)

		candidates, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("SuggestBookings returned error: %v", err)
		}
		if len(candidates) != 3 {
			t.Fatalf("expected three candidates, got %d", len(candidates))
		}
		if candidates[0].ClientID != "client-a" || candidates[1].ClientID != "client-b" {
			t.Fatalf("expected client id tiebreak, got %v", candidates)
		}
		if !candidates[2].SlotStart.After(candidates[1].SlotStart) {
			t.Fatalf("expected the afternoon client last, got %v", candidates)
		}

		capped, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 2)
		if err != nil {
			t.Fatalf("SuggestBookings returned error: %v", err)
		}
		if len(capped) != 2 {
			t.Fatalf("expected the cap to hold, got %d", len(capped))
		}
	})

	t.Run("identical inputs produce identical output", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)
		testfixtures.SeedEmployee(t, harness.Store, "emp-a")
		testfixtures.SeedFullWeek(t, harness.Store, "emp-a", 9*60, 17*60)
		seedCompletedVisits(t, harness, "client-1", "emp-a", 5, lapsedVisit)

		first, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("first run returned error: %v", err)
		}
		second, err := harness.Suggestions.SuggestBookings(ctx, targetDate, 0)
		if err != nil {
			t.Fatalf("second run returned error: %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("runs disagree: %v vs %v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("candidate %d differs: %+v vs %+v", i, first[i], second[i])
			}
		}
	})

	t.Run("date validation", func(t *testing.T) {
		harness := testfixtures.NewHarness(nil)

		var vErr *application.ValidationError
		if _, err := harness.Suggestions.SuggestBookings(ctx, "16/01/2025", 0); !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError for bad format, got %v", err)
		}
		if _, err := harness.Suggestions.SuggestBookings(ctx, "2025-01-01", 0); !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError for a past date, got %v", err)
		}
	})
}

package testfixtures

import (
	"time"

	"github.com/example/salon-scheduler/internal/application"
	"github.com/example/salon-scheduler/internal/persistence/memory"
)

// Harness bundles a fully wired service stack over in-memory storage with a
// deterministic clock and id generator.
type Harness struct {
	Store          *memory.Storage
	Clock          *Clock
	IDs            *IDGenerator
	Availability   *application.AvailabilityService
	Bookings       *application.BookingService
	WorkingHours   *application.WorkingHoursService
	Unavailability *application.UnavailabilityService
	Suggestions    *application.SuggestionService
}

// NewHarness wires every application service against a fresh in-memory store.
// loc nil defaults to UTC.
func NewHarness(loc *time.Location) *Harness {
	if loc == nil {
		loc = time.UTC
	}

	store := memory.NewStorage()
	clock := NewClock(time.Time{})
	ids := NewIDGenerator("fix")

	availability := application.NewAvailabilityService(
		store, store, store, store, loc, 0, clock.NowFunc(), nil)
	bookings := application.NewBookingService(
		store, store, store, store, availability, loc, ids.NextFunc(), clock.NowFunc(), nil)
	workingHours := application.NewWorkingHoursService(store, store, availability, nil)
	unavailability := application.NewUnavailabilityService(store, store, availability, ids.NextFunc(), nil)
	suggestions := application.NewSuggestionService(
		store, store, store, availability, loc, 0, clock.NowFunc(), nil)

	return &Harness{
		Store:          store,
		Clock:          clock,
		IDs:            ids,
		Availability:   availability,
		Bookings:       bookings,
		WorkingHours:   workingHours,
		Unavailability: unavailability,
		Suggestions:    suggestions,
	}
}

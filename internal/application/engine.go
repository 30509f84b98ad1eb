package application

// Engine bundles the service surface the scheduler exposes to embedding
// programs: availability reads, booking admission and lifecycle, template and
// exclusion management, and suggestion generation. It exists so callers wire
// one value instead of five.
type Engine struct {
	Availability   *AvailabilityService
	Bookings       *BookingService
	WorkingHours   *WorkingHoursService
	Unavailability *UnavailabilityService
	Suggestions    *SuggestionService
}

package persistence

import "time"

// Employee mirrors a staff member owned by the external identity subsystem.
// Only the id and active flag matter to scheduling; the display name exists so
// operators can read logs and suggestion output.
type Employee struct {
	ID          string
	DisplayName string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkingHoursEntry is one weekday of an employee's recurring weekly template.
// Start and End are minutes from midnight in the salon time zone. When Working
// is false the window fields are ignored by availability computation.
type WorkingHoursEntry struct {
	EmployeeID  string
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
	Working     bool
}

// UnavailabilityType classifies an ad-hoc exclusion period.
type UnavailabilityType string

const (
	UnavailabilityVacation  UnavailabilityType = "vacation"
	UnavailabilitySickLeave UnavailabilityType = "sick_leave"
	UnavailabilityDayOff    UnavailabilityType = "day_off"
)

// KnownUnavailabilityType reports whether t is one of the supported types.
func KnownUnavailabilityType(t UnavailabilityType) bool {
	switch t {
	case UnavailabilityVacation, UnavailabilitySickLeave, UnavailabilityDayOff:
		return true
	}
	return false
}

// UnavailabilityPeriod is an explicit datetime range an employee cannot be
// booked. Periods may overlap each other; the interval algebra merges them at
// read time.
type UnavailabilityPeriod struct {
	ID         string
	EmployeeID string
	Start      time.Time
	End        time.Time
	Type       UnavailabilityType
	Reason     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// KnownBookingStatus reports whether s is one of the supported statuses.
func KnownBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// DefaultBookingDurationMinutes is assumed when a booking row carries no
// duration.
const DefaultBookingDurationMinutes = 60

// Booking is an appointment claim on an employee's time. Bookings are never
// hard-deleted; cancellation is a status transition so history stays intact
// for audit and suggestion scoring.
type Booking struct {
	ID              string
	EmployeeID      string
	ClientID        string
	Service         string
	Start           time.Time
	DurationMinutes int
	Status          BookingStatus
	Note            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive reports whether the booking occupies its time window.
func (b Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Duration returns the booked duration, substituting the default when the row
// carries none.
func (b Booking) Duration() time.Duration {
	minutes := b.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultBookingDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// End returns the exclusive end instant of the booking window.
func (b Booking) End() time.Time {
	return b.Start.Add(b.Duration())
}

// TimeBucket buckets a salon-local time of day for preference matching.
type TimeBucket string

const (
	BucketMorning   TimeBucket = "morning"
	BucketAfternoon TimeBucket = "afternoon"
	BucketEvening   TimeBucket = "evening"
)

// Client carries the stored explicit preferences consulted by the suggestion
// engine. Contact details live with the external CRM.
type Client struct {
	ID                  string
	DisplayName         string
	PreferredEmployeeID *string
	PreferredTimeBucket *TimeBucket
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

package application

import (
	"fmt"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// DateLayout is the boundary representation for calendar days.
const DateLayout = "2006-01-02"

// TimeOfDayLayout is the boundary representation for salon-local times.
const TimeOfDayLayout = "15:04"

// DefaultMinimumDurationMinutes is the room an IsAvailable check assumes when
// the caller supplies no duration.
const DefaultMinimumDurationMinutes = 30

// WeekTemplate is a full seven-day working hours view. Days without a stored
// entry carry the display fallback window and Working=false so callers never
// branch on absence.
type WeekTemplate struct {
	EmployeeID string
	Days       [7]persistence.WorkingHoursEntry
}

// TryBookParams carries the payload of a booking admission attempt.
type TryBookParams struct {
	EmployeeID      string
	Start           time.Time
	DurationMinutes int
	ClientID        string
	Service         string
	Note            string
}

// SuggestionCandidate is one proposed (client, slot) match emitted by the
// suggestion engine.
type SuggestionCandidate struct {
	ClientID   string
	EmployeeID string
	SlotStart  time.Time
	Service    string
	Confidence float64
	Reason     string
}

// UnavailabilityInput carries the payload for recording a new exclusion
// period.
type UnavailabilityInput struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
	Type       persistence.UnavailabilityType
	Reason     string
}

// parseDate interprets a YYYY-MM-DD boundary value as midnight in the salon
// time zone.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day, nil
}

// parseTimeOfDay interprets an HH:MM boundary value as minutes from midnight.
func parseTimeOfDay(value string) (int, error) {
	t, err := time.Parse(TimeOfDayLayout, value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// formatMinute renders minutes-from-midnight as an HH:MM boundary value.
func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// minuteOfDay returns t's offset in minutes from the given salon-local day
// start.
func minuteOfDay(t, dayStart time.Time) int {
	return int(t.Sub(dayStart) / time.Minute)
}

// bucketOfMinute assigns a salon-local minute-of-day to a preference bucket.
// Morning runs until noon, afternoon until 17:00, evening after.
func bucketOfMinute(minute int) persistence.TimeBucket {
	switch {
	case minute < 12*60:
		return persistence.BucketMorning
	case minute < 17*60:
		return persistence.BucketAfternoon
	default:
		return persistence.BucketEvening
	}
}

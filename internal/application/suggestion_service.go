package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// DefaultSuggestionThresholdDays is how long a client must be inactive before
// the engine proposes a win-back slot.
const DefaultSuggestionThresholdDays = 21

// suggestionHistoryLimit caps how much booking history is consulted per
// client.
const suggestionHistoryLimit = 50

// suggestionSlotDurationMinutes is the slot length suggestions are matched
// against.
const suggestionSlotDurationMinutes = 60

// SuggestionService proposes (client, slot) matches for under-utilized future
// days: clients whose last completed visit is older than the threshold are
// paired with free slots of their historically preferred employee. The
// heuristic is deterministic; identical inputs always produce identical
// output.
type SuggestionService struct {
	employees     persistence.EmployeeRepository
	bookings      persistence.BookingRepository
	clients       persistence.ClientRepository
	availability  *AvailabilityService
	loc           *time.Location
	thresholdDays int
	now           func() time.Time
	logger        *slog.Logger
}

// NewSuggestionService wires dependencies for suggestion generation.
// thresholdDays zero selects the 21 day default.
func NewSuggestionService(
	employees persistence.EmployeeRepository,
	bookings persistence.BookingRepository,
	clients persistence.ClientRepository,
	availability *AvailabilityService,
	loc *time.Location,
	thresholdDays int,
	now func() time.Time,
	logger *slog.Logger,
) *SuggestionService {
	if loc == nil {
		loc = time.UTC
	}
	if thresholdDays <= 0 {
		thresholdDays = DefaultSuggestionThresholdDays
	}
	if now == nil {
		now = time.Now
	}
	return &SuggestionService{
		employees:     employees,
		bookings:      bookings,
		clients:       clients,
		availability:  availability,
		loc:           loc,
		thresholdDays: thresholdDays,
		now:           now,
		logger:        loggerOrNop(logger),
	}
}

// SuggestBookings ranks win-back candidates for the given YYYY-MM-DD date.
// Results are ordered by earliest slot, then confidence descending, then
// client id, and capped at maxResults (non-positive means no cap).
func (s *SuggestionService) SuggestBookings(ctx context.Context, date string, maxResults int) ([]SuggestionCandidate, error) {
	day, err := parseDate(date, s.loc)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "must be formatted YYYY-MM-DD")
		return nil, vErr
	}

	today := s.today()
	if day.Before(today) {
		vErr := &ValidationError{}
		vErr.add("date", "must not be in the past")
		return nil, vErr
	}

	clientIDs, err := s.bookings.ListClientIDsWithCompletedBookings(ctx)
	if err != nil {
		return nil, storageErr("list suggestion candidates", err)
	}

	var candidates []SuggestionCandidate
	for _, clientID := range clientIDs {
		candidate, ok, err := s.evaluateClient(ctx, clientID, day, date)
		if err != nil {
			return nil, err
		}
		if ok {
			candidates = append(candidates, candidate)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].SlotStart.Equal(candidates[j].SlotStart) {
			return candidates[i].SlotStart.Before(candidates[j].SlotStart)
		}
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].ClientID < candidates[j].ClientID
	})

	if maxResults > 0 && len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	s.logger.Info("suggestions computed", "date", date, "candidates", len(candidates))
	return candidates, nil
}

func (s *SuggestionService) evaluateClient(ctx context.Context, clientID string, day time.Time, date string) (SuggestionCandidate, bool, error) {
	history, err := s.bookings.ListCompletedForClient(ctx, clientID, suggestionHistoryLimit)
	if err != nil {
		return SuggestionCandidate{}, false, storageErr("load client history", err)
	}
	if len(history) == 0 {
		return SuggestionCandidate{}, false, nil
	}

	lastVisit := history[0].Start
	inactive := s.now().Sub(lastVisit)
	if inactive < time.Duration(s.thresholdDays)*24*time.Hour {
		return SuggestionCandidate{}, false, nil
	}

	employeeID := preferredEmployee(history)
	employee, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return SuggestionCandidate{}, false, nil
		}
		return SuggestionCandidate{}, false, storageErr("load employee", err)
	}
	if !employee.Active {
		return SuggestionCandidate{}, false, nil
	}

	slots, err := s.availability.GetAvailableSlots(ctx, employeeID, date, suggestionSlotDurationMinutes)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return SuggestionCandidate{}, false, nil
		}
		return SuggestionCandidate{}, false, err
	}
	if len(slots) == 0 {
		return SuggestionCandidate{}, false, nil
	}

	bucket := s.preferredBucket(history)
	slotMinute, slotInBucket := pickSlot(slots, bucket)

	score := 0.5
	prefsMatched := false
	client, err := s.clients.GetClient(ctx, clientID)
	switch {
	case err == nil:
		prefsMatched = storedPreferencesMatch(client, employeeID, bucketOfMinute(slotMinute))
	case errors.Is(err, persistence.ErrNotFound):
		// No stored preferences; history alone drives the score.
	default:
		return SuggestionCandidate{}, false, storageErr("load client", err)
	}
	if prefsMatched {
		score += 0.3
	}
	if len(history) >= 3 {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}

	reason := fmt.Sprintf("inactive %d days; %d completed visits, usually with %s",
		int(inactive.Hours()/24), len(history), employeeID)
	if slotInBucket {
		reason += fmt.Sprintf("; prefers %s", bucket)
	}

	return SuggestionCandidate{
		ClientID:   clientID,
		EmployeeID: employeeID,
		SlotStart:  day.Add(time.Duration(slotMinute) * time.Minute),
		Service:    history[0].Service,
		Confidence: score,
		Reason:     reason,
	}, true, nil
}

// preferredEmployee returns the employee appearing most often in the client's
// history; ties resolve to the lexicographically smallest id so the result is
// stable.
func preferredEmployee(history []persistence.Booking) string {
	counts := make(map[string]int)
	for _, booking := range history {
		counts[booking.EmployeeID]++
	}

	best := ""
	bestCount := 0
	for id, count := range counts {
		if count > bestCount || (count == bestCount && (best == "" || id < best)) {
			best = id
			bestCount = count
		}
	}
	return best
}

// preferredBucket returns the mode of the client's historical visit buckets.
// Ties resolve to the earliest bucket of the day.
func (s *SuggestionService) preferredBucket(history []persistence.Booking) persistence.TimeBucket {
	counts := make(map[persistence.TimeBucket]int)
	for _, booking := range history {
		local := booking.Start.In(s.loc)
		counts[bucketOfMinute(local.Hour()*60+local.Minute())]++
	}

	order := []persistence.TimeBucket{
		persistence.BucketMorning,
		persistence.BucketAfternoon,
		persistence.BucketEvening,
	}
	best := persistence.BucketMorning
	bestCount := -1
	for _, bucket := range order {
		if counts[bucket] > bestCount {
			best = bucket
			bestCount = counts[bucket]
		}
	}
	return best
}

// pickSlot chooses the earliest slot inside the preferred bucket, falling back
// to the earliest slot of the day. Slots arrive ascending from the
// availability service.
func pickSlot(slots []string, bucket persistence.TimeBucket) (minute int, inBucket bool) {
	first := -1
	for _, slot := range slots {
		m, err := parseTimeOfDay(slot)
		if err != nil {
			continue
		}
		if first < 0 {
			first = m
		}
		if bucketOfMinute(m) == bucket {
			return m, true
		}
	}
	return first, false
}

// storedPreferencesMatch reports whether the client has at least one explicit
// preference stored and every stored preference agrees with the proposed
// match.
func storedPreferencesMatch(client persistence.Client, employeeID string, bucket persistence.TimeBucket) bool {
	if client.PreferredEmployeeID == nil && client.PreferredTimeBucket == nil {
		return false
	}
	if client.PreferredEmployeeID != nil && *client.PreferredEmployeeID != employeeID {
		return false
	}
	if client.PreferredTimeBucket != nil && *client.PreferredTimeBucket != bucket {
		return false
	}
	return true
}

func (s *SuggestionService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

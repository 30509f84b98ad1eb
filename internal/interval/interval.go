// Package interval implements the minute-granularity interval algebra the
// availability engine is built on. All intervals are half-open [Start, End)
// ranges of minutes; callers decide what minute zero means (typically midnight
// of a salon-local day).
package interval

import "sort"

// Interval is a half-open [Start, End) range expressed in whole minutes.
type Interval struct {
	Start int
	End   int
}

// IsValid reports whether the interval covers at least one minute.
func (iv Interval) IsValid() bool {
	return iv.Start < iv.End
}

// Length returns the number of minutes the interval spans.
func (iv Interval) Length() int {
	if !iv.IsValid() {
		return 0
	}
	return iv.End - iv.Start
}

// Contains reports whether the minute m falls inside the interval.
func (iv Interval) Contains(m int) bool {
	return m >= iv.Start && m < iv.End
}

// Overlaps reports whether two intervals share at least one minute. Touching
// endpoints do not overlap: a booking ending at 12:00 does not conflict with
// one starting at 12:00.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Intersect returns the overlapping portion of a and b. The second return
// value is false when the intervals do not overlap.
func Intersect(a, b Interval) (Interval, bool) {
	out := Interval{Start: max(a.Start, b.Start), End: min(a.End, b.End)}
	if !out.IsValid() {
		return Interval{}, false
	}
	return out, true
}

// Merge collapses overlapping and touching intervals into a sorted minimal
// set. Invalid (empty) inputs are dropped. The input slice is not modified.
func Merge(intervals []Interval) []Interval {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.IsValid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Start == valid[j].Start {
			return valid[i].End < valid[j].End
		}
		return valid[i].Start < valid[j].Start
	})

	merged := []Interval{valid[0]}
	for _, iv := range valid[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Subtract removes every exclusion from the base window and returns the
// remaining gaps in ascending order. Exclusions are first clipped to the base
// window, so an exclusion reaching outside working hours only removes the part
// that actually intersects them.
func Subtract(base Interval, exclusions []Interval) []Interval {
	if !base.IsValid() {
		return nil
	}

	clipped := make([]Interval, 0, len(exclusions))
	for _, ex := range exclusions {
		if cut, ok := Intersect(base, ex); ok {
			clipped = append(clipped, cut)
		}
	}

	merged := Merge(clipped)
	if len(merged) == 0 {
		return []Interval{base}
	}

	var free []Interval
	cursor := base.Start
	for _, ex := range merged {
		if ex.Start > cursor {
			free = append(free, Interval{Start: cursor, End: ex.Start})
		}
		if ex.End > cursor {
			cursor = ex.End
		}
	}
	if cursor < base.End {
		free = append(free, Interval{Start: cursor, End: base.End})
	}
	return free
}

// Clip tiles each free interval with candidate start minutes. Starts are
// spaced stepMinutes apart beginning at the interval start, and a start is
// emitted only while a full durationMinutes still fits before the interval
// ends. Results are ascending because the input intervals are.
func Clip(intervals []Interval, stepMinutes, durationMinutes int) []int {
	if stepMinutes <= 0 || durationMinutes <= 0 {
		return nil
	}

	var starts []int
	for _, iv := range intervals {
		if !iv.IsValid() {
			continue
		}
		for t := iv.Start; t+durationMinutes <= iv.End; t += stepMinutes {
			starts = append(starts, t)
		}
	}
	return starts
}

// ContainsWithRoom reports whether minute m falls inside one of the intervals
// with at least room minutes remaining before that interval ends.
func ContainsWithRoom(intervals []Interval, m, room int) bool {
	for _, iv := range intervals {
		if iv.Contains(m) && m+room <= iv.End {
			return true
		}
	}
	return false
}

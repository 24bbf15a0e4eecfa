package schedule

import (
	"time"
)

// DefaultStep is the slot scan granularity.
const DefaultStep = 30 * time.Minute

// Slot is a candidate start time that fits the service duration inside
// the working window without touching any booked interval.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Label formats the slot start as HH:MM.
func (s Slot) Label() string {
	return s.Start.Format(hhmmLayout)
}

// Slots scans the window at fixed step and keeps every candidate
// [start, start+duration) that overlaps no booked interval. The last
// candidate may end exactly at the window end. Each candidate is checked
// against the full booked list independently, so the result is correct
// regardless of booking order.
func Slots(window Window, duration time.Duration, step time.Duration, booked []Booked) []Slot {
	if step <= 0 {
		step = DefaultStep
	}
	if duration <= 0 {
		return nil
	}

	var out []Slot
	for start := window.Start; !start.Add(duration).After(window.End); start = start.Add(step) {
		candidate := FromStart(start, duration)
		if IsFree(candidate, booked) {
			out = append(out, Slot{Start: candidate.Start, End: candidate.End})
		}
	}
	return out
}

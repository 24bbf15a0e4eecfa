// Package schedule holds the availability core: interval arithmetic,
// working-hours windows and slot generation. It is pure computation with
// no storage or clock dependencies, so the booking invariants can be
// tested in isolation.
package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Interval is a half-open time interval [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// FromStart builds the interval [start, start+duration).
func FromStart(start time.Time, duration time.Duration) Interval {
	return Interval{Start: start, End: start.Add(duration)}
}

// Overlaps is the canonical half-open overlap test: [a1,a2) and [b1,b2)
// overlap iff a1 < b2 && b1 < a2. Every conflict decision in the system
// goes through this one predicate.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Overlaps reports whether the two intervals overlap.
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// Booked is an existing appointment's interval, tagged with its ID so
// conflict checks can report which bookings collide.
type Booked struct {
	ID       uuid.UUID
	Interval Interval
}

// Conflicts returns the IDs of booked intervals overlapping the
// candidate, in input order. An empty result means the candidate is free.
func Conflicts(candidate Interval, booked []Booked) []uuid.UUID {
	var ids []uuid.UUID
	for _, b := range booked {
		if candidate.Overlaps(b.Interval) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// IsFree reports whether the candidate overlaps none of the booked
// intervals.
func IsFree(candidate Interval, booked []Booked) bool {
	return len(Conflicts(candidate, booked)) == 0
}

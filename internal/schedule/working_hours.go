package schedule

import (
	"fmt"
	"time"
)

const hhmmLayout = "15:04"

// Window is a professional's working window on a concrete calendar day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Interval returns the window as a half-open interval.
func (w Window) Interval() Interval {
	return Interval{Start: w.Start, End: w.End}
}

// ParseHHMM validates an "HH:MM" clock string and returns its offset
// from midnight.
func ParseHHMM(s string) (time.Duration, error) {
	t, err := time.Parse(hhmmLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// DayWindow anchors the HH:MM pair to the given calendar date, in the
// date's location. Start must precede end.
func DayWindow(date time.Time, startHHMM, endHHMM string) (Window, error) {
	start, err := ParseHHMM(startHHMM)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseHHMM(endHHMM)
	if err != nil {
		return Window{}, err
	}
	if end <= start {
		return Window{}, fmt.Errorf("working hours end %s must be after start %s", endHHMM, startHHMM)
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return Window{
		Start: midnight.Add(start),
		End:   midnight.Add(end),
	}, nil
}

// DayBounds returns the [midnight, next midnight) interval containing
// date, used to fetch a professional's appointments for a whole day.
func DayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

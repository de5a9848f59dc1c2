package entities

import (
	"fmt"
	"time"
)

// DateFormat is the canonical date layout used in keys, CSV files and output.
const DateFormat = "2006-01-02"

// Day returns a date normalized to UTC midnight. All dates in the planner
// must be constructed through Day (or FormatDate round-trips) so they are
// safe to use as map keys.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Midnight truncates an arbitrary timestamp to its UTC calendar day.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return Day(u.Year(), u.Month(), u.Day())
}

// FormatDate renders a date in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a date in the canonical layout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Midnight(t), nil
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)) / (24 * time.Hour))
}

// Horizon is a closed range of planning days [Start, End].
type Horizon struct {
	Start time.Time
	End   time.Time
}

// NewHorizon creates a validated horizon.
func NewHorizon(start, end time.Time) (Horizon, error) {
	start, end = Midnight(start), Midnight(end)
	if end.Before(start) {
		return Horizon{}, fmt.Errorf("horizon end %s before start %s", FormatDate(end), FormatDate(start))
	}
	return Horizon{Start: start, End: end}, nil
}

// NumDays returns the number of days covered by the horizon.
func (h Horizon) NumDays() int {
	return DaysBetween(h.Start, h.End) + 1
}

// Days enumerates every day in the horizon in order.
func (h Horizon) Days() []time.Time {
	days := make([]time.Time, 0, h.NumDays())
	for d := h.Start; !d.After(h.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether the date falls within the horizon.
func (h Horizon) Contains(d time.Time) bool {
	d = Midnight(d)
	return !d.Before(h.Start) && !d.After(h.End)
}

// Shift returns the horizon moved forward by n days. The rolling
// orchestrator shifts by one day per cycle.
func (h Horizon) Shift(n int) Horizon {
	return Horizon{Start: h.Start.AddDate(0, 0, n), End: h.End.AddDate(0, 0, n)}
}

func (h Horizon) String() string {
	return fmt.Sprintf("[%s .. %s]", FormatDate(h.Start), FormatDate(h.End))
}

package schedule

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = "2006-01-02 15:04"
)

// Interval is a half-open span of absolute time [Start, End) occupied by a
// booking.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Strict
// inequalities on both sides: intervals that merely touch at a boundary do
// not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// ToInterval converts a wall-clock (date, time) plus duration into an
// absolute interval, interpreting the wall clock in the given IANA zone.
// An empty zone falls back to UTC for rows written before zones were
// recorded. Malformed input is a programming error upstream and is returned
// loudly, never treated as "no conflict".
func ToInterval(date, tm string, durationHours int, timeZone string) (Interval, error) {
	loc := time.UTC
	if timeZone != "" {
		var err error
		loc, err = time.LoadLocation(timeZone)
		if err != nil {
			return Interval{}, fmt.Errorf("schedule: unknown time zone %q: %w", timeZone, err)
		}
	}
	return toIntervalIn(date, tm, durationHours, loc)
}

func toIntervalIn(date, tm string, durationHours int, loc *time.Location) (Interval, error) {
	start, err := time.ParseInLocation(dateTimeLayout, date+" "+tm, loc)
	if err != nil {
		return Interval{}, fmt.Errorf("schedule: bad date/time %q %q: %w", date, tm, err)
	}
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationHours) * time.Hour),
	}, nil
}

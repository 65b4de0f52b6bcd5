package schedule

import (
	"errors"
	"time"
)

// Reason explains why a slot is disabled. Empty for available slots.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNoDate           Reason = "no-date-selected"
	ReasonPast             Reason = "past"
	ReasonEndsAfterClosing Reason = "ends-after-closing"
	ReasonBooked           Reason = "booked"
)

var ErrInvalidDuration = errors.New("schedule: duration outside allowed set")

// ExistingBooking is the read-only snapshot shape the resolver consumes.
// The storage layer supplies only non-cancelled bookings for one date;
// cancelled records never reach the resolver and never block a slot.
type ExistingBooking struct {
	ID            int64
	Date          string
	Time          string
	DurationHours int
	TimeZone      string
}

// Request carries every input Evaluate depends on. The resolver holds no
// state of its own: same Request, same candidates, same snapshot, same
// answer.
type Request struct {
	// Date is the selected resource-local calendar date ("2006-01-02").
	// Empty means nothing selected yet: every slot comes back disabled
	// with ReasonNoDate and no other rule runs.
	Date          string
	DurationHours int
	// ExcludeBookingID exempts the booking being edited from the conflict
	// rule so it cannot collide with itself. Zero means no exemption.
	ExcludeBookingID int64
	// Now is the caller's clock. The past-time rule reflects whether a
	// user sitting at this clock can still pick the slot, regardless of
	// any booking's recorded zone.
	Now time.Time
	// CloseHour and Location define the closing instant of the selected
	// date. Nil Location means UTC.
	CloseHour int
	Location  *time.Location
}

// Evaluate produces a verdict for every candidate slot, preserving grid
// order. Per slot the rules run in fixed order and the first one that trips
// wins: past, ends-after-closing, booked. The conflict rule compares
// absolute intervals, each existing booking converted in its own recorded
// zone, and short-circuits on the first overlap.
//
// Evaluate is advisory: the snapshot may be stale relative to concurrently
// committing clients, and the storage layer's serialized check at commit
// time remains authoritative.
func Evaluate(req Request, candidates []Slot, existing []ExistingBooking) ([]Slot, error) {
	out := make([]Slot, 0, len(candidates))

	if req.Date == "" {
		for _, c := range candidates {
			c.Disabled = true
			c.Reason = ReasonNoDate
			c.Label = labelWithReason(c.Label, ReasonNoDate, req.CloseHour)
			out = append(out, c)
		}
		return out, nil
	}

	if !DurationAllowed(req.DurationHours) {
		return nil, ErrInvalidDuration
	}

	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}

	closing, err := toIntervalIn(req.Date, "00:00", req.CloseHour, loc)
	if err != nil {
		return nil, err
	}
	closingInstant := closing.End

	today := req.Now.In(loc).Format(dateLayout)

	for _, c := range candidates {
		proposed, err := toIntervalIn(req.Date, c.Value, req.DurationHours, loc)
		if err != nil {
			return nil, err
		}

		reason := ReasonNone
		switch {
		case req.Date == today && proposed.Start.Before(req.Now):
			reason = ReasonPast
		case proposed.End.After(closingInstant):
			reason = ReasonEndsAfterClosing
		default:
			for _, b := range existing {
				if req.ExcludeBookingID != 0 && b.ID == req.ExcludeBookingID {
					continue
				}
				booked, err := ToInterval(b.Date, b.Time, b.DurationHours, b.TimeZone)
				if err != nil {
					return nil, err
				}
				if proposed.Overlaps(booked) {
					reason = ReasonBooked
					break
				}
			}
		}

		c.Disabled = reason != ReasonNone
		c.Reason = reason
		c.Label = labelWithReason(c.Label, reason, req.CloseHour)
		out = append(out, c)
	}
	return out, nil
}

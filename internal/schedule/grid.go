package schedule

import (
	"fmt"
	"time"
)

// Operating-day template for the single studio room. These are fixed
// configuration, not data fetched from anywhere.
const (
	OpenHour         = 10
	CloseHour        = 18
	StepMinutes      = 60
	MinDurationHours = 2
	MaxDurationHours = 4
)

// DurationAllowed reports whether a session length is bookable.
func DurationAllowed(hours int) bool {
	return hours >= MinDurationHours && hours <= MaxDurationHours
}

// Slot is one candidate start time in the day's grid, annotated by Evaluate.
// Value is the 24h wall clock ("15:00"), Label the display form. Slots are
// recomputed on every input change and never persisted.
type Slot struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
	Reason   Reason `json:"reason,omitempty"`
}

// Slots generates the fixed catalog of candidate start times for a business
// day, stepping stepMinutes from openHour. The last start is the one that
// still fits the shortest bookable session before closeHour; later starts
// could never be picked. Pure function of its arguments; identical output
// on every call.
func Slots(openHour, closeHour, stepMinutes int) []Slot {
	open := time.Date(0, time.January, 1, openHour, 0, 0, 0, time.UTC)
	close := time.Date(0, time.January, 1, closeHour, 0, 0, 0, time.UTC)
	step := time.Duration(stepMinutes) * time.Minute
	minSession := MinDurationHours * time.Hour

	var out []Slot
	for t := open; !t.Add(minSession).After(close); t = t.Add(step) {
		out = append(out, Slot{
			Value: t.Format("15:04"),
			Label: t.Format("3:04 PM"),
		})
	}
	return out
}

// DefaultSlots returns the grid for the studio's configured hours.
func DefaultSlots() []Slot {
	return Slots(OpenHour, CloseHour, StepMinutes)
}

func formatHour12(hour int) string {
	return time.Date(0, time.January, 1, hour, 0, 0, 0, time.UTC).Format("3:04 PM")
}

func labelWithReason(label string, reason Reason, closeHour int) string {
	switch reason {
	case ReasonNoDate:
		return label + " (Select a date)"
	case ReasonPast:
		return label + " (Past time)"
	case ReasonEndsAfterClosing:
		return fmt.Sprintf("%s (Ends past %s)", label, formatHour12(closeHour))
	case ReasonBooked:
		return label + " (Booked)"
	default:
		return label
	}
}

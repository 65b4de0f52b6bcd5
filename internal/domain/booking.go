package domain

import "time"

type BookingStatus string

const (
	BookingWaitingConfirmation BookingStatus = "waiting for confirmation"
	BookingConfirmed           BookingStatus = "confirmed"
	BookingCancelled           BookingStatus = "cancelled"
)

// CanTransitionTo reports whether the lifecycle allows moving to the target
// status. Cancelled is terminal.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	switch s {
	case BookingWaitingConfirmation:
		return target == BookingConfirmed || target == BookingCancelled
	case BookingConfirmed:
		return target == BookingCancelled
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCredits PaymentMethod = "credits"
)

// RatePerHour is the studio rate in IDR. Single room, flat rate.
const RatePerHour int64 = 200000

// Booking is a committed reservation of the studio. Date and Time are the
// wall clock the client picked; TimeZone is the IANA zone they picked it in.
// StartsAt and EndsAt are the derived absolute instants the overlap
// constraint is enforced on.
type Booking struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"user_id"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	DurationHours int            `json:"duration"`
	TimeZone      string         `json:"time_zone"`
	StartsAt      time.Time      `json:"starts_at"`
	EndsAt        time.Time      `json:"ends_at"`
	Equipment     []EquipmentRef `json:"equipment"`
	Total         int64          `json:"total"`
	PaymentMethod PaymentMethod  `json:"payment_method"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	Status        BookingStatus  `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	CancelledAt   *time.Time     `json:"cancelled_at,omitempty"`
}

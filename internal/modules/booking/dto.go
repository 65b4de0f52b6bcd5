package booking

import "djstudio/internal/domain"

type EquipmentSelection struct {
	ID int64 `json:"id" validate:"required"`
}

// SubmitBookingRequest covers both a fresh submission and an in-place edit;
// EditingBookingID is zero for new bookings. Total is optional: when the
// client sends one it must match the server-side price.
type SubmitBookingRequest struct {
	Date             string               `json:"date" validate:"required"`
	Time             string               `json:"time" validate:"required"`
	DurationHours    int                  `json:"duration" validate:"required,oneof=2 3 4"`
	TimeZone         string               `json:"time_zone" validate:"required"`
	Equipment        []EquipmentSelection `json:"equipment" validate:"required,min=1,dive"`
	PaymentMethod    domain.PaymentMethod `json:"payment_method" validate:"required,oneof=cash credits"`
	Total            int64                `json:"total"`
	EditingBookingID int64                `json:"editing_booking_id"`
}

// BookedSlot is the one-date snapshot shape handed to clients so they can
// run their own advisory conflict math. It deliberately carries no owner
// or payment details.
type BookedSlot struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	DurationHours int    `json:"duration"`
	TimeZone      string `json:"time_zone"`
}

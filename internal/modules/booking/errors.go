package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotAvailable            = errors.New("slot not available")
	ErrEquipmentSelection      = errors.New("booking needs at least one player and one mixer")
	ErrInsufficientCredits     = errors.New("not enough credits")
	ErrNotFound                = errors.New("booking not found")
	ErrForbidden               = errors.New("not allowed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

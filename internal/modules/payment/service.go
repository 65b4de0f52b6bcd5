package payment

import (
	"context"
	"errors"

	"djstudio/internal/domain"
	"djstudio/internal/repository"
)

var (
	ErrNotFound    = errors.New("booking not found")
	ErrForbidden   = errors.New("not allowed")
	ErrAlreadyPaid = errors.New("payment already confirmed")
	ErrCancelled   = errors.New("booking is cancelled")
)

type bookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

type Service struct {
	bookings bookingStore
}

func NewService(bookings bookingStore) *Service {
	return &Service{bookings: bookings}
}

// ConfirmPayment flips a booking's payment status from pending to paid.
// Idempotency is an error, not a no-op: a second confirmation reports
// ErrAlreadyPaid. Booking status is deliberately untouched.
func (s *Service) ConfirmPayment(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrCancelled
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	if err := s.bookings.UpdatePaymentStatus(ctx, bookingID, domain.PaymentPaid); err != nil {
		return nil, err
	}
	b.PaymentStatus = domain.PaymentPaid
	return b, nil
}

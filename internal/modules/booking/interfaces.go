package booking

import (
	"context"

	"djstudio/internal/domain"
)

// BookingRepository is the storage collaborator. Its *IfAvailable methods
// perform the authoritative serialized overlap check at commit time; the
// engine's verdict is advisory only.
type BookingRepository interface {
	CreateIfAvailable(ctx context.Context, b *domain.Booking) error
	UpdateIfAvailable(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetForDate(ctx context.Context, date string) ([]domain.Booking, error)
	GetByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// CreditWallet debits and refunds user credit balances.
type CreditWallet interface {
	SpendCredits(ctx context.Context, userID, amount int64) error
	RefundCredits(ctx context.Context, userID, amount int64) error
}

// ChangeNotifier fans a booking change out to clients watching a date so
// they refetch their snapshot.
type ChangeNotifier interface {
	BookingsChanged(date string, bookingID int64, event string)
}

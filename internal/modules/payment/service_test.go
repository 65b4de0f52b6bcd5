package payment

import (
	"context"
	"testing"

	"djstudio/internal/domain"
	"djstudio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func TestConfirmPayment_Success(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewService(store)

	b := &domain.Booking{
		ID: 5, UserID: 7,
		PaymentStatus: domain.PaymentPending,
		Status:        domain.BookingConfirmed,
	}
	store.On("GetByID", mock.Anything, int64(5)).Return(b, nil)
	store.On("UpdatePaymentStatus", mock.Anything, int64(5), domain.PaymentPaid).Return(nil)

	got, err := svc.ConfirmPayment(context.Background(), 7, 5)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	store.AssertExpectations(t)
}

func TestConfirmPayment_SecondConfirmationRejected(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewService(store)

	b := &domain.Booking{
		ID: 5, UserID: 7,
		PaymentStatus: domain.PaymentPaid,
		Status:        domain.BookingConfirmed,
	}
	store.On("GetByID", mock.Anything, int64(5)).Return(b, nil)

	_, err := svc.ConfirmPayment(context.Background(), 7, 5)

	assert.ErrorIs(t, err, ErrAlreadyPaid)
	store.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_CancelledBooking(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewService(store)

	b := &domain.Booking{ID: 5, UserID: 7, Status: domain.BookingCancelled}
	store.On("GetByID", mock.Anything, int64(5)).Return(b, nil)

	_, err := svc.ConfirmPayment(context.Background(), 7, 5)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestConfirmPayment_NotOwner(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewService(store)

	b := &domain.Booking{ID: 5, UserID: 99, Status: domain.BookingConfirmed}
	store.On("GetByID", mock.Anything, int64(5)).Return(b, nil)

	_, err := svc.ConfirmPayment(context.Background(), 7, 5)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConfirmPayment_NotFound(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewService(store)

	store.On("GetByID", mock.Anything, int64(5)).Return(nil, repository.ErrNotFound)

	_, err := svc.ConfirmPayment(context.Background(), 7, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

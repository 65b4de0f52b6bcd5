package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"djstudio/internal/domain"
	"djstudio/internal/modules/wallet"
	"djstudio/internal/repository"
	"djstudio/internal/schedule"
)

type Service struct {
	bookings BookingRepository
	wallet   CreditWallet
	notifs   ChangeNotifier
}

func NewService(bookings BookingRepository, wallet CreditWallet, notifs ChangeNotifier) *Service {
	return &Service{
		bookings: bookings,
		wallet:   wallet,
		notifs:   notifs,
	}
}

// Availability returns the annotated slot grid for a date, with candidate
// slots anchored in the caller's zone so their absolute intervals line up
// with what Submit would commit. An empty date is legal and yields every
// slot disabled with the no-date reason; an empty zone means UTC.
func (s *Service) Availability(ctx context.Context, date string, durationHours int, excludeBookingID int64, timeZone string) ([]schedule.Slot, error) {
	loc, err := loadZone(timeZone)
	if err != nil {
		return nil, ErrValidation
	}

	var existing []schedule.ExistingBooking
	if date != "" {
		rows, err := s.bookings.GetForDate(ctx, date)
		if err != nil {
			return nil, err
		}
		existing = toSnapshot(rows)
	}

	slots, err := schedule.Evaluate(schedule.Request{
		Date:             date,
		DurationHours:    durationHours,
		ExcludeBookingID: excludeBookingID,
		Now:              time.Now().UTC(),
		CloseHour:        schedule.CloseHour,
		Location:         loc,
	}, schedule.DefaultSlots(), existing)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidDuration) {
			return nil, ErrValidation
		}
		return nil, err
	}
	return slots, nil
}

// Submit creates a booking, or edits one when req.EditingBookingID is set.
// The edited booking is exempt from conflicting with itself.
func (s *Service) Submit(ctx context.Context, userID int64, req SubmitBookingRequest) (*domain.Booking, error) {
	if !schedule.DurationAllowed(req.DurationHours) {
		return nil, ErrValidation
	}
	if req.TimeZone == "" {
		// Legacy rows may lack a zone; new submissions never do.
		return nil, ErrValidation
	}

	equipment, err := resolveEquipment(req.Equipment)
	if err != nil {
		return nil, err
	}

	loc, err := loadZone(req.TimeZone)
	if err != nil {
		return nil, ErrValidation
	}
	interval, err := schedule.ToInterval(req.Date, req.Time, req.DurationHours, req.TimeZone)
	if err != nil {
		return nil, ErrValidation
	}

	total := domain.RatePerHour * int64(req.DurationHours)
	if req.Total != 0 && req.Total != total {
		return nil, ErrValidation
	}

	// Advisory pre-check against the current snapshot, with candidates
	// anchored in the submission's own zone so the interval the conflict
	// rule tests is the one being committed. A stale snapshot is fine: the
	// repository re-checks inside its transaction.
	existing, err := s.bookings.GetForDate(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	slots, err := schedule.Evaluate(schedule.Request{
		Date:             req.Date,
		DurationHours:    req.DurationHours,
		ExcludeBookingID: req.EditingBookingID,
		Now:              time.Now().UTC(),
		CloseHour:        schedule.CloseHour,
		Location:         loc,
	}, schedule.DefaultSlots(), toSnapshot(existing))
	if err != nil {
		return nil, ErrValidation
	}
	picked, found := findSlot(slots, req.Time)
	if !found {
		return nil, ErrValidation
	}
	if picked.Disabled {
		return nil, ErrNotAvailable
	}

	if req.EditingBookingID != 0 {
		return s.applyEdit(ctx, userID, req, equipment, interval, total)
	}
	return s.create(ctx, userID, req, equipment, interval, total)
}

func (s *Service) create(ctx context.Context, userID int64, req SubmitBookingRequest, equipment []domain.EquipmentRef, interval schedule.Interval, total int64) (*domain.Booking, error) {
	b := &domain.Booking{
		UserID:        userID,
		Date:          req.Date,
		Time:          req.Time,
		DurationHours: req.DurationHours,
		TimeZone:      req.TimeZone,
		StartsAt:      interval.Start.UTC(),
		EndsAt:        interval.End.UTC(),
		Equipment:     equipment,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: domain.PaymentPending,
		Status:        domain.BookingWaitingConfirmation,
	}

	paidWithCredits := false
	if req.PaymentMethod == domain.PaymentMethodCredits {
		if err := s.wallet.SpendCredits(ctx, userID, total); err != nil {
			if errors.Is(err, wallet.ErrInsufficientFunds) {
				return nil, ErrInsufficientCredits
			}
			return nil, err
		}
		b.PaymentStatus = domain.PaymentPaid
		paidWithCredits = true
	}

	if err := s.bookings.CreateIfAvailable(ctx, b); err != nil {
		if paidWithCredits {
			if rerr := s.wallet.RefundCredits(ctx, userID, total); rerr != nil {
				log.Printf("booking: credit refund after failed create user_id=%d amount=%d err=%v", userID, total, rerr)
			}
		}
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrNotAvailable
		}
		return nil, err
	}

	s.notify(b.Date, b.ID, "created")
	return b, nil
}

func (s *Service) applyEdit(ctx context.Context, userID int64, req SubmitBookingRequest, equipment []domain.EquipmentRef, interval schedule.Interval, total int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, req.EditingBookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if current.UserID != userID {
		return nil, ErrForbidden
	}
	if current.Status == domain.BookingCancelled {
		return nil, ErrInvalidStatusTransition
	}

	// A paid credits booking keeps its paid state; the balance absorbs any
	// price difference from a changed duration.
	if current.PaymentMethod == domain.PaymentMethodCredits && current.PaymentStatus == domain.PaymentPaid {
		diff := total - current.Total
		if diff > 0 {
			if err := s.wallet.SpendCredits(ctx, userID, diff); err != nil {
				if errors.Is(err, wallet.ErrInsufficientFunds) {
					return nil, ErrInsufficientCredits
				}
				return nil, err
			}
		} else if diff < 0 {
			if err := s.wallet.RefundCredits(ctx, userID, -diff); err != nil {
				return nil, err
			}
		}
	}

	updated := *current
	updated.Date = req.Date
	updated.Time = req.Time
	updated.DurationHours = req.DurationHours
	updated.TimeZone = req.TimeZone
	updated.StartsAt = interval.Start.UTC()
	updated.EndsAt = interval.End.UTC()
	updated.Equipment = equipment
	updated.Total = total
	updated.PaymentMethod = req.PaymentMethod

	if err := s.bookings.UpdateIfAvailable(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrNotAvailable
		}
		return nil, err
	}

	s.notify(current.Date, updated.ID, "updated")
	if updated.Date != current.Date {
		s.notify(updated.Date, updated.ID, "updated")
	}
	return &updated, nil
}

// Cancel marks a booking cancelled. Terminal: the record stops blocking
// slots and cannot transition again. Credits paid for it come back.
func (s *Service) Cancel(ctx context.Context, userID, bookingID int64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if b.UserID != userID {
		return ErrForbidden
	}
	if !b.Status.CanTransitionTo(domain.BookingCancelled) {
		return ErrInvalidStatusTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingCancelled); err != nil {
		return err
	}

	if b.PaymentMethod == domain.PaymentMethodCredits && b.PaymentStatus == domain.PaymentPaid {
		if err := s.wallet.RefundCredits(ctx, userID, b.Total); err != nil {
			log.Printf("booking: credit refund on cancel user_id=%d booking_id=%d err=%v", userID, bookingID, err)
		}
	}

	s.notify(b.Date, bookingID, "cancelled")
	return nil
}

// Confirm moves a booking from waiting-for-confirmation to confirmed.
// Operator action; payment status is untouched.
func (s *Service) Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !b.Status.CanTransitionTo(domain.BookingConfirmed) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingConfirmed); err != nil {
		return nil, err
	}
	b.Status = domain.BookingConfirmed
	return b, nil
}

// SnapshotForDate lists the non-cancelled bookings of one date in the
// reduced shape clients use for their own conflict display.
func (s *Service) SnapshotForDate(ctx context.Context, date string) ([]BookedSlot, error) {
	rows, err := s.bookings.GetForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]BookedSlot, 0, len(rows))
	for _, b := range rows {
		out = append(out, BookedSlot{
			ID:            b.ID,
			Date:          b.Date,
			Time:          b.Time,
			DurationHours: b.DurationHours,
			TimeZone:      b.TimeZone,
		})
	}
	return out, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.GetByUser(ctx, userID)
}

func (s *Service) notify(date string, bookingID int64, event string) {
	if s.notifs != nil {
		s.notifs.BookingsChanged(date, bookingID, event)
	}
}

func toSnapshot(rows []domain.Booking) []schedule.ExistingBooking {
	out := make([]schedule.ExistingBooking, 0, len(rows))
	for _, b := range rows {
		out = append(out, schedule.ExistingBooking{
			ID:            b.ID,
			Date:          b.Date,
			Time:          b.Time,
			DurationHours: b.DurationHours,
			TimeZone:      b.TimeZone,
		})
	}
	return out
}

func loadZone(timeZone string) (*time.Location, error) {
	if timeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(timeZone)
}

func findSlot(slots []schedule.Slot, value string) (schedule.Slot, bool) {
	for _, s := range slots {
		if s.Value == value {
			return s, true
		}
	}
	return schedule.Slot{}, false
}

func resolveEquipment(selection []EquipmentSelection) ([]domain.EquipmentRef, error) {
	hasPlayer, hasMixer := false, false
	refs := make([]domain.EquipmentRef, 0, len(selection))
	for _, sel := range selection {
		eq, ok := domain.EquipmentByID(sel.ID)
		if !ok {
			return nil, ErrValidation
		}
		switch eq.Category {
		case domain.CategoryPlayer:
			hasPlayer = true
		case domain.CategoryMixer:
			hasMixer = true
		}
		refs = append(refs, domain.EquipmentRef{ID: eq.ID, Name: eq.Name, Type: eq.Type, Category: eq.Category})
	}
	if !hasPlayer || !hasMixer {
		return nil, ErrEquipmentSelection
	}
	return refs, nil
}

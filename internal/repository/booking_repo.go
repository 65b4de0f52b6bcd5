package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"djstudio/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrSlotTaken is returned when the serialized commit-time overlap
	// check finds a conflicting non-cancelled booking. This check, not the
	// client-side resolver, is the source of truth.
	ErrSlotTaken = errors.New("repository: slot already taken")
	ErrNotFound  = errors.New("repository: booking not found")
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	UserID        int64      `gorm:"column:user_id;index"`
	Date          string     `gorm:"column:date;index"`
	Time          string     `gorm:"column:time"`
	DurationHours int        `gorm:"column:duration_hours"`
	TimeZone      string     `gorm:"column:time_zone"`
	StartsAt      time.Time  `gorm:"column:starts_at;index"`
	EndsAt        time.Time  `gorm:"column:ends_at"`
	Equipment     string     `gorm:"column:equipment;type:text"`
	Total         int64      `gorm:"column:total"`
	PaymentMethod string     `gorm:"column:payment_method"`
	PaymentStatus string     `gorm:"column:payment_status"`
	Status        string     `gorm:"column:status"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	CancelledAt   *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) (*domain.Booking, error) {
	var equipment []domain.EquipmentRef
	if m.Equipment != "" {
		if err := json.Unmarshal([]byte(m.Equipment), &equipment); err != nil {
			return nil, err
		}
	}

	return &domain.Booking{
		ID:            m.ID,
		UserID:        m.UserID,
		Date:          m.Date,
		Time:          m.Time,
		DurationHours: m.DurationHours,
		TimeZone:      m.TimeZone,
		StartsAt:      m.StartsAt,
		EndsAt:        m.EndsAt,
		Equipment:     equipment,
		Total:         m.Total,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		Status:        domain.BookingStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CancelledAt:   m.CancelledAt,
	}, nil
}

func toBookingModel(b *domain.Booking) (bookingModel, error) {
	equipment, err := json.Marshal(b.Equipment)
	if err != nil {
		return bookingModel{}, err
	}

	return bookingModel{
		ID:            b.ID,
		UserID:        b.UserID,
		Date:          b.Date,
		Time:          b.Time,
		DurationHours: b.DurationHours,
		TimeZone:      b.TimeZone,
		StartsAt:      b.StartsAt,
		EndsAt:        b.EndsAt,
		Equipment:     string(equipment),
		Total:         b.Total,
		PaymentMethod: string(b.PaymentMethod),
		PaymentStatus: string(b.PaymentStatus),
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		CancelledAt:   b.CancelledAt,
	}, nil
}

// overlapExists counts non-cancelled bookings whose [starts_at, ends_at)
// intersects the given interval, optionally ignoring one booking id (the
// record being edited).
func overlapExists(tx *gorm.DB, start, end time.Time, excludeID int64) (bool, error) {
	var cnt int64
	q := tx.Model(&bookingModel{}).
		Where("status <> ?", string(domain.BookingCancelled)).
		Where("starts_at < ? AND ends_at > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// CreateIfAvailable inserts the booking only if its interval is free,
// inside a single transaction so two concurrent submissions cannot both
// pass the check. On Postgres a unique/exclusion index backs this up; its
// violation is mapped to ErrSlotTaken as well.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := overlapExists(tx, m.StartsAt, m.EndsAt, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		if isOverbookingConstraint(err) {
			return ErrSlotTaken
		}
		return err
	}

	updated, err := toDomainBooking(m)
	if err != nil {
		return err
	}
	*b = *updated
	return nil
}

// UpdateIfAvailable rewrites a booking's mutable fields, re-checking the
// interval with the booking itself exempted from the overlap scan.
func (r *BookingRepository) UpdateIfAvailable(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := overlapExists(tx, m.StartsAt, m.EndsAt, m.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		res := tx.Model(&bookingModel{}).Where("id = ?", m.ID).Updates(map[string]any{
			"date":           m.Date,
			"time":           m.Time,
			"duration_hours": m.DurationHours,
			"time_zone":      m.TimeZone,
			"starts_at":      m.StartsAt,
			"ends_at":        m.EndsAt,
			"equipment":      m.Equipment,
			"total":          m.Total,
			"payment_method": m.PaymentMethod,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if isOverbookingConstraint(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m)
}

// GetForDate returns the non-cancelled bookings committed on one calendar
// date, in start order. Cancelled records are filtered here so they never
// reach the conflict resolver.
func (r *BookingRepository) GetForDate(ctx context.Context, date string) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("date = ? AND status <> ?", date, string(domain.BookingCancelled)).
		Order("starts_at ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *BookingRepository) GetByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, string(domain.BookingCancelled)).
		Order("starts_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	updates := map[string]any{"status": string(status)}
	if status == domain.BookingCancelled {
		now := time.Now().UTC()
		updates["cancelled_at"] = &now
	}

	res := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Update("payment_status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isOverbookingConstraint(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_no_double_booking"
	}
	return false
}

// Migrate creates the bookings table and the partial unique index behind
// isOverbookingConstraint: no two non-cancelled bookings may share a start
// instant. Overlaps with distinct starts are left to the transactional
// check.
func (r *BookingRepository) Migrate() error {
	if err := r.db.AutoMigrate(&bookingModel{}); err != nil {
		return err
	}
	return r.db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_no_double_booking
		 ON bookings (starts_at) WHERE status <> 'cancelled'`,
	).Error
}

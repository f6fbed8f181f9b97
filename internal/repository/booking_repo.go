package repository

import (
	"context"
	"errors"
	"time"

	"classbook/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	UserID        int64     `gorm:"column:user_id;not null;index"`
	UserName      string    `gorm:"column:user_name;not null"`
	ClassroomID   int64     `gorm:"column:classroom_id;not null;index:idx_bookings_slot,priority:1"`
	ClassroomName string    `gorm:"column:classroom_name;not null"`
	BookingDate   string    `gorm:"column:booking_date;size:10;not null;index:idx_bookings_slot,priority:2"`
	StartMinute   int       `gorm:"column:start_minute;not null"`
	EndMinute     int       `gorm:"column:end_minute;not null"`
	Purpose       string    `gorm:"column:purpose;type:text;not null"`
	Status        string    `gorm:"column:status;size:16;not null;index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:            m.ID,
		UserID:        m.UserID,
		UserName:      m.UserName,
		ClassroomID:   m.ClassroomID,
		ClassroomName: m.ClassroomName,
		Date:          domain.Date(m.BookingDate),
		StartTime:     domain.TimeOfDay(m.StartMinute),
		EndTime:       domain.TimeOfDay(m.EndMinute),
		Purpose:       m.Purpose,
		Status:        domain.BookingStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:            b.ID,
		UserID:        b.UserID,
		UserName:      b.UserName,
		ClassroomID:   b.ClassroomID,
		ClassroomName: b.ClassroomName,
		BookingDate:   b.Date.String(),
		StartMinute:   int(b.StartTime),
		EndMinute:     int(b.EndTime),
		Purpose:       b.Purpose,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

// BookingFilter narrows List. Zero fields are ignored.
type BookingFilter struct {
	UserID      int64
	ClassroomID int64
	Date        domain.Date
	From        domain.Date
	To          domain.Date
	Statuses    []domain.BookingStatus
	// BySchedule orders by date and start time instead of creation order.
	BySchedule bool
}

func (f BookingFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ClassroomID > 0 {
		q = q.Where("classroom_id = ?", f.ClassroomID)
	}
	if f.Date != "" {
		q = q.Where("booking_date = ?", f.Date.String())
	}
	if f.From != "" {
		q = q.Where("booking_date >= ?", f.From.String())
	}
	if f.To != "" {
		q = q.Where("booking_date <= ?", f.To.String())
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.BySchedule {
		return q.Order("booking_date ASC").Order("start_minute ASC").Order("id ASC")
	}
	return q.Order("id ASC")
}

func blockingStatuses() []string {
	return []string{string(domain.BookingPending), string(domain.BookingConfirmed)}
}

// blockingOn loads the bookings holding a slot in classroomID on date, skipping excludeID.
func blockingOn(tx *gorm.DB, classroomID int64, date domain.Date, excludeID int64) ([]domain.Booking, error) {
	q := tx.Where("classroom_id = ? AND booking_date = ? AND status IN ?", classroomID, date.String(), blockingStatuses())
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var rows []bookingModel
	if err := q.Order("start_minute ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// CreateIfFree runs check against the bookings currently blocking b's classroom
// and date, and inserts b in the same transaction if check returns nil.
func (r *BookingRepository) CreateIfFree(ctx context.Context, b *domain.Booking, check func(existing []domain.Booking) error) error {
	var created bookingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := blockingOn(tx, b.ClassroomID, b.Date, 0)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}
		created = toBookingModel(b)
		return tx.Create(&created).Error
	})
	if err != nil {
		if isOverlapViolation(err) {
			return ErrSlotTaken
		}
		return err
	}
	*b = *toDomainBooking(created)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	var rows []bookingModel
	if err := f.apply(r.db.WithContext(ctx).Model(&bookingModel{})).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// FindBlocking returns the pending and confirmed bookings of a classroom on a date.
func (r *BookingRepository) FindBlocking(ctx context.Context, classroomID int64, date domain.Date) ([]domain.Booking, error) {
	return blockingOn(r.db.WithContext(ctx), classroomID, date, 0)
}

// StatusDecider picks the next status for current given the other bookings
// that block the same classroom and date.
type StatusDecider func(current *domain.Booking, sameSlot []domain.Booking) (domain.BookingStatus, error)

// UpdateStatus reads the booking, asks decide for the new status and writes it,
// all in one transaction.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, decide StatusDecider) (*domain.Booking, error) {
	var updated *domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m bookingModel
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		current := toDomainBooking(m)

		sameSlot, err := blockingOn(tx, current.ClassroomID, current.Date, current.ID)
		if err != nil {
			return err
		}
		next, err := decide(current, sameSlot)
		if err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&bookingModel{}).
			Where("id = ?", id).
			Updates(map[string]any{"status": string(next), "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		current.Status = next
		current.UpdatedAt = now
		updated = current
		return nil
	})
	if err != nil {
		if isOverlapViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return updated, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&bookingModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) CountByStatus(ctx context.Context) (domain.BookingStats, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return domain.BookingStats{}, err
	}

	var st domain.BookingStats
	for _, row := range rows {
		st.Add(domain.BookingStatus(row.Status), row.N)
	}
	return st, nil
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

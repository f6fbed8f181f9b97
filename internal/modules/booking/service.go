package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"classbook/internal/access"
	"classbook/internal/domain"
	"classbook/internal/notification"
	"classbook/internal/pkg/lock"
	"classbook/internal/repository"

	"go.uber.org/zap"
)

type Service struct {
	bookings   BookingRepository
	classrooms ClassroomRepository
	users      UserRepository
	locker     lock.Locker
	events     notification.Publisher
	log        *zap.Logger
	now        func() time.Time
}

func NewService(
	bookings BookingRepository,
	classrooms ClassroomRepository,
	users UserRepository,
	locker lock.Locker,
	events notification.Publisher,
	log *zap.Logger,
) *Service {
	return &Service{
		bookings:   bookings,
		classrooms: classrooms,
		users:      users,
		locker:     locker,
		events:     events,
		log:        log,
		now:        time.Now,
	}
}

// slotKey serializes writers that could create overlapping bookings.
func slotKey(classroomID int64, date domain.Date) string {
	return fmt.Sprintf("booking:%d|%s", classroomID, date)
}

// ListBookings returns every booking for admins and the caller's own otherwise.
func (s *Service) ListBookings(ctx context.Context, caller domain.Caller) ([]domain.Booking, error) {
	f := repository.BookingFilter{}
	if !caller.IsAdmin() {
		f.UserID = caller.UserID
	}
	return s.bookings.List(ctx, f)
}

func (s *Service) ListUserBookings(ctx context.Context, caller domain.Caller, userID int64) ([]domain.Booking, error) {
	if !access.Allow(access.ListUserBookings, caller, userID) {
		return nil, ErrForbidden
	}
	return s.bookings.List(ctx, repository.BookingFilter{UserID: userID})
}

// GetBookingsForClassroom is public and lists only bookings that hold a slot.
func (s *Service) GetBookingsForClassroom(ctx context.Context, classroomID int64) ([]domain.Booking, error) {
	return s.bookings.List(ctx, repository.BookingFilter{
		ClassroomID: classroomID,
		Statuses:    []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed},
		BySchedule:  true,
	})
}

func (s *Service) GetBooking(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	b, err := s.booking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Allow(access.ViewBooking, caller, b.UserID) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) GetBookingsForDate(ctx context.Context, caller domain.Caller, rawDate string) ([]domain.Booking, error) {
	date, err := domain.ParseDate(strings.TrimSpace(rawDate))
	if err != nil {
		return nil, err
	}
	f := repository.BookingFilter{Date: date, BySchedule: true}
	if !caller.IsAdmin() {
		f.UserID = caller.UserID
	}
	return s.bookings.List(ctx, f)
}

func (s *Service) GetStats(ctx context.Context, caller domain.Caller) (domain.BookingStats, error) {
	if !access.Allow(access.ViewStats, caller, 0) {
		return domain.BookingStats{}, ErrForbidden
	}
	return s.bookings.CountByStatus(ctx)
}

// CreateBooking stores a pending booking. The conflict check and insert run
// under a per classroom and date lock and inside one transaction.
func (s *Service) CreateBooking(ctx context.Context, caller domain.Caller, req CreateBookingRequest) (*domain.Booking, error) {
	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		return nil, ErrValidation.WithMessage("Purpose is required")
	}
	date, rng, err := req.query().parse()
	if err != nil {
		return nil, err
	}

	classroom, err := s.classroom(ctx, req.ClassroomID)
	if err != nil {
		return nil, err
	}
	if !classroom.Available {
		return nil, ErrClassroomUnavailable
	}

	owner, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, slotKey(classroom.ID, date))
	if err != nil {
		return nil, fmt.Errorf("acquire slot lock: %w", err)
	}
	defer unlock()

	now := s.now()
	b := &domain.Booking{
		UserID:        owner.ID,
		UserName:      owner.Name,
		ClassroomID:   classroom.ID,
		ClassroomName: classroom.Name,
		Date:          date,
		StartTime:     rng.Start,
		EndTime:       rng.End,
		Purpose:       purpose,
		Status:        domain.BookingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.bookings.CreateIfFree(ctx, b, func(existing []domain.Booking) error {
		if !IsAvailable(existing, classroom.ID, date, rng) {
			return ErrBookingConflict
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrBookingConflict
		}
		return nil, err
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("classroom_id", b.ClassroomID),
		zap.String("date", b.Date.String()),
		zap.String("range", b.Range().String()),
	)
	s.events.Publish(notification.Event{
		Type:      notification.BookingCreated,
		Booking:   b,
		Classroom: classroom,
		ActorID:   caller.UserID,
		At:        now,
	})
	return b, nil
}

// SetStatus is the admin overwrite: any valid status is accepted regardless
// of the current one.
func (s *Service) SetStatus(ctx context.Context, caller domain.Caller, id int64, rawStatus string) (*domain.Booking, error) {
	if !access.Allow(access.SetBookingStatus, caller, 0) {
		return nil, ErrForbidden
	}
	target, err := domain.ParseBookingStatus(strings.TrimSpace(rawStatus))
	if err != nil {
		return nil, err
	}

	current, err := s.booking(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != target && !CanTransition(current.Status, target) {
		s.log.Info("booking status overridden outside lifecycle",
			zap.Int64("booking_id", id),
			zap.String("from", string(current.Status)),
			zap.String("to", string(target)),
		)
	}

	updated, err := s.transition(ctx, current, decideOverwrite(target))
	if err != nil {
		return nil, err
	}

	s.events.Publish(notification.Event{
		Type:    notification.BookingUpdated,
		Action:  notification.ActionStatusChanged,
		Booking: updated,
		ActorID: caller.UserID,
		At:      updated.UpdatedAt,
	})
	return updated, nil
}

// Cancel lets the owner or an admin cancel a booking that is still pending or confirmed.
func (s *Service) Cancel(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	current, err := s.booking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Allow(access.CancelBooking, caller, current.UserID) {
		return nil, ErrForbidden
	}
	if current.Status.IsTerminal() {
		return nil, ErrAlreadyClosed
	}

	updated, err := s.transition(ctx, current, decideCancel)
	if err != nil {
		return nil, err
	}

	s.events.Publish(notification.Event{
		Type:    notification.BookingUpdated,
		Action:  notification.ActionCancelled,
		Booking: updated,
		ActorID: caller.UserID,
		At:      updated.UpdatedAt,
	})
	return updated, nil
}

func (s *Service) DeleteBooking(ctx context.Context, caller domain.Caller, id int64) error {
	if !access.Allow(access.DeleteBooking, caller, 0) {
		return ErrForbidden
	}
	b, err := s.booking(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrBookingNotFound
		}
		return err
	}

	s.log.Info("booking deleted", zap.Int64("booking_id", id), zap.Int64("by", caller.UserID))
	s.events.Publish(notification.Event{
		Type:    notification.BookingDeleted,
		Booking: b,
		ActorID: caller.UserID,
		At:      s.now(),
	})
	return nil
}

// transition applies decide under the booking's slot lock so status changes
// cannot interleave with a create for the same classroom and date.
func (s *Service) transition(ctx context.Context, current *domain.Booking, decide repository.StatusDecider) (*domain.Booking, error) {
	unlock, err := s.locker.Lock(ctx, slotKey(current.ClassroomID, current.Date))
	if err != nil {
		return nil, fmt.Errorf("acquire slot lock: %w", err)
	}
	defer unlock()

	updated, err := s.bookings.UpdateStatus(ctx, current.ID, decide)
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, ErrBookingNotFound
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, ErrBookingConflict
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) booking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

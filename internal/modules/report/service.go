package report

import (
	"bytes"
	"context"
	"sort"
	"time"

	"classbook/internal/access"
	"classbook/internal/domain"
	"classbook/internal/pkg/apperror"
	"classbook/internal/repository"

	"go.uber.org/zap"
)

var ErrForbidden = apperror.Forbidden("FORBIDDEN", "Not authorized")

type BookingLister interface {
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
}

// Export is a rendered report ready to be sent as an attachment.
type Export struct {
	Body        *bytes.Buffer
	Filename    string
	ContentType string
	Rows        int
}

type Service struct {
	bookings BookingLister
	log      *zap.Logger
	now      func() time.Time
}

func NewService(bookings BookingLister, log *zap.Logger) *Service {
	return &Service{bookings: bookings, log: log, now: time.Now}
}

// Bookings returns the rows of an export ordered by date and start time.
func (s *Service) Bookings(ctx context.Context, f Filter) ([]domain.Booking, error) {
	rows, err := s.bookings.List(ctx, f.query())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].StartTime < rows[j].StartTime
	})
	return rows, nil
}

// ExportAll renders every booking matching f. Admin only.
func (s *Service) ExportAll(ctx context.Context, caller domain.Caller, format Format, f Filter) (*Export, error) {
	if !access.Allow(access.ExportAll, caller, 0) {
		return nil, ErrForbidden
	}
	return s.export(ctx, format, f, "bookings")
}

// ExportUser renders the bookings of one user for that user or an admin.
func (s *Service) ExportUser(ctx context.Context, caller domain.Caller, format Format, userID int64) (*Export, error) {
	if !access.Allow(access.ExportUserBookings, caller, userID) {
		return nil, ErrForbidden
	}
	return s.export(ctx, format, Filter{UserID: userID}, "my-bookings")
}

func (s *Service) export(ctx context.Context, format Format, f Filter, base string) (*Export, error) {
	rows, err := s.Bookings(ctx, f)
	if err != nil {
		return nil, err
	}
	body, err := Render(format, rows, s.now())
	if err != nil {
		s.log.Error("render export", zap.String("format", string(format)), zap.Error(err))
		return nil, err
	}
	return &Export{
		Body:        body,
		Filename:    format.Filename(base),
		ContentType: format.ContentType(),
		Rows:        len(rows),
	}, nil
}

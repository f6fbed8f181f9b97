package report

import (
	"strconv"
	"strings"

	"classbook/internal/domain"
	"classbook/internal/repository"
)

// Filter narrows an export. Zero fields are ignored.
type Filter struct {
	Status      domain.BookingStatus
	From        domain.Date
	To          domain.Date
	ClassroomID int64
	UserID      int64
}

// ParseFilter builds a Filter from query values. Unknown statuses, malformed
// dates and non-numeric ids are dropped rather than rejected.
func ParseFilter(status, startDate, endDate, classroomID string) Filter {
	var f Filter
	if st, err := domain.ParseBookingStatus(strings.TrimSpace(status)); err == nil {
		f.Status = st
	}
	if d, err := domain.ParseDate(strings.TrimSpace(startDate)); err == nil {
		f.From = d
	}
	if d, err := domain.ParseDate(strings.TrimSpace(endDate)); err == nil {
		f.To = d
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(classroomID), 10, 64); err == nil && id > 0 {
		f.ClassroomID = id
	}
	return f
}

func (f Filter) query() repository.BookingFilter {
	q := repository.BookingFilter{
		UserID:      f.UserID,
		ClassroomID: f.ClassroomID,
		From:        f.From,
		To:          f.To,
		BySchedule:  true,
	}
	if f.Status != "" {
		q.Statuses = []domain.BookingStatus{f.Status}
	}
	return q
}

package domain

import (
	"time"

	"classbook/internal/pkg/apperror"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

var ErrInvalidStatus = apperror.Validation("INVALID_STATUS", "Status must be one of pending, confirmed, rejected, cancelled")

// BookingStatuses lists every status in display order.
var BookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingRejected, BookingCancelled}

func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the owner can no longer cancel the booking.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingRejected
}

// Blocks reports whether a booking in this status occupies its slot.
func (s BookingStatus) Blocks() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking holds name snapshots taken at creation; later renames of the user or
// classroom are not reflected here.
type Booking struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	UserName      string        `json:"user_name"`
	ClassroomID   int64         `json:"classroom_id"`
	ClassroomName string        `json:"classroom_name"`
	Date          Date          `json:"date"`
	StartTime     TimeOfDay     `json:"start_time"`
	EndTime       TimeOfDay     `json:"end_time"`
	Purpose       string        `json:"purpose"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}

type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
}

// Add counts n bookings in status s.
func (st *BookingStats) Add(s BookingStatus, n int64) {
	switch s {
	case BookingPending:
		st.Pending += n
	case BookingConfirmed:
		st.Confirmed += n
	case BookingRejected:
		st.Rejected += n
	case BookingCancelled:
		st.Cancelled += n
	}
	st.Total += n
}

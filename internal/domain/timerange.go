package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"classbook/internal/pkg/apperror"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate      = apperror.Validation("INVALID_DATE", "Invalid date format. Use YYYY-MM-DD")
	ErrInvalidTime      = apperror.Validation("INVALID_TIME", "Invalid time format. Use HH:MM")
	ErrInvalidTimeRange = apperror.Validation("INVALID_TIME_RANGE", "End time must be after start time")
)

// Date is a calendar day in YYYY-MM-DD form. The zero value is not a valid date.
type Date string

// ParseDate accepts only zero-padded YYYY-MM-DD strings naming a real calendar day.
func ParseDate(s string) (Date, error) {
	if len(s) != len(dateLayout) {
		return "", ErrInvalidDate
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return Date(s), nil
}

func (d Date) String() string { return string(d) }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

// TimeOfDay is a wall-clock time counted in minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTime
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// MustTime is ParseTimeOfDay for literals known to be valid.
func MustTime(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Valid() bool { return t >= 0 && t < minutesPerDay }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidTime
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TimeRange is the half-open interval [Start, End) within a single day.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

func NewTimeRange(start, end TimeOfDay) (TimeRange, error) {
	if !start.Valid() || !end.Valid() {
		return TimeRange{}, ErrInvalidTime
	}
	if start >= end {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// ParseTimeRange parses two HH:MM strings into a non-empty range.
func ParseTimeRange(start, end string) (TimeRange, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(s, e)
}

// Overlaps reports whether the ranges share at least one minute.
// Ranges that only touch at an endpoint do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

func (r TimeRange) Minutes() int { return int(r.End - r.Start) }

func (r TimeRange) String() string { return r.Start.String() + "-" + r.End.String() }

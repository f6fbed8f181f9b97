package booking

import (
	"strings"

	"classbook/internal/domain"
)

type CreateBookingRequest struct {
	ClassroomID int64  `json:"classroom_id" validate:"required,gt=0"`
	Date        string `json:"date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Purpose     string `json:"purpose" validate:"required"`
}

type AvailabilityQuery struct {
	ClassroomID int64  `json:"classroom_id" validate:"required,gt=0"`
	Date        string `json:"date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (q AvailabilityQuery) parse() (domain.Date, domain.TimeRange, error) {
	if q.ClassroomID <= 0 {
		return "", domain.TimeRange{}, ErrValidation.WithMessage("Classroom ID is required")
	}
	date, err := domain.ParseDate(strings.TrimSpace(q.Date))
	if err != nil {
		return "", domain.TimeRange{}, err
	}
	rng, err := domain.ParseTimeRange(strings.TrimSpace(q.StartTime), strings.TrimSpace(q.EndTime))
	if err != nil {
		return "", domain.TimeRange{}, err
	}
	return date, rng, nil
}

func (r CreateBookingRequest) query() AvailabilityQuery {
	return AvailabilityQuery{ClassroomID: r.ClassroomID, Date: r.Date, StartTime: r.StartTime, EndTime: r.EndTime}
}

package booking

import (
	"context"

	"classbook/internal/domain"
	"classbook/internal/repository"
)

const (
	MsgClassroomUnavailable = "This classroom is not available for booking"
	MsgAlreadyBooked        = "This classroom is already booked for the selected time"
)

type AvailabilityResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

// FindConflicts returns the bookings in existing that hold the same classroom
// on the same date in a blocking status and overlap rng.
func FindConflicts(existing []domain.Booking, classroomID int64, date domain.Date, rng domain.TimeRange) []domain.Booking {
	var out []domain.Booking
	for _, b := range existing {
		if b.ClassroomID != classroomID || b.Date != date || !b.Status.Blocks() {
			continue
		}
		if b.Range().Overlaps(rng) {
			out = append(out, b)
		}
	}
	return out
}

// IsAvailable reports whether no booking in existing conflicts with rng.
func IsAvailable(existing []domain.Booking, classroomID int64, date domain.Date, rng domain.TimeRange) bool {
	return len(FindConflicts(existing, classroomID, date, rng)) == 0
}

// CheckAvailability evaluates the classroom's own flag before looking for
// time conflicts, so a disabled classroom always reports the same message.
func (s *Service) CheckAvailability(ctx context.Context, q AvailabilityQuery) (AvailabilityResult, error) {
	date, rng, err := q.parse()
	if err != nil {
		return AvailabilityResult{}, err
	}

	classroom, err := s.classroom(ctx, q.ClassroomID)
	if err != nil {
		return AvailabilityResult{}, err
	}
	if !classroom.Available {
		return AvailabilityResult{Available: false, Message: MsgClassroomUnavailable}, nil
	}

	existing, err := s.bookings.FindBlocking(ctx, classroom.ID, date)
	if err != nil {
		return AvailabilityResult{}, err
	}
	if !IsAvailable(existing, classroom.ID, date, rng) {
		return AvailabilityResult{Available: false, Message: MsgAlreadyBooked}, nil
	}
	return AvailabilityResult{Available: true}, nil
}

func (s *Service) classroom(ctx context.Context, id int64) (*domain.Classroom, error) {
	c, err := s.classrooms.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	return c, nil
}

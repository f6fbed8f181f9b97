package booking

import "classbook/internal/domain"

// transitions is the regular lifecycle. Admin status overwrites may leave it.
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:   {domain.BookingConfirmed, domain.BookingRejected, domain.BookingCancelled},
	domain.BookingConfirmed: {domain.BookingRejected, domain.BookingCancelled},
}

func CanTransition(from, to domain.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// decideCancel allows cancelling only bookings that are not yet terminal.
func decideCancel(current *domain.Booking, _ []domain.Booking) (domain.BookingStatus, error) {
	if !CanTransition(current.Status, domain.BookingCancelled) {
		return "", ErrAlreadyClosed
	}
	return domain.BookingCancelled, nil
}

// decideOverwrite accepts any target status. Moving a booking back into a
// blocking status is refused if another booking now holds an overlapping slot.
func decideOverwrite(target domain.BookingStatus) func(*domain.Booking, []domain.Booking) (domain.BookingStatus, error) {
	return func(current *domain.Booking, sameSlot []domain.Booking) (domain.BookingStatus, error) {
		if target.Blocks() && !current.Status.Blocks() {
			if !IsAvailable(sameSlot, current.ClassroomID, current.Date, current.Range()) {
				return "", ErrBookingConflict
			}
		}
		return target, nil
	}
}

package booking

import "classbook/internal/pkg/apperror"

var (
	ErrValidation           = apperror.Validation("VALIDATION_ERROR", "Invalid booking request")
	ErrBookingNotFound      = apperror.NotFound("BOOKING_NOT_FOUND", "Booking not found")
	ErrClassroomNotFound    = apperror.NotFound("CLASSROOM_NOT_FOUND", "Classroom not found")
	ErrUserNotFound         = apperror.NotFound("USER_NOT_FOUND", "User not found")
	ErrForbidden            = apperror.Forbidden("FORBIDDEN", "Not authorized")
	ErrClassroomUnavailable = apperror.Conflict("CLASSROOM_UNAVAILABLE", MsgClassroomUnavailable)
	ErrBookingConflict      = apperror.Conflict("BOOKING_CONFLICT", MsgAlreadyBooked)
	ErrAlreadyClosed        = apperror.State("BOOKING_CLOSED", "This booking is already cancelled or rejected")
)

package notification

import (
	"context"
	"time"

	"classbook/internal/domain"
)

type Type string

const (
	BookingCreated   Type = "booking-created"
	BookingUpdated   Type = "booking-updated"
	BookingDeleted   Type = "booking-deleted"
	ClassroomUpdated Type = "classroom-updated"
)

// Action tells apart the two ways a booking gets updated.
type Action string

const (
	ActionStatusChanged Action = "status-changed"
	ActionCancelled     Action = "cancelled"
)

type Event struct {
	Type      Type
	Action    Action
	Booking   *domain.Booking
	Classroom *domain.Classroom
	ActorID   int64
	At        time.Time
}

// OwnerID is the user a booking event concerns, or 0.
func (e Event) OwnerID() int64 {
	if e.Booking == nil {
		return 0
	}
	return e.Booking.UserID
}

// Payload is the body pushed to realtime and broker subscribers.
func (e Event) Payload() any {
	if e.Booking != nil {
		return e.Booking
	}
	return e.Classroom
}

// Sink receives every published event. Errors are logged by the dispatcher
// and never reach the operation that produced the event.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ev Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}

package notification

import (
	"context"
	"fmt"

	"classbook/internal/domain"
)

type InboxStore interface {
	CreateMany(ctx context.Context, ns []domain.Notification) error
}

type AdminDirectory interface {
	IDsByRole(ctx context.Context, role domain.Role) ([]int64, error)
}

// Inbox persists booking events as notification rows for the owner and for
// every admin other than the one who acted.
type Inbox struct {
	store  InboxStore
	admins AdminDirectory
}

func NewInbox(store InboxStore, admins AdminDirectory) *Inbox {
	return &Inbox{store: store, admins: admins}
}

func (i *Inbox) Name() string { return "inbox" }

func (i *Inbox) Deliver(ctx context.Context, ev Event) error {
	b := ev.Booking
	if b == nil {
		return nil
	}

	typ, ownerTitle, adminTitle := describe(ev)
	data := map[string]any{
		"booking_id":   b.ID,
		"classroom_id": b.ClassroomID,
		"status":       string(b.Status),
	}
	when := fmt.Sprintf("%s on %s, %s-%s", b.ClassroomName, b.Date, b.StartTime, b.EndTime)

	var rows []domain.Notification
	if b.UserID != ev.ActorID {
		rows = append(rows, domain.Notification{
			UserID: b.UserID, Type: typ, Title: ownerTitle, Message: when, Data: data, CreatedAt: ev.At,
		})
	}

	adminIDs, err := i.admins.IDsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("inbox: list admins: %w", err)
	}
	for _, id := range adminIDs {
		if id == ev.ActorID || id == b.UserID {
			continue
		}
		rows = append(rows, domain.Notification{
			UserID: id, Type: typ, Title: adminTitle, Message: b.UserName + ": " + when, Data: data, CreatedAt: ev.At,
		})
	}

	return i.store.CreateMany(ctx, rows)
}

func describe(ev Event) (domain.NotificationType, string, string) {
	switch ev.Type {
	case BookingCreated:
		return domain.NotifBookingCreated, "Booking request received", "New booking request"
	case BookingDeleted:
		return domain.NotifBookingDeleted, "Booking removed", "Booking removed"
	}
	if ev.Action == ActionCancelled {
		return domain.NotifBookingCancelled, "Booking cancelled", "Booking cancelled"
	}
	return domain.NotifBookingUpdated, "Booking " + string(ev.Booking.Status), "Booking " + string(ev.Booking.Status)
}

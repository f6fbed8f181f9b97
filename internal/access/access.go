// Package access holds the capability table consulted by every protected
// operation.
package access

import "classbook/internal/domain"

type Action int

const (
	ViewBooking Action = iota
	ListUserBookings
	CancelBooking
	SetBookingStatus
	DeleteBooking
	ViewStats
	ExportAll
	ExportUserBookings
	ManageClassrooms
	ManageUsers
)

type rule int

const (
	adminOnly rule = iota
	ownerOrAdmin
)

var table = map[Action]rule{
	ViewBooking:        ownerOrAdmin,
	ListUserBookings:   ownerOrAdmin,
	CancelBooking:      ownerOrAdmin,
	SetBookingStatus:   adminOnly,
	DeleteBooking:      adminOnly,
	ViewStats:          adminOnly,
	ExportAll:          adminOnly,
	ExportUserBookings: ownerOrAdmin,
	ManageClassrooms:   adminOnly,
	ManageUsers:        adminOnly,
}

// Allow reports whether caller may perform action on a resource owned by
// ownerID. ownerID is ignored for admin-only actions. Unknown actions are denied.
func Allow(action Action, caller domain.Caller, ownerID int64) bool {
	if !caller.Authenticated() {
		return false
	}
	r, ok := table[action]
	if !ok {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	return r == ownerOrAdmin && caller.UserID == ownerID
}

func (a Action) String() string {
	switch a {
	case ViewBooking:
		return "view_booking"
	case ListUserBookings:
		return "list_user_bookings"
	case CancelBooking:
		return "cancel_booking"
	case SetBookingStatus:
		return "set_booking_status"
	case DeleteBooking:
		return "delete_booking"
	case ViewStats:
		return "view_stats"
	case ExportAll:
		return "export_all"
	case ExportUserBookings:
		return "export_user_bookings"
	case ManageClassrooms:
		return "manage_classrooms"
	case ManageUsers:
		return "manage_users"
	}
	return "unknown"
}

package report

import (
	"fmt"
	"io"
	"time"

	"classbook/internal/domain"

	ics "github.com/arran4/golang-ical"
)

const icsLocalLayout = "20060102T150405"

// writeICS emits one VEVENT per booking. Start and end are floating local
// times because bookings carry no time zone.
func writeICS(w io.Writer, rows []domain.Booking, generatedAt time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//classbook//bookings//EN")
	cal.SetName("Classroom bookings")

	for _, b := range rows {
		ev := cal.AddEvent(fmt.Sprintf("booking-%d@classbook", b.ID))
		ev.SetDtStampTime(generatedAt.UTC())
		ev.SetCreatedTime(b.CreatedAt.UTC())
		ev.SetModifiedAt(b.UpdatedAt.UTC())
		ev.SetProperty(ics.ComponentPropertyDtStart, localStamp(b.Date, b.StartTime))
		ev.SetProperty(ics.ComponentPropertyDtEnd, localStamp(b.Date, b.EndTime))
		ev.SetSummary(fmt.Sprintf("%s: %s", b.ClassroomName, b.Purpose))
		ev.SetLocation(b.ClassroomName)
		ev.SetDescription(fmt.Sprintf("Booked by %s (%s)", b.UserName, b.Status))
		ev.SetProperty(ics.ComponentPropertyStatus, icsStatus(b.Status))
	}

	return cal.SerializeTo(w)
}

func localStamp(d domain.Date, t domain.TimeOfDay) string {
	return d.Time().Add(time.Duration(t) * time.Minute).Format(icsLocalLayout)
}

func icsStatus(s domain.BookingStatus) string {
	switch s {
	case domain.BookingConfirmed:
		return "CONFIRMED"
	case domain.BookingPending:
		return "TENTATIVE"
	}
	return "CANCELLED"
}

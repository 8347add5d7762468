// Package calendar renders stored appointments as an iCalendar feed.
package calendar

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/example/appointment-reminder/internal/application"
)

// ProductID identifies this service in generated calendars.
const ProductID = "-//appointment-reminder//EN"

// Export renders one VEVENT per appointment. Schedules are interpreted in loc
// (time.Local when nil). Appointments whose date or time cannot be parsed are
// left out, together with their count in skipped.
func Export(appointments []application.Appointment, loc *time.Location, stamp time.Time) (feed string, skipped int) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	for _, a := range appointments {
		start, err := a.Schedule(loc)
		if err != nil {
			skipped++
			continue
		}

		event := cal.AddEvent(a.ID)
		event.SetDtStampTime(stamp)
		if !a.CreatedAt.IsZero() {
			event.SetCreatedTime(a.CreatedAt)
		}
		event.SetStartAt(start)
		event.SetSummary(a.Title)
		if a.Location != "" {
			event.SetLocation(a.Location)
		}
		if a.Notes != "" {
			event.SetDescription(a.Notes)
		}
	}

	return cal.Serialize(), skipped
}

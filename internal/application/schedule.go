package application

import (
	"fmt"
	"time"
)

// ScheduleLayout is the combined layout of an appointment's date and time.
const ScheduleLayout = "2006-01-02 15:04"

// ReminderWindow bounds how far ahead an appointment produces a reminder.
const ReminderWindow = 70 * time.Minute

// ParseSchedule combines a YYYY-MM-DD date and an HH:MM time into a timestamp
// in loc. A nil loc means time.Local.
//
// Month, day and minute must have two digits ("2025-1-1" and "11:5" fail).
// The hour may have one or two ("9:00" parses as 09:00).
func ParseSchedule(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	at, err := time.ParseInLocation(ScheduleLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse schedule %q %q: %w", date, clock, err)
	}
	return at, nil
}

// Schedule returns the appointment's timestamp in loc.
func (a Appointment) Schedule(loc *time.Location) (time.Time, error) {
	return ParseSchedule(a.Date, a.Time, loc)
}

// isLive reports whether the appointment survives a sweep at now. Appointments
// whose schedule cannot be parsed never survive.
func isLive(a Appointment, now time.Time) bool {
	at, err := a.Schedule(now.Location())
	if err != nil {
		return false
	}
	return !at.Before(now)
}

// isDue reports whether the appointment starts within ReminderWindow of now.
func isDue(a Appointment, now time.Time) bool {
	at, err := a.Schedule(now.Location())
	if err != nil {
		return false
	}
	diff := at.Sub(now)
	return diff >= 0 && diff <= ReminderWindow
}

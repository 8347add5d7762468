package application

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// FormatListing renders appointments as 1-indexed lines.
func FormatListing(appointments []Appointment) string {
	if len(appointments) == 0 {
		return NoAppointments
	}
	lines := lo.Map(appointments, func(a Appointment, i int) string {
		return fmt.Sprintf("%d. %s | %s %s | %s | %s", i+1, a.Title, a.Date, a.Time, a.Location, a.Notes)
	})
	return strings.Join(lines, "\n")
}

// ReminderMessage renders the reminder line for a single appointment.
func ReminderMessage(a Appointment) string {
	return fmt.Sprintf("Reminder: %s on %s at %s at %s. Notes: %s", a.Title, a.Date, a.Time, a.Location, a.Notes)
}

// FormatReminders joins reminder messages with a blank line between them.
func FormatReminders(due []Appointment) string {
	if len(due) == 0 {
		return NoReminders
	}
	return strings.Join(lo.Map(due, func(a Appointment, _ int) string {
		return ReminderMessage(a)
	}), "\n\n")
}

// enrichmentStatus renders the status line for a failed compressor call.
func enrichmentStatus(message string) string {
	return "Error: " + message
}

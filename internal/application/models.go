package application

import (
	"strings"
	"time"
)

// ReminderInstruction is the fixed context handed to the compressor for every
// candidate appointment.
const ReminderInstruction = "You are an appointment reminder assistant. " +
	"Only generate short reminder messages for appointments."

// Status lines returned to the presentation layer.
const (
	StatusStored        = "Appointment stored successfully."
	StatusMissingFields = "Missing required fields."
	StatusDuplicate     = "Duplicate appointment not added."
	NoAppointments      = "No appointments stored."
	NoReminders         = "No reminders within the next hour."
)

// AppointmentInput captures the raw form fields supplied by a caller.
type AppointmentInput struct {
	Title    string
	Date     string
	Time     string
	Location string
	Notes    string
}

// normalize trims surrounding whitespace from every field.
func (in AppointmentInput) normalize() AppointmentInput {
	return AppointmentInput{
		Title:    strings.TrimSpace(in.Title),
		Date:     strings.TrimSpace(in.Date),
		Time:     strings.TrimSpace(in.Time),
		Location: strings.TrimSpace(in.Location),
		Notes:    strings.TrimSpace(in.Notes),
	}
}

// Appointment is a stored appointment. Values are never mutated once stored.
type Appointment struct {
	ID                string
	Title             string
	Date              string
	Time              string
	Location          string
	Notes             string
	CompressedContext string
	CreatedAt         time.Time
}

// AddResult carries the status line and the listing rendered after an add
// attempt. It is populated for failed attempts as well.
type AddResult struct {
	Status      string
	Listing     string
	Appointment Appointment
}

// ReminderResult carries the reminder text, the appointments that produced it
// and the full listing.
type ReminderResult struct {
	Reminders string
	Due       []Appointment
	Listing   string
}

package testfixtures

import (
	"io"
	"log/slog"

	"github.com/example/appointment-reminder/internal/application"
)

// DentistInput is the appointment used throughout the listing examples.
func DentistInput() application.AppointmentInput {
	return application.AppointmentInput{
		Title:    "Dentist",
		Date:     "2025-02-01",
		Time:     "09:00",
		Location: "Clinic",
		Notes:    "bring card",
	}
}

// InputAt returns an appointment input scheduled at the given date and time.
func InputAt(title, date, clock string) application.AppointmentInput {
	return application.AppointmentInput{Title: title, Date: date, Time: clock, Location: "Office"}
}

// Store bundles an appointment store with the controllable collaborators it
// was built from.
type Store struct {
	*application.AppointmentStore
	Clock      *Clock
	IDs        *IDGenerator
	Compressor *Compressor
}

// NewStore builds a store on a Clock at ReferenceTime, a deterministic
// IDGenerator and a succeeding Compressor.
func NewStore() *Store {
	clock := NewClock(ReferenceTime())
	ids := NewIDGenerator("")
	compressor := NewCompressor()
	return &Store{
		AppointmentStore: application.NewAppointmentStoreWithLogger(compressor, ids.NextFunc(), clock.NowFunc(), DiscardLogger()),
		Clock:            clock,
		IDs:              ids,
		Compressor:       compressor,
	}
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

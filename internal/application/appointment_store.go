package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

// ContextCompressor produces the compressed reminder context attached to an
// appointment before it is stored.
type ContextCompressor interface {
	Compress(ctx context.Context, instruction string, appointment Appointment) (string, error)
}

// AppointmentStore holds the live appointments of the process in insertion
// order and enforces deduplication and expiry.
//
// Every operation runs under a single lock so that a sweep and the read or
// write that follows it are observed atomically.
type AppointmentStore struct {
	mu           sync.Mutex
	appointments []Appointment
	keys         map[appointmentKey]struct{}

	compressor  ContextCompressor
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAppointmentStore constructs an empty store. A nil compressor skips
// enrichment.
func NewAppointmentStore(compressor ContextCompressor, idGenerator func() string, now func() time.Time) *AppointmentStore {
	return NewAppointmentStoreWithLogger(compressor, idGenerator, now, nil)
}

// NewAppointmentStoreWithLogger constructs an empty store with a specified logger.
func NewAppointmentStoreWithLogger(compressor ContextCompressor, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AppointmentStore {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AppointmentStore{
		keys:        make(map[appointmentKey]struct{}),
		compressor:  compressor,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *AppointmentStore) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AppointmentStore", operation, attrs...)
}

// Add sweeps expired appointments, validates and deduplicates the input,
// enriches it through the compressor and appends it to the store.
//
// The returned AddResult always carries a status line and the current listing,
// including when err is a *ValidationError, ErrDuplicate or *EnrichmentError.
func (s *AppointmentStore) Add(ctx context.Context, input AppointmentInput) (result AddResult, err error) {
	if s == nil {
		err = fmt.Errorf("AppointmentStore is nil")
		return
	}

	candidate := input.normalize()
	logger := s.loggerWith(ctx, "Add", "title", candidate.Title, "date", candidate.Date, "time", candidate.Time)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add appointment", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("appointment_id", result.Appointment.ID).InfoContext(ctx, "appointment stored")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(ctx, s.now())

	if vErr := validateAppointmentInput(candidate); vErr.HasErrors() {
		err = vErr
		result = AddResult{Status: StatusMissingFields, Listing: s.listingLocked()}
		return
	}

	key := candidate.key()
	if _, exists := s.keys[key]; exists {
		err = ErrDuplicate
		result = AddResult{Status: StatusDuplicate, Listing: s.listingLocked()}
		return
	}

	appointment := Appointment{
		ID:        s.idGenerator(),
		Title:     candidate.Title,
		Date:      candidate.Date,
		Time:      candidate.Time,
		Location:  candidate.Location,
		Notes:     candidate.Notes,
		CreatedAt: s.now(),
	}

	// The lock stays held across the call so the duplicate check and the append
	// are atomic. Other operations wait for at most the compressor timeout.
	if s.compressor != nil {
		compressed, cErr := s.compressor.Compress(ctx, ReminderInstruction, appointment)
		if cErr != nil {
			err = &EnrichmentError{Message: cErr.Error(), Err: cErr}
			result = AddResult{Status: enrichmentStatus(cErr.Error()), Listing: s.listingLocked()}
			return
		}
		appointment.CompressedContext = compressed
	}

	s.appointments = append(s.appointments, appointment)
	s.keys[key] = struct{}{}

	result = AddResult{Status: StatusStored, Listing: s.listingLocked(), Appointment: appointment}
	return
}

// List renders every stored appointment without sweeping.
func (s *AppointmentStore) List() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listingLocked()
}

// Appointments returns a copy of the stored appointments in insertion order
// without sweeping.
func (s *AppointmentStore) Appointments() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.appointments) == 0 {
		return nil
	}
	out := make([]Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

// CheckReminders sweeps expired appointments and reports the ones starting
// within ReminderWindow from now, boundaries included.
func (s *AppointmentStore) CheckReminders(ctx context.Context) ReminderResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(ctx, s.now())

	now := s.now()
	due := lo.Filter(s.appointments, func(a Appointment, _ int) bool {
		return isDue(a, now)
	})

	s.loggerWith(ctx, "CheckReminders").DebugContext(ctx, "reminders checked", "due", len(due), "stored", len(s.appointments))

	return ReminderResult{
		Reminders: FormatReminders(due),
		Due:       due,
		Listing:   s.listingLocked(),
	}
}

// Sweep removes every appointment scheduled strictly before now, as well as
// appointments whose date or time cannot be parsed. It returns the number of
// removed appointments.
func (s *AppointmentStore) Sweep(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sweepLocked(ctx, s.now()))
}

func (s *AppointmentStore) sweepLocked(ctx context.Context, now time.Time) []Appointment {
	if len(s.appointments) == 0 {
		return nil
	}

	kept, expired := lo.FilterReject(s.appointments, func(a Appointment, _ int) bool {
		return isLive(a, now)
	})
	if len(expired) == 0 {
		return nil
	}

	for _, a := range expired {
		delete(s.keys, a.key())
	}
	s.appointments = kept

	s.loggerWith(ctx, "Sweep").DebugContext(ctx, "expired appointments removed", "removed", len(expired), "remaining", len(kept))
	return expired
}

func (s *AppointmentStore) listingLocked() string {
	return FormatListing(s.appointments)
}

func validateAppointmentInput(input AppointmentInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.Date == "" {
		vErr.add("date", "date is required")
	}
	if input.Time == "" {
		vErr.add("time", "time is required")
	}

	return vErr
}

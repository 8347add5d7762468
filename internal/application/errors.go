package application

import "errors"

// ErrDuplicate is returned when an appointment with the same title, date, time
// and location is already stored.
var ErrDuplicate = errors.New("application: duplicate appointment")

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// EnrichmentError reports a failed call to the context compressor. Message is
// the collaborator's own description of the failure.
type EnrichmentError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EnrichmentError) Error() string {
	if e == nil {
		return ""
	}
	return "enrichment failed: " + e.Message
}

// Unwrap exposes the underlying compressor error.
func (e *EnrichmentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

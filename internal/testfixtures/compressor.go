package testfixtures

import (
	"context"
	"sync"

	"github.com/example/appointment-reminder/internal/application"
)

// Compressor is a scripted application.ContextCompressor. It returns Err when
// set and otherwise Prefix followed by the appointment title.
type Compressor struct {
	mu     sync.Mutex
	Prefix string
	Err    error
	calls  []application.Appointment
}

// NewCompressor returns a compressor that always succeeds.
func NewCompressor() *Compressor {
	return &Compressor{Prefix: "compressed: "}
}

// Compress implements application.ContextCompressor.
func (c *Compressor) Compress(ctx context.Context, instruction string, appointment application.Appointment) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, appointment)
	if c.Err != nil {
		return "", c.Err
	}
	return c.Prefix + appointment.Title, nil
}

// Fail makes subsequent calls return err. A nil err restores success.
func (c *Compressor) Fail(err error) {
	c.mu.Lock()
	c.Err = err
	c.mu.Unlock()
}

// Calls returns the appointments received so far.
func (c *Compressor) Calls() []application.Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]application.Appointment, len(c.calls))
	copy(out, c.calls)
	return out
}

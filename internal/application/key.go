package application

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// appointmentKey identifies an appointment by title, date, time and location.
// Fields are length prefixed before hashing so that separators inside values
// cannot make two different tuples collide.
type appointmentKey [blake2b.Size256]byte

func keyOf(title, date, clock, location string) appointmentKey {
	// New256 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New256(nil)
	var size [8]byte
	for _, field := range [...]string{title, date, clock, location} {
		binary.BigEndian.PutUint64(size[:], uint64(len(field)))
		h.Write(size[:])
		h.Write([]byte(field))
	}

	var key appointmentKey
	copy(key[:], h.Sum(nil))
	return key
}

func (a Appointment) key() appointmentKey {
	return keyOf(a.Title, a.Date, a.Time, a.Location)
}

func (in AppointmentInput) key() appointmentKey {
	return keyOf(in.Title, in.Date, in.Time, in.Location)
}

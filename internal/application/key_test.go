package application

import "testing"

func TestKeyOf(t *testing.T) {
	t.Parallel()

	base := keyOf("Dentist", "2025-02-01", "09:00", "Clinic")

	if base != (Appointment{Title: "Dentist", Date: "2025-02-01", Time: "09:00", Location: "Clinic", Notes: "x"}).key() {
		t.Fatalf("expected notes to be ignored by the key")
	}
	if base == keyOf("Dentist", "2025-02-01", "09:00", "clinic") {
		t.Fatalf("expected key comparison to be case sensitive")
	}
	if keyOf("a|b", "", "", "") == keyOf("a", "b", "", "") {
		t.Fatalf("expected field boundaries to be part of the key")
	}
}
